package ir

import (
	"fmt"

	"github.com/dekarrin/grouper/internal/gram"
	"github.com/dekarrin/grouper/internal/infer"
)

// Generate lowers an analyzed spec into IR. Callers must have already run
// analysis.Analyze over spec, and — when decorate is true — infer.Infer as
// well. When decorate is false, the pass that ran was recognition-only: no
// node carries a Target, and the emitted functions are bare recognizers with
// no return value, per the undecorated CLI mode.
func Generate(spec *gram.Spec, decorate bool) *Program {
	g := &generator{nonterms: spec.Nonterminals(), decorate: decorate}

	var functions []Function
	for _, p := range spec.Productions {
		functions = append(functions, g.production(p))
	}

	start := ""
	if len(spec.Productions) > 0 {
		start = spec.Productions[0].LHS
	}
	return &Program{
		StartNonterminal: start,
		Preamble:         spec.Preamble,
		Functions:        functions,
		Pragmas:          spec.Pragmas,
		Decorate:         decorate,
	}
}

type generator struct {
	nonterms interface{ Has(string) bool }
	decorate bool
}

func (g *generator) production(p gram.Production) Function {
	lhs := p.LHS

	preamble := []Stmt{
		Comment{Message: fmt.Sprintf("%s -> production", lhs)},
	}

	body := g.expr(p.RHS)
	body = append(preamble, body...)
	if g.decorate {
		body = append(body, Return{Value: infer.RootVar(lhs)})
	}
	return Function{Name: lhs, Body: body, Decorate: g.decorate}
}

// warnings renders attrs.Warnings as Warning statements, in situ.
func warnings(attrs *gram.AttrsBlock) []Stmt {
	var out []Stmt
	for _, w := range attrs.Warnings {
		out = append(out, Warning{Message: w})
	}
	return out
}

// epilogue applies the inline code blocks that trailed a term in the
// surface syntax, then, if the node wrote its value to a local Name
// distinct from its Target, copies that value up. It never discharges a
// target's side effects: the same Target object is shared by a wrapper
// node (Opt, Parens) and the leaf it forwards to, so lowering the effects
// here would run them once per holder. Collecting loops discharge their
// append in loopCollect instead, exactly once per iteration.
func epilogue(attrs *gram.AttrsBlock) []Stmt {
	var out []Stmt
	for _, c := range attrs.Stmts {
		out = Append(out, Corn{Expr: c})
	}
	if attrs.Name != "" && attrs.Target != nil && attrs.Name != attrs.Target.Name {
		out = Append(out, MkCopy(attrs.Target.Name, attrs.Name))
	}
	return out
}

// loopCollect is the single discharge point for a collecting loop's append
// obligation: one AppendToList at the end of the loop body, after the body
// has written its value into the synthesized element variable.
func loopCollect(attrs *gram.AttrsBlock) []Stmt {
	dst := destName(attrs)
	if dst == "" || attrs.Element == "" {
		return nil
	}
	return []Stmt{AppendToList{Lhs: dst, Value: attrs.Element}}
}

// destName is the variable a node should primarily write its value into:
// its own surface name if decorated with one, else its inferred target.
func destName(attrs *gram.AttrsBlock) string {
	if attrs.Name != "" {
		return attrs.Name
	}
	if attrs.Target != nil {
		return attrs.Target.Name
	}
	return ""
}

// dumpNode renders a one-line summary of e's computed analysis attributes,
// for the Verbose IR statement that precedes every node's lowering.
func dumpNode(e gram.Expr) string {
	a := e.Attrs()
	return fmt.Sprintf("%T nullable=%v first=%s follow=%s predict=%s",
		e, a.Nullable, a.First, a.Follow, a.Predict)
}

func (g *generator) expr(e gram.Expr) []Stmt {
	var lowered []Stmt
	switch v := e.(type) {
	case *gram.Alts:
		lowered = g.alts(v)
	case *gram.Sequence:
		lowered = g.sequence(v)
	case *gram.Rep:
		lowered = g.rep(v)
	case *gram.OnePlus:
		lowered = g.onePlus(v)
	case *gram.Infinite:
		lowered = g.infinite(v)
	case *gram.Opt:
		lowered = g.opt(v)
	case *gram.Sym:
		lowered = g.sym(v)
	case *gram.Parens:
		lowered = g.parens(v)
	case *gram.Value:
		lowered = g.value(v)
	case *gram.Lambda:
		lowered = nil
	case *gram.Break:
		lowered = []Stmt{Break{}}
	case *gram.Continue:
		lowered = []Stmt{Continue{}}
	default:
		panic(fmt.Sprintf("ir: unexpected expr %T", e))
	}
	return append([]Stmt{Verbose{Message: dumpNode(e)}}, lowered...)
}

func (g *generator) alts(x *gram.Alts) []Stmt {
	var arms []Guarded
	for _, alt := range x.Vals {
		arms = append(arms, Guarded{
			Guard: Guard{Predict: alt.Attrs().Predict},
			Body:  g.expr(alt),
		})
	}
	out := warnings(x.Attrs())
	out = append(out, SelectAlternative{Arms: arms, Err: &ParseError{Message: "syntax error"}})
	return append(out, epilogue(x.Attrs())...)
}

func (g *generator) sequence(x *gram.Sequence) []Stmt {
	var decls []Decl
	declared := map[string]bool{}
	decl := func(d Decl) {
		if declared[d.Name] {
			return
		}
		declared[d.Name] = true
		decls = append(decls, d)
	}
	var stmts []Stmt
	cur := x.Seq
	for {
		cons, ok := cur.(*gram.Cons)
		if !ok {
			break
		}
		if cons.Head.Attrs().Name != "" {
			isList := gram.IsLoop(cons.Head) && !cons.Head.Attrs().Simple
			decl(Decl{Name: cons.Head.Attrs().Name, List: isList})
		}
		if el := cons.Head.Attrs().Element; el != "" {
			// A collecting loop writes each iteration's value into its
			// synthesized element variable before appending it; that variable
			// lives in the loop's enclosing block, not the loop body.
			decl(Decl{Name: el})
		}
		stmts = append(stmts, g.expr(cons.Head)...)
		cur = cons.Tail
	}
	seq := Sequence{Decls: decls, Stmts: stmts}
	out := []Stmt{seq}
	return append(out, epilogue(x.Attrs())...)
}

func loopInit(attrs *gram.AttrsBlock) Stmt {
	dst := destName(attrs)
	if dst != "" && attrs.Element != "" && !attrs.Simple {
		return AssignEmptyList{Lhs: dst}
	}
	return Empty{}
}

func (g *generator) rep(x *gram.Rep) []Stmt {
	out := []Stmt{loopInit(x.Attrs())}
	out = append(out, warnings(x.Attrs())...)
	body := g.expr(x.E)
	body = append(body, loopCollect(x.Attrs())...)
	loop := Loop{Top: &Guard{Predict: x.E.Attrs().Predict}, Body: body, Bottom: nil}
	out = append(out, loop)
	return append(out, epilogue(x.Attrs())...)
}

func (g *generator) onePlus(x *gram.OnePlus) []Stmt {
	out := []Stmt{loopInit(x.Attrs())}
	out = append(out, warnings(x.Attrs())...)
	body := g.expr(x.E)
	body = append(body, loopCollect(x.Attrs())...)
	loop := Loop{Top: nil, Body: body, Bottom: &Guard{Predict: x.E.Attrs().Predict}}
	out = append(out, loop)
	return append(out, epilogue(x.Attrs())...)
}

func (g *generator) infinite(x *gram.Infinite) []Stmt {
	out := []Stmt{loopInit(x.Attrs())}
	out = append(out, warnings(x.Attrs())...)
	body := g.expr(x.E)
	body = append(body, loopCollect(x.Attrs())...)
	loop := Loop{Top: nil, Body: body, Bottom: nil}
	out = append(out, loop)
	return append(out, epilogue(x.Attrs())...)
}

func (g *generator) opt(x *gram.Opt) []Stmt {
	out := []Stmt{}
	dst := destName(x.Attrs())
	if dst != "" && !x.Simple {
		out = append(out, AssignNull{Lhs: dst})
	} else {
		out = append(out, Empty{})
	}
	out = append(out, warnings(x.Attrs())...)
	arm := Guarded{Guard: Guard{Predict: x.E.Attrs().Predict}, Body: g.expr(x.E)}
	out = append(out, SelectAlternative{Arms: []Guarded{arm}, Err: nil})
	return append(out, epilogue(x.Attrs())...)
}

func (g *generator) sym(x *gram.Sym) []Stmt {
	lhs := destName(x.Attrs())
	var s Stmt
	if g.nonterms.Has(x.Value) {
		s = NonTerminal{Lhs: lhs, Name: x.Value}
	} else {
		s = Terminal{Lhs: lhs, Kind: x.Value}
	}
	out := []Stmt{s}
	return append(out, epilogue(x.Attrs())...)
}

func (g *generator) parens(x *gram.Parens) []Stmt {
	out := g.expr(x.E)
	return append(out, epilogue(x.Attrs())...)
}

func (g *generator) value(x *gram.Value) []Stmt {
	var out []Stmt
	if x.Target != nil {
		out = Append(out, MkCopy(x.Target.Name, x.Code))
	} else {
		out = append(out, Comment{Message: "For side-effects"}, Corn{Expr: x.Code})
	}
	return append(out, epilogue(x.Attrs())...)
}
