package examples

import (
	"fmt"
	"strings"

	"github.com/dekarrin/grouper/internal/ierrors"
	"github.com/dekarrin/grouper/internal/ir"
)

// Interpret runs an in-process recursive-descent interpretation of prog
// against tokens (whitespace-split terminal kinds, as produced by Shortest
// or Random), without emitting or compiling a single line of host-language
// source. It exists so the round-trip property — every generated sentence
// is accepted, and a mutation that removes a disambiguating token is
// rejected — can be checked without shelling out to a separate toolchain.
func Interpret(prog *ir.Program, sentence string) error {
	_, err := InterpretValue(prog, sentence)
	return err
}

// InterpretValue is Interpret plus the parsed value: it tracks the copy,
// assign and append statements a decorated program uses to build its
// result, and returns whatever the start production's function returned.
// For an undecorated program the value is always nil.
func InterpretValue(prog *ir.Program, sentence string) (any, error) {
	var tokens []string
	if strings.TrimSpace(sentence) != "" {
		tokens = strings.Fields(sentence)
	}

	fns := map[string][]ir.Stmt{}
	for _, f := range prog.Functions {
		fns[f.Name] = f.Body
	}

	p := &interp{fns: fns, tokens: tokens}
	return p.run(prog.StartNonterminal)
}

type signal int

const (
	sigNone signal = iota
	sigBreak
	sigContinue
	sigReturn
)

type interp struct {
	fns    map[string][]ir.Stmt
	tokens []string
	pos    int
}

// frame is one generated function's local state: its variables and, once a
// Return has executed, its result.
type frame struct {
	vars map[string]any
	ret  any
}

func (p *interp) run(start string) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*ierrors.ParseError)
			if !ok {
				panic(r)
			}
			val = nil
			err = pe
		}
	}()

	val = p.call(start)
	if p.pos != len(p.tokens) {
		panic(ierrors.NewParseError("unconsumed input remains", p.current(), nil))
	}
	return val, nil
}

func (p *interp) current() ierrors.Token {
	if p.pos >= len(p.tokens) {
		return ierrors.Token{Kind: "EOF"}
	}
	return ierrors.Token{Kind: p.tokens[p.pos], Lexeme: p.tokens[p.pos]}
}

func (p *interp) match(kind string) string {
	if p.pos >= len(p.tokens) || p.tokens[p.pos] != kind {
		panic(ierrors.NewParseError(fmt.Sprintf("expected %s", kind), p.current(), []string{kind}))
	}
	p.pos++
	return p.tokens[p.pos-1]
}

func (p *interp) call(name string) any {
	body, ok := p.fns[name]
	if !ok {
		panic(fmt.Sprintf("examples: interpreter has no function %q", name))
	}
	f := &frame{vars: map[string]any{}}
	p.execStmts(body, f)
	return f.ret
}

func (p *interp) predictHolds(g ir.Guard) bool {
	return g.Predict.Has(p.current().Kind)
}

func (p *interp) execStmts(stmts []ir.Stmt, f *frame) signal {
	for _, s := range stmts {
		if sig := p.execStmt(s, f); sig != sigNone {
			return sig
		}
	}
	return sigNone
}

func (p *interp) execStmt(s ir.Stmt, f *frame) signal {
	switch v := s.(type) {
	case ir.Sequence:
		return p.execStmts(v.Stmts, f)

	case ir.Terminal:
		tok := p.match(v.Kind)
		if v.Lhs != "" {
			f.vars[v.Lhs] = tok
		}

	case ir.NonTerminal:
		val := p.call(v.Name)
		if v.Lhs != "" {
			f.vars[v.Lhs] = val
		}

	case ir.Copy:
		if val, ok := f.vars[v.Rhs]; ok {
			f.vars[v.Lhs] = val
		} else {
			// The right-hand side is an embedded host-language expression
			// the interpreter cannot evaluate; keep its text.
			f.vars[v.Lhs] = v.Rhs
		}

	case ir.AssignNull:
		f.vars[v.Lhs] = nil

	case ir.AssignEmptyList:
		f.vars[v.Lhs] = []any{}

	case ir.AppendToList:
		list, _ := f.vars[v.Lhs].([]any)
		f.vars[v.Lhs] = append(list, f.vars[v.Value])

	case ir.Loop:
		for {
			if v.Top != nil && !p.predictHolds(*v.Top) {
				break
			}
			sig := p.execStmts(v.Body, f)
			if sig == sigBreak {
				break
			}
			if sig == sigReturn {
				return sig
			}
			if v.Bottom != nil && !p.predictHolds(*v.Bottom) {
				break
			}
		}

	case ir.SelectAlternative:
		for _, arm := range v.Arms {
			if p.predictHolds(arm.Guard) {
				return p.execStmts(arm.Body, f)
			}
		}
		if v.Err != nil {
			panic(ierrors.NewParseError(v.Err.Message, p.current(), nil))
		}

	case ir.Break:
		return sigBreak

	case ir.Continue:
		return sigContinue

	case ir.Return:
		if v.Value != "" {
			f.ret = f.vars[v.Value]
		}
		return sigReturn

	default:
		// Corn, Warning, Comment, Verbose, Empty: narration or host-language
		// statements with no token-stream or tracked-value effect.
	}
	return sigNone
}
