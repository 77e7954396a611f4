// Package emit renders IR into Go source text: a recursive-descent
// parser type exposing a constructor and a Parse method.
package emit

import (
	"fmt"
	"strings"

	"github.com/dekarrin/grouper/internal/gram"
	"github.com/dekarrin/grouper/internal/ir"
)

const indentUnit = "\t"

// Emitter renders one ir.Program to Go source.
type Emitter struct {
	pkg     string
	verbose bool
	pragmas map[string]any
	w       strings.Builder
	curFunc string          // name of the function currently being rendered
	lists   map[string]bool // locals declared []any in the current function
}

// New returns an Emitter for pkg (the generated file's package clause).
// verbose controls whether Verbose IR statements are rendered as comments.
// Whether each function declares and returns its root variable is decided
// per ir.Program/ir.Function by whether target inference ran (see Decorate).
func New(pkg string, verbose bool) *Emitter {
	return &Emitter{pkg: pkg, verbose: verbose}
}

func (e *Emitter) emit(format string, args ...any) {
	fmt.Fprintf(&e.w, format+"\n", args...)
}

// Emit renders prog to a complete Go source file.
func (e *Emitter) Emit(prog *ir.Program) string {
	e.pragmas = prog.Pragmas

	e.emit("package %s", e.pkg)
	e.emit("")
	e.emit("import \"fmt\"")
	e.emit("")

	for _, p := range prog.Preamble {
		e.emit("%s", p)
	}

	e.emit(prologue)

	for _, f := range prog.Functions {
		e.function(f)
	}

	e.emit("func NewParser(ts TokenStream) *Parser {")
	e.emit("%sreturn &Parser{ts: ts}", indentUnit)
	e.emit("}")
	e.emit("")

	if prog.Decorate {
		e.emit("func (p *Parser) Parse() (result any, err error) {")
	} else {
		e.emit("func (p *Parser) Parse() (err error) {")
	}
	e.emit("%sdefer func() {", indentUnit)
	e.emit("%s%sif r := recover(); r != nil {", indentUnit, indentUnit)
	e.emit("%s%s%spe, ok := r.(*ParseError)", indentUnit, indentUnit, indentUnit)
	e.emit("%s%s%sif !ok {", indentUnit, indentUnit, indentUnit)
	e.emit("%s%s%s%spanic(r)", indentUnit, indentUnit, indentUnit, indentUnit)
	e.emit("%s%s%s}", indentUnit, indentUnit, indentUnit)
	e.emit("%s%s%serr = pe", indentUnit, indentUnit, indentUnit)
	e.emit("%s%s}", indentUnit, indentUnit)
	e.emit("%s}()", indentUnit)
	if prog.Decorate {
		e.emit("%sresult = p.%s%s()", indentUnit, funcPrefix, prog.StartNonterminal)
	} else {
		e.emit("%sp.%s%s()", indentUnit, funcPrefix, prog.StartNonterminal)
	}
	e.emit("%sp.match(%q)", indentUnit, "EOF")
	if prog.Decorate {
		e.emit("%sreturn result, nil", indentUnit)
	} else {
		e.emit("%sreturn nil", indentUnit)
	}
	e.emit("}")

	return e.w.String()
}

const funcPrefix = "fn_"

const prologue = `// ParseError is raised by a generated parser on a grammar mismatch.
type ParseError struct {
	Message  string
	Tok      Token
	Expected []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Tok)
}

// Token is one lexical unit as produced by a TokenStream.
type Token struct {
	Kind   string
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%q (%s, line %d)", t.Lexeme, t.Kind, t.Line)
}

// TokenStream is the input a generated parser consumes.
type TokenStream interface {
	Peek() Token
	Next() Token
}

// Parser is the generated recursive-descent parser.
type Parser struct {
	ts TokenStream
}

func (p *Parser) current() string {
	return p.ts.Peek().Kind
}

func (p *Parser) match(kind string) Token {
	if p.current() != kind {
		panic(&ParseError{Message: fmt.Sprintf("expected %s", kind), Tok: p.ts.Peek(), Expected: []string{kind}})
	}
	return p.ts.Next()
}
`

func (e *Emitter) function(f ir.Function) {
	e.curFunc = f.Name
	e.lists = map[string]bool{}

	if !f.Decorate {
		e.emit("func (p *Parser) %s%s() {", funcPrefix, f.Name)
		e.emitStmts(f.Body, indentUnit)
		e.emit("}")
		e.emit("")
		return
	}

	rettype, hasRet := e.returnType(f.Name)
	sig := "any"
	if hasRet {
		sig = rettype
	}
	e.emit("func (p *Parser) %s%s() %s {", funcPrefix, f.Name, sig)
	root := fmt.Sprintf("_%s_", f.Name)
	e.emit("%svar %s %s", indentUnit, root, sig)
	e.emitStmts(f.Body, indentUnit)
	e.emit("}")
	e.emit("")
}

func (e *Emitter) returnType(fn string) (string, bool) {
	return gram.ReturnType(e.pragmas, fn)
}

func (e *Emitter) typeOf(name string) string {
	if t, ok := gram.LocalType(e.pragmas, e.curFunc, name); ok {
		return t
	}
	return "any"
}

func (e *Emitter) emitStmts(stmts []ir.Stmt, indent string) {
	if len(stmts) == 0 {
		e.emit("%s_ = struct{}{}", indent)
		return
	}
	for _, s := range stmts {
		e.stmt(s, indent)
	}
}

func guardExpr(g *ir.Guard) string {
	if g == nil {
		return "true"
	}
	kinds := g.Predict.Sorted()
	if len(kinds) == 0 {
		return "false"
	}
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("p.current() == %q", k)
	}
	return strings.Join(parts, " || ")
}

func (e *Emitter) stmt(s ir.Stmt, indent string) {
	indent1 := indent + indentUnit

	switch v := s.(type) {
	case ir.Copy:
		e.emit("%s%s = %s", indent, v.Lhs, v.Rhs)

	case ir.Sequence:
		for _, d := range v.Decls {
			typ := e.typeOf(d.Name)
			if d.List {
				typ = "[]any"
				e.lists[d.Name] = true
			}
			e.emit("%svar %s %s", indent, d.Name, typ)
			// A declared local may end up write-only (a value nothing
			// downstream reads); the blank use keeps such functions legal.
			e.emit("%s_ = %s", indent, d.Name)
		}
		e.emitStmts(v.Stmts, indent)

	case ir.Terminal:
		if v.Lhs != "" {
			e.emit("%s%s = p.match(%q)", indent, v.Lhs, v.Kind)
		} else {
			e.emit("%sp.match(%q)", indent, v.Kind)
		}

	case ir.NonTerminal:
		if v.Lhs != "" {
			e.emit("%s%s = p.%s%s()", indent, v.Lhs, funcPrefix, v.Name)
		} else {
			e.emit("%sp.%s%s()", indent, funcPrefix, v.Name)
		}

	case ir.Loop:
		e.emit("%sfor {", indent)
		if v.Top != nil {
			e.emit("%sif !(%s) {", indent1, guardExpr(v.Top))
			e.emit("%s%sbreak", indent1, indentUnit)
			e.emit("%s}", indent1)
		}
		e.emitStmts(v.Body, indent1)
		if v.Bottom != nil {
			e.emit("%sif !(%s) {", indent1, guardExpr(v.Bottom))
			e.emit("%s%sbreak", indent1, indentUnit)
			e.emit("%s}", indent1)
		}
		e.emit("%s}", indent)

	case ir.SelectAlternative:
		e.emit("%sswitch {", indent)
		for _, arm := range v.Arms {
			e.emit("%scase %s:", indent, guardExpr(&arm.Guard))
			e.emitStmts(arm.Body, indent1)
		}
		if v.Err != nil {
			e.emit("%sdefault:", indent)
			e.emit("%spanic(&ParseError{Message: %q, Tok: p.ts.Peek()})", indent1, v.Err.Message)
		}
		e.emit("%s}", indent)

	case ir.Corn:
		e.emit("%s%s", indent, v.Expr)

	case ir.Break:
		e.emit("%sbreak", indent)

	case ir.Continue:
		e.emit("%scontinue", indent)

	case ir.Empty:
		// nothing to render

	case ir.AssignNull:
		e.emit("%s%s = nil", indent, v.Lhs)

	case ir.AssignEmptyList:
		e.emit("%s%s = []any{}", indent, v.Lhs)

	case ir.AppendToList:
		if e.lists[v.Lhs] {
			e.emit("%s%s = append(%s, %s)", indent, v.Lhs, v.Lhs, v.Value)
		} else {
			// The destination was declared with an interface type (e.g. a
			// production's root variable); AssignEmptyList has already stored
			// a []any in it by the time any append runs.
			e.emit("%s%s = append(%s.([]any), %s)", indent, v.Lhs, v.Lhs, v.Value)
		}

	case ir.Return:
		if v.Value != "" {
			e.emit("%sreturn %s", indent, v.Value)
		} else {
			e.emit("%sreturn", indent)
		}

	case ir.Warning:
		e.emit("%s// WARNING: %s", indent, v.Message)

	case ir.Comment:
		e.emit("%s// %s", indent, v.Message)

	case ir.Verbose:
		if e.verbose {
			e.emit("%s// VERBOSE: %s", indent, v.Message)
		}

	default:
		panic(fmt.Sprintf("emit: unhandled statement %T", s))
	}
}
