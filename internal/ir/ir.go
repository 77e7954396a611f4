// Package ir is the structured, host-language-agnostic statement tree that
// Generate (gen.go) lowers grammar ASTs into, and package emit renders into
// source text.
package ir

import "github.com/dekarrin/grouper/internal/util"

// Guard names the set of terminal kinds that select a branch.
type Guard struct {
	Predict util.StringSet
}

// Decl is a local variable introduced at the top of a Sequence block. List
// is set when the declared name collects a repetition's elements, so the
// emitter can give it a slice type rather than a bare value type.
type Decl struct {
	Name string
	List bool
}

// Stmt is any IR statement. As with gram.Expr, variants are distinct struct
// types matched exhaustively by a type switch.
type Stmt interface{ stmtNode() }

// Copy assigns rhs's current value to lhs.
type Copy struct{ Lhs, Rhs string }

// MkCopy returns a Copy, or nil if lhs and rhs already name the same
// variable (no-op assignment).
func MkCopy(lhs, rhs string) Stmt {
	if lhs == rhs {
		return nil
	}
	return Copy{Lhs: lhs, Rhs: rhs}
}

func (Copy) stmtNode() {}

// Sequence introduces zero or more local declarations, then runs stmts.
type Sequence struct {
	Decls []Decl
	Stmts []Stmt
}

func (Sequence) stmtNode() {}

// Terminal consumes one token of Kind, binding it to Lhs if non-empty.
type Terminal struct {
	Lhs  string
	Kind string
}

func (Terminal) stmtNode() {}

// NonTerminal calls the generated function for Name, binding its result to
// Lhs if non-empty.
type NonTerminal struct {
	Lhs  string
	Name string
}

func (NonTerminal) stmtNode() {}

// Loop is a while-loop with an optional top guard (tested before the body,
// Rep) and/or bottom guard (tested after the body, OnePlus). Neither guard
// present means the loop runs until a Break (Infinite).
type Loop struct {
	Top    *Guard
	Body   []Stmt
	Bottom *Guard
}

func (Loop) stmtNode() {}

// Guarded is one arm of a SelectAlternative: run Body when Guard's predict
// set contains the lookahead token kind.
type Guarded struct {
	Guard Guard
	Body  []Stmt
}

// ParseError is the else-arm of a SelectAlternative with no alternative
// selected: the generated parser raises a runtime ParseError.
type ParseError struct{ Message string }

func (ParseError) stmtNode() {}

// SelectAlternative is an ordered set of guarded arms, falling through to
// Err (if present) when none match.
type SelectAlternative struct {
	Arms []Guarded
	Err  *ParseError
}

func (SelectAlternative) stmtNode() {}

// Corn embeds a raw host-language expression as a statement — the escape
// hatch for inline code blocks and untargeted values.
type Corn struct{ Expr string }

func (Corn) stmtNode() {}

// AssignNull, AssignEmptyList and AppendToList scaffold optional/repeated
// values.
type AssignNull struct{ Lhs string }

func (AssignNull) stmtNode() {}

type AssignEmptyList struct{ Lhs string }

func (AssignEmptyList) stmtNode() {}

type AppendToList struct{ Lhs, Value string }

func (AppendToList) stmtNode() {}

// Break, Continue and Empty are trivial control statements.
type Break struct{}

func (Break) stmtNode() {}

type Continue struct{}

func (Continue) stmtNode() {}

type Empty struct{}

func (Empty) stmtNode() {}

// Warning, Comment and Verbose are non-semantic annotations: Warning
// surfaces an ambiguity diagnostic found during analysis; Comment and
// Verbose are emitter-controlled narration (only Verbose is conditional on
// the --verbose flag).
type Warning struct{ Message string }

func (Warning) stmtNode() {}

type Comment struct{ Message string }

func (Comment) stmtNode() {}

type Verbose struct{ Message string }

func (Verbose) stmtNode() {}

// Return exits the enclosing function, yielding Value if non-empty.
type Return struct{ Value string }

func (Return) stmtNode() {}

// Function is one production lowered to a named body of statements. Decorate
// mirrors the Program's Decorate: false means Body never returns a value and
// the emitter must render a function with no return type.
type Function struct {
	Name     string
	Body     []Stmt
	Decorate bool
}

// Program is a whole grammar lowered to IR, ready for an emitter. Decorate
// records whether target inference ran: true means every function builds
// and returns a value, false means every function is a bare recognizer.
type Program struct {
	StartNonterminal string
	Preamble         []string
	Functions        []Function
	Pragmas          map[string]any
	Decorate         bool
}

// Append adds s to l, dropping nils and Empty markers — the IR builder's
// equivalent of the source's append() helper.
func Append(l []Stmt, s Stmt) []Stmt {
	if s == nil {
		return l
	}
	if _, ok := s.(Empty); ok {
		return l
	}
	return append(l, s)
}
