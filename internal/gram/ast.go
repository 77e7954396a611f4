// Package gram holds the grammar AST: the tagged-variant
// expression tree produced by the surface parser, decorated in place by the
// analysis and inference passes, and later read by the IR generator.
package gram

import "github.com/dekarrin/grouper/internal/util"

// Expr is any grammar expression node. Variants are represented as distinct
// struct types rather than one node-with-a-kind-field, matched exhaustively
// by callers via a type switch — the idiomatic Go rendering of the source's
// tagged sum.
type Expr interface {
	exprNode()

	// Attrs returns the node's shared attribute block, filled in by the
	// analysis pass and mutated in place by the inference pass.
	Attrs() *AttrsBlock
}

// Target names the variable a node must write its value into, plus whatever
// side-effect statements must run once that value is available. The
// side effects are represented as a tiny closed set of Effect values rather
// than full IR statements so that this package does not need to import the
// ir package. A Target may be shared by a wrapper node (Opt, Parens) and
// the leaf it forwards to, so the IR generator discharges a loop's append
// obligation once at the loop itself rather than at every holder.
type Target struct {
	Name        string
	SideEffects []Effect
}

// Effect is a side-effect that must run after a child node has produced its
// value into a Target. The only effect the inference pass ever synthesizes is
// appending the freshly produced element to an enclosing loop's list.
type Effect interface{ effectNode() }

// AppendEffect appends Value to the list named List.
type AppendEffect struct {
	List  string
	Value string
}

func (AppendEffect) effectNode() {}

// AttrsBlock holds the attributes common to every Expr node. Embedded by
// value in every concrete node type.
type AttrsBlock struct {
	// Nullable, First, Follow, Predict are filled by the analysis pass and
	// never mutated afterwards.
	Nullable bool
	First    util.StringSet
	Follow   util.StringSet
	Predict  util.StringSet

	// Name is the surface-level label attached via 'ident, or synthesized by
	// the inference pass for a bare non-terminal reference.
	Name string

	// Keep marks a term prefixed with '=': its value contributes to the
	// enclosing sequence's value.
	Keep bool

	// Keep0 is set by the inference pass on the head of a sequence whose
	// tail is Lambda: such a head behaves as if it had been marked Keep,
	// since it is the sequence's only term.
	Keep0 bool

	// Simple marks a term suffixed with '!': a repetition/optional so marked
	// does not collect its values into a list.
	Simple bool

	// Target is filled by the inference pass: where this node's value must
	// be written, and what must happen once it is.
	Target *Target

	// Element is the synthesized name of a loop's per-iteration value,
	// `{dst}_element_`, set by the inference pass on Rep/OnePlus/Infinite
	// nodes that collect into a list.
	Element string

	// Stmts holds inline code blocks («...») that trailed this term in the
	// surface syntax; they are lowered to IR Corn statements in situ.
	Stmts []string

	// Warnings holds ambiguity diagnostics attached by the analysis pass
	//; they are lowered to IR Warning statements in situ.
	Warnings []string
}

func (a *AttrsBlock) Attrs() *AttrsBlock { return a }

// newAttrs returns an AttrsBlock with its set-valued fields initialized to
// empty (rather than nil) sets, since the analysis network always replaces
// them before they are read, but a zero-value StringSet used as a map is nil
// and would panic on Add during intermediate states such as printing a
// not-yet-analyzed tree.
func newAttrs() AttrsBlock {
	return AttrsBlock{
		First:   util.NewStringSet(),
		Follow:  util.NewStringSet(),
		Predict: util.NewStringSet(),
	}
}

// Sym references a terminal or non-terminal by name. Whether it is a
// terminal is not a property of the node itself — it depends on whether
// Value names a declared non-terminal in the enclosing Spec; unknown
// identifiers in right-hand sides become terminals.
type Sym struct {
	AttrsBlock
	Value string
}

func NewSym(value string) *Sym { return &Sym{AttrsBlock: newAttrs(), Value: value} }
func (*Sym) exprNode()         {}

// Value is an embedded host-language expression; it always yields a value
// and is always nullable.
type Value struct {
	AttrsBlock
	Code string
}

func NewValue(code string) *Value { return &Value{AttrsBlock: newAttrs(), Code: code} }
func (*Value) exprNode()          {}

// Parens groups a sub-expression, e.g. "( alternation )".
type Parens struct {
	AttrsBlock
	E Expr
}

func NewParens(e Expr) *Parens { return &Parens{AttrsBlock: newAttrs(), E: e} }
func (*Parens) exprNode()      {}

// Alts is an ordered alternation; the first alternative whose PREDICT set
// contains the lookahead terminal is taken.
type Alts struct {
	AttrsBlock
	Vals []Expr
}

func NewAlts(vals []Expr) *Alts { return &Alts{AttrsBlock: newAttrs(), Vals: vals} }
func (*Alts) exprNode()         {}

// Lambda is the empty tail of a sequence's cons-list.
type Lambda struct {
	AttrsBlock
}

func NewLambda() *Lambda { return &Lambda{AttrsBlock: newAttrs()} }
func (*Lambda) exprNode() {}

// Cons is an internal cons-cell of a sequence's term list: Head is a term,
// Tail is either another Cons or a Lambda.
type Cons struct {
	AttrsBlock
	Head Expr
	Tail Expr
}

func NewCons(head, tail Expr) *Cons { return &Cons{AttrsBlock: newAttrs(), Head: head, Tail: tail} }
func (*Cons) exprNode()             {}

// Sequence wraps a Cons/Lambda chain of terms.
// A code-block in a term's position (first in the sequence, or after "=")
// is just another term (a Value node); one with no destination to write to
// lowers to a bare statement marked as running for side effects. A
// code-block directly following a term is instead recorded in that term's
// Stmts.
type Sequence struct {
	AttrsBlock
	Seq Expr // a Cons chain terminated by Lambda
}

func NewSequence(seq Expr) *Sequence { return &Sequence{AttrsBlock: newAttrs(), Seq: seq} }
func (*Sequence) exprNode()          {}

// Opt is zero-or-one.
type Opt struct {
	AttrsBlock
	E Expr
}

func NewOpt(e Expr) *Opt { return &Opt{AttrsBlock: newAttrs(), E: e} }
func (*Opt) exprNode()   {}

// Rep is a top-tested zero-or-more loop.
type Rep struct {
	AttrsBlock
	E Expr
}

func NewRep(e Expr) *Rep { return &Rep{AttrsBlock: newAttrs(), E: e} }
func (*Rep) exprNode()   {}

// OnePlus is a bottom-tested one-or-more loop.
type OnePlus struct {
	AttrsBlock
	E Expr
}

func NewOnePlus(e Expr) *OnePlus { return &OnePlus{AttrsBlock: newAttrs(), E: e} }
func (*OnePlus) exprNode()       {}

// Infinite is an unbounded loop exited only via Break.
type Infinite struct {
	AttrsBlock
	E Expr
}

func NewInfinite(e Expr) *Infinite { return &Infinite{AttrsBlock: newAttrs(), E: e} }
func (*Infinite) exprNode()        {}

// Break leaves the innermost enclosing loop. PREDICT(Break) is taken
// from that loop's FOLLOW rather than computed structurally.
type Break struct {
	AttrsBlock
}

func NewBreak() *Break { return &Break{AttrsBlock: newAttrs()} }
func (*Break) exprNode() {}

// Continue restarts the innermost enclosing loop.
type Continue struct {
	AttrsBlock
}

func NewContinue() *Continue { return &Continue{AttrsBlock: newAttrs()} }
func (*Continue) exprNode()  {}

// IsLoop reports whether e is one of the three loop variants (Rep, OnePlus,
// Infinite) — the three kinds of Break/Continue's enclosing ancestor.
func IsLoop(e Expr) bool {
	switch e.(type) {
	case *Rep, *OnePlus, *Infinite:
		return true
	default:
		return false
	}
}

// LoopBody returns the body expression of a loop variant. Panics if e is not
// a loop; callers should check IsLoop first.
func LoopBody(e Expr) Expr {
	switch v := e.(type) {
	case *Rep:
		return v.E
	case *OnePlus:
		return v.E
	case *Infinite:
		return v.E
	default:
		panic("LoopBody: not a loop")
	}
}
