// Package examples derives sample sentences from an analyzed grammar: a
// shortest-first enumerator and a random walk. Both share the same
// flattening step, which turns a sequence's Cons chain into a flat list of
// items — terminal text already resolved, or a node still needing a
// derivation choice (Sym referencing a non-terminal, Alts, Opt, Rep,
// OnePlus, Infinite).
package examples

import (
	"fmt"

	"github.com/dekarrin/grouper/internal/gram"
	"github.com/dekarrin/grouper/internal/util"
)

// item is either a string (resolved terminal text) or a gram.Expr still
// requiring a derivation choice.
type item any

// flatten walks e, descending through the purely structural nodes
// (Sequence, Cons, Lambda, Parens) and inline code (Value, Break, Continue,
// which contribute no terminal text), and stops at nodes that require a
// derivation decision.
func flatten(e gram.Expr, nonterms util.StringSet) []item {
	switch v := e.(type) {
	case nil:
		return nil
	case *gram.Sequence:
		return flatten(v.Seq, nonterms)
	case *gram.Cons:
		out := flatten(v.Head, nonterms)
		return append(out, flatten(v.Tail, nonterms)...)
	case *gram.Lambda:
		return nil
	case *gram.Parens:
		return flatten(v.E, nonterms)
	case *gram.Value:
		return nil
	case *gram.Break:
		return nil
	case *gram.Continue:
		return nil
	case *gram.Sym:
		if nonterms.Has(v.Value) {
			return []item{v}
		}
		return []item{v.Value}
	case *gram.Alts, *gram.Opt, *gram.Rep, *gram.OnePlus, *gram.Infinite:
		return []item{e}
	default:
		panic(fmt.Sprintf("examples: unexpected expr %T", e))
	}
}

// lookup returns the right-hand side of the production naming lhs, or nil
// if none is defined (callers only call this for names already confirmed
// to be non-terminals).
func lookup(productions []gram.Production, lhs string) gram.Expr {
	for _, p := range productions {
		if p.LHS == lhs {
			return p.RHS
		}
	}
	return nil
}

// concat returns a fresh slice holding before, middle, then after — none of
// the three are mutated or aliased into the result.
func concat(before, middle, after []item) []item {
	out := make([]item, 0, len(before)+len(middle)+len(after))
	out = append(out, before...)
	out = append(out, middle...)
	out = append(out, after...)
	return out
}

// repeatFlatten flattens e count times in a row, concatenating the results
// — a repetition's contribution at a fixed iteration count.
func repeatFlatten(e gram.Expr, count int, nonterms util.StringSet) []item {
	var out []item
	for i := 0; i < count; i++ {
		out = append(out, flatten(e, nonterms)...)
	}
	return out
}

// firstUnresolved returns the index of the first item in items that is not
// yet resolved terminal text, or -1 if every item is a string.
func firstUnresolved(items []item) int {
	for i, it := range items {
		if _, ok := it.(string); !ok {
			return i
		}
	}
	return -1
}

func joinTerminals(items []item) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += " "
		}
		out += it.(string)
	}
	return out
}
