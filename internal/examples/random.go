package examples

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/dekarrin/grouper/internal/gram"
	"github.com/dekarrin/grouper/internal/util"
)

// walker performs one random-walk derivation of a grammar's start symbol.
// recursion counts every node visited; once it passes limit, loop bodies
// (Opt/Rep/OnePlus's extra iterations/Infinite) stop expanding, which is
// what actually bounds the walk's length — the limit supplied by a caller,
// not a fixed literal.
type walker struct {
	productions []gram.Production
	nonterms    util.StringSet
	recursion   int
	limit       int
}

func (w *walker) walk(e gram.Expr) []string {
	w.recursion++
	switch v := e.(type) {
	case nil:
		return nil
	case *gram.Sequence:
		return w.walk(v.Seq)
	case *gram.Cons:
		return append(w.walk(v.Head), w.walk(v.Tail)...)
	case *gram.Lambda:
		return nil
	case *gram.Parens:
		return w.walk(v.E)
	case *gram.Value:
		return nil
	case *gram.Break:
		return nil
	case *gram.Continue:
		return nil
	case *gram.Sym:
		if w.nonterms.Has(v.Value) {
			return w.walk(lookup(w.productions, v.Value))
		}
		return []string{v.Value}
	case *gram.Alts:
		choice := v.Vals[rand.Intn(len(v.Vals))]
		return w.walk(choice)
	case *gram.Opt:
		if w.recursion >= w.limit {
			return nil
		}
		if rand.Intn(2) == 0 {
			return nil
		}
		return w.walk(v.E)
	case *gram.Rep:
		if w.recursion >= w.limit {
			return nil
		}
		var out []string
		for n := rand.Intn(3); n > 0; n-- {
			out = append(out, w.walk(v.E)...)
		}
		return out
	case *gram.OnePlus:
		out := w.walk(v.E)
		if w.recursion >= w.limit {
			return out
		}
		for n := rand.Intn(3); n > 0; n-- {
			out = append(out, w.walk(v.E)...)
		}
		return out
	case *gram.Infinite:
		if w.recursion >= w.limit {
			return nil
		}
		var out []string
		for n := rand.Intn(3); n > 0; n-- {
			out = append(out, w.walk(v.E)...)
		}
		return out
	default:
		panic(fmt.Sprintf("examples: unexpected expr %T", e))
	}
}

// maxStall is how many consecutive already-seen sentences Random tolerates
// before concluding the grammar cannot yield any more distinct ones.
const maxStall = 1000

// Random produces up to quantity distinct, uniformly-random sentences
// derived from spec's start production, rejecting and regenerating on a
// repeat. A grammar may derive fewer distinct sentences than asked for, so
// the walk gives up once maxStall consecutive derivations produce nothing
// new. limit caps how many nodes a single derivation may visit before its
// loop bodies stop taking extra iterations.
func Random(spec *gram.Spec, quantity, limit int) []string {
	if len(spec.Productions) == 0 || quantity <= 0 {
		return nil
	}
	if limit <= 0 {
		limit = 100
	}

	nonterms := spec.Nonterminals()
	seen := map[string]bool{}
	var outputs []string
	stall := 0
	for len(outputs) < quantity && stall < maxStall {
		w := &walker{productions: spec.Productions, nonterms: nonterms, limit: limit}
		toks := w.walk(spec.Productions[0].RHS)
		s := strings.Join(toks, " ")
		if seen[s] {
			stall++
			continue
		}
		seen[s] = true
		outputs = append(outputs, s)
		stall = 0
	}
	return outputs
}
