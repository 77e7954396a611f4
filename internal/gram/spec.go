package gram

import "github.com/dekarrin/grouper/internal/util"

// Production is a single grammar rule, lhs -> rhs. After merging
// (see MergeProductions) a non-terminal has exactly one Production.
type Production struct {
	LHS string
	RHS Expr
}

// Spec is the output of the surface parser: the preamble code blocks
// verbatim, the pragma key/value table, and the merged productions. The
// first production is the start symbol.
type Spec struct {
	Preamble    []string
	Pragmas     map[string]any
	Productions []Production
}

// StartSymbol returns the left-hand side of the first production.
func (s *Spec) StartSymbol() string {
	if len(s.Productions) == 0 {
		return ""
	}
	return s.Productions[0].LHS
}

// MergeProductions combines multiple rules that share a left-hand side into
// a single production whose right-hand side is an Alts of every alternative
// collected across all of them, in the order first seen. If a rule's own
// right-hand side is itself an Alts, its alternatives are flattened into the
// merged Alts rather than nested, preserving the single level of
// alternation the analysis and inference passes expect.
//
// The relative order of distinct left-hand sides is preserved from the order
// their first production appeared in, so the start symbol remains whichever
// non-terminal was defined first.
func MergeProductions(raw []Production) []Production {
	order := make([]string, 0, len(raw))
	seen := map[string]bool{}
	alts := map[string][]Expr{}

	for _, p := range raw {
		if !seen[p.LHS] {
			seen[p.LHS] = true
			order = append(order, p.LHS)
		}
		if a, ok := p.RHS.(*Alts); ok {
			alts[p.LHS] = append(alts[p.LHS], a.Vals...)
		} else {
			alts[p.LHS] = append(alts[p.LHS], p.RHS)
		}
	}

	merged := make([]Production, 0, len(order))
	for _, lhs := range order {
		vals := alts[lhs]
		var rhs Expr
		if len(vals) == 1 {
			rhs = vals[0]
		} else {
			rhs = NewAlts(vals)
		}
		merged = append(merged, Production{LHS: lhs, RHS: rhs})
	}
	return merged
}

// Nonterminals returns the set of left-hand side names defined by s.
func (s *Spec) Nonterminals() util.StringSet {
	nt := util.NewStringSet()
	for _, p := range s.Productions {
		nt.Add(p.LHS)
	}
	return nt
}
