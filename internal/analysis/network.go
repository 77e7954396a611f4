package analysis

import (
	"fmt"
	"sort"

	"github.com/dekarrin/grouper/internal/gram"
	"github.com/dekarrin/grouper/internal/ierrors"
	"github.com/dekarrin/grouper/internal/util"
)

// state is the symbol table and per-node cell bookkeeping for one Analyze
// call.
type state struct {
	symsNullable map[string]*Indirect
	symsFirst    map[string]*Indirect
	symsFollow   map[string]*Indirect

	nullable map[gram.Expr]*Indirect
	first    map[gram.Expr]*Indirect
	follow   map[gram.Expr]*Indirect
	predict  map[gram.Expr]*Indirect

	ancestors util.Stack[gram.Expr]
	terms     util.StringSet
	nonterms  util.StringSet
}

func emptySet() *Cell { return NewConstant(SetValue(util.NewStringSet())) }

func constBool(b bool) *Cell { return NewConstant(BoolValue(b)) }

func constSet(elems ...string) *Cell { return NewConstant(SetValue(util.StringSetOf(elems))) }

// children returns the direct descendants of e that analysis must recurse
// into. Leaf variants (Sym, Value, Lambda, Break,
// Continue) return nil.
func children(e gram.Expr) []gram.Expr {
	switch v := e.(type) {
	case *gram.Parens:
		return []gram.Expr{v.E}
	case *gram.Alts:
		return v.Vals
	case *gram.Sequence:
		return []gram.Expr{v.Seq}
	case *gram.Cons:
		return []gram.Expr{v.Head, v.Tail}
	case *gram.Opt:
		return []gram.Expr{v.E}
	case *gram.Rep:
		return []gram.Expr{v.E}
	case *gram.OnePlus:
		return []gram.Expr{v.E}
	case *gram.Infinite:
		return []gram.Expr{v.E}
	default:
		return nil
	}
}

func walk(e gram.Expr, visit func(gram.Expr)) {
	visit(e)
	for _, c := range children(e) {
		walk(c, visit)
	}
}

// Analyze runs the NULLABLE/FIRST/FOLLOW/PREDICT fixed-point computation
// over every production of spec and writes the results back into each
// node's Attrs, plus attaches ambiguity Warnings.
func Analyze(spec *gram.Spec) error {
	st := &state{
		symsNullable: map[string]*Indirect{},
		symsFirst:    map[string]*Indirect{},
		symsFollow:   map[string]*Indirect{},
		nullable:     map[gram.Expr]*Indirect{},
		first:        map[gram.Expr]*Indirect{},
		follow:       map[gram.Expr]*Indirect{},
		predict:      map[gram.Expr]*Indirect{},
		terms:        util.NewStringSet(),
		nonterms:     spec.Nonterminals(),
	}

	for _, p := range spec.Productions {
		walk(p.RHS, func(n gram.Expr) {
			if sym, ok := n.(*gram.Sym); ok && !st.nonterms.Has(sym.Value) {
				st.terms.Add(sym.Value)
			}
		})
	}

	for t := range st.terms {
		st.symsFirst[t] = NewIndirect(constSet(t))
		st.symsNullable[t] = NewIndirect(constBool(false))
		st.symsFollow[t] = NewIndirect(emptySet())
	}
	for nt := range st.nonterms {
		st.symsFirst[nt] = NewIndirect(emptySet())
		st.symsNullable[nt] = NewIndirect(constBool(false))
		st.symsFollow[nt] = NewIndirect(emptySet())
	}
	if len(spec.Productions) > 0 {
		st.symsFollow[spec.StartSymbol()].MergeOr(constSet("EOF"))
	}

	for _, p := range spec.Productions {
		walk(p.RHS, func(n gram.Expr) { st.populate(n) })
		st.follow[p.RHS].Replace(st.symsFollow[p.LHS].Cell())
		if err := st.setup(p.RHS); err != nil {
			return err
		}
	}

	for _, p := range spec.Productions {
		st.symsFirst[p.LHS].MergeOr(st.first[p.RHS].Cell())
		st.symsNullable[p.LHS].MergeOr(st.nullable[p.RHS].Cell())
	}

	for _, p := range spec.Productions {
		var bad gram.Expr
		walk(p.RHS, func(n gram.Expr) {
			if isUndefined(st.nullable[n].Cell()) || isUndefined(st.first[n].Cell()) ||
				isUndefined(st.follow[n].Cell()) || isUndefined(st.predict[n].Cell()) {
				bad = n
			}
		})
		if bad != nil {
			return ierrors.NewAnalysisError("production %q: a node never resolved its analysis cells", p.LHS)
		}
	}

	for _, p := range spec.Productions {
		walk(p.RHS, func(n gram.Expr) { st.overwrite(n) })
	}
	for _, p := range spec.Productions {
		walk(p.RHS, func(n gram.Expr) { st.computeWarnings(n) })
	}

	return nil
}

func (st *state) populate(n gram.Expr) {
	st.nullable[n] = NewIndirect(newUndefinedBool())
	st.first[n] = NewIndirect(newUndefinedSet())
	st.follow[n] = NewIndirect(newUndefinedSet())
	st.predict[n] = NewIndirect(newUndefinedSet())
}

func (st *state) setup(e gram.Expr) error {
	st.ancestors.Push(e)
	for _, c := range children(e) {
		if err := st.setup(c); err != nil {
			return err
		}
	}
	st.ancestors.Pop()
	return st.postSetup(e)
}

func (st *state) enclosingLoop() gram.Expr {
	for i := st.ancestors.Len() - 1; i >= 0; i-- {
		if gram.IsLoop(st.ancestors.Of[i]) {
			return st.ancestors.Of[i]
		}
	}
	return nil
}

// postSetup applies the structural law for e, once every
// child's cells are already wired. Break and Continue are handled entirely
// here, bypassing the generic PREDICT formula applied to every other node.
func (st *state) postSetup(e gram.Expr) error {
	switch v := e.(type) {
	case *gram.Lambda:
		st.nullable[e].Replace(constBool(true))
		st.first[e].Replace(emptySet())

	case *gram.Value:
		st.nullable[e].Replace(constBool(true))
		st.first[e].Replace(emptySet())

	case *gram.Parens:
		st.nullable[e].Replace(st.nullable[v.E].Cell())
		st.first[e].Replace(st.first[v.E].Cell())
		st.follow[v.E].Replace(st.follow[e].Cell())

	case *gram.Alts:
		nullable := constBool(false)
		first := emptySet()
		for _, alt := range v.Vals {
			nullable = Or(nullable, st.nullable[alt].Cell())
			first = Or(first, st.first[alt].Cell())
		}
		st.nullable[e].Replace(nullable)
		st.first[e].Replace(first)
		for _, alt := range v.Vals {
			st.follow[alt].Replace(st.follow[e].Cell())
		}

	case *gram.Sequence:
		st.nullable[e].Replace(st.nullable[v.Seq].Cell())
		st.first[e].Replace(st.first[v.Seq].Cell())
		st.follow[v.Seq].Replace(st.follow[e].Cell())

	case *gram.Cons:
		st.nullable[e].Replace(And(st.nullable[v.Head].Cell(), st.nullable[v.Tail].Cell()))
		st.first[e].Replace(Or(st.first[v.Head].Cell(), Gate(st.nullable[v.Head].Cell(), st.first[v.Tail].Cell(), emptySet())))
		st.follow[v.Tail].Replace(st.follow[e].Cell())
		st.follow[v.Head].Replace(Or(st.first[v.Tail].Cell(), Gate(st.nullable[v.Tail].Cell(), st.follow[v.Tail].Cell(), emptySet())))

	case *gram.Sym:
		st.nullable[e].Replace(st.symsNullable[v.Value].Cell())
		st.first[e].Replace(st.symsFirst[v.Value].Cell())
		st.symsFollow[v.Value].MergeOr(st.follow[e].Cell())

	case *gram.Rep:
		st.nullable[e].Replace(constBool(true))
		st.first[e].Replace(st.first[v.E].Cell())
		st.follow[v.E].Replace(Or(st.first[e].Cell(), st.follow[e].Cell()))

	case *gram.OnePlus:
		// Generalizes Rep: must execute at least once, so nullable mirrors
		// the body rather than always being true.
		st.nullable[e].Replace(st.nullable[v.E].Cell())
		st.first[e].Replace(st.first[v.E].Cell())
		st.follow[v.E].Replace(Or(st.first[e].Cell(), st.follow[e].Cell()))

	case *gram.Infinite:
		// Exits only via Break, so the loop never yields control by falling
		// through; same FOLLOW propagation as Rep/OnePlus so Break can still
		// reach the loop's own FOLLOW.
		st.nullable[e].Replace(constBool(false))
		st.first[e].Replace(st.first[v.E].Cell())
		st.follow[v.E].Replace(Or(st.first[e].Cell(), st.follow[e].Cell()))

	case *gram.Opt:
		st.nullable[e].Replace(constBool(true))
		st.first[e].Replace(st.first[v.E].Cell())
		st.follow[v.E].Replace(st.follow[e].Cell())

	case *gram.Break:
		st.nullable[e].Replace(constBool(false))
		loop := st.enclosingLoop()
		if loop == nil {
			return ierrors.NewAnalysisError("break used outside of any loop")
		}
		st.first[e].Replace(st.follow[loop].Cell())
		st.follow[e].Replace(st.follow[loop].Cell())
		st.predict[e].Replace(st.follow[loop].Cell())
		return nil

	case *gram.Continue:
		// Symmetric to Break: a continue is taken on whatever lookahead
		// would re-enter the loop body, not whatever exits it.
		st.nullable[e].Replace(constBool(false))
		loop := st.enclosingLoop()
		if loop == nil {
			return ierrors.NewAnalysisError("continue used outside of any loop")
		}
		body := gram.LoopBody(loop)
		st.first[e].Replace(st.first[body].Cell())
		st.follow[e].Replace(st.first[body].Cell())
		st.predict[e].Replace(st.first[body].Cell())
		return nil

	default:
		panic(fmt.Sprintf("analysis: unexpected expr %T", e))
	}

	st.predict[e].Replace(Or(st.first[e].Cell(), Gate(st.nullable[e].Cell(), st.follow[e].Cell(), emptySet())))
	return nil
}

func (st *state) overwrite(n gram.Expr) {
	a := n.Attrs()
	a.Nullable = bool(st.nullable[n].Value().(BoolValue))
	a.First = util.StringSet(st.first[n].Value().(SetValue))
	a.Follow = util.StringSet(st.follow[n].Value().(SetValue))
	a.Predict = util.StringSet(st.predict[n].Value().(SetValue))
}

// computeWarnings attaches ambiguity diagnostics once every node's Attrs has
// been overwritten with its final analysis values.
func (st *state) computeWarnings(n gram.Expr) {
	switch v := n.(type) {
	case *gram.Alts:
		counts := map[string]int{}
		for _, alt := range v.Vals {
			for s := range alt.Attrs().Predict {
				counts[s]++
			}
		}
		for _, alt := range v.Vals {
			var ambiguous []string
			for s := range alt.Attrs().Predict {
				if counts[s] > 1 {
					ambiguous = append(ambiguous, s)
				}
			}
			if len(ambiguous) > 0 {
				sort.Strings(ambiguous)
				v.Warnings = append(v.Warnings,
					fmt.Sprintf("AMBIGUOUS LOOKAHEAD: %v", ambiguous))
			}
		}

	case *gram.Rep:
		warnLoopBody(v.E, n.Attrs(), "repetition")
	case *gram.OnePlus:
		warnLoopBody(v.E, n.Attrs(), "repetition")
	case *gram.Opt:
		warnLoopBody(v.E, n.Attrs(), "optional")
	}
}

func warnLoopBody(body gram.Expr, self *gram.AttrsBlock, what string) {
	inter := body.Attrs().First.Intersection(self.Follow)
	if !inter.Empty() {
		elems := inter.Sorted()
		self.Warnings = append(self.Warnings, fmt.Sprintf("AMBIGUOUS: with lookahead %v", elems))
	}
	if body.Attrs().Nullable {
		self.Warnings = append(self.Warnings, fmt.Sprintf("AMBIGUOUS: nullable %s", what))
	}
}
