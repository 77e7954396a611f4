// Package infer implements target inference: deciding, for every
// sub-expression of a production's right-hand side, which variable its
// runtime value should be written into, and what side effects must run once
// it is.
package infer

import (
	"fmt"

	"github.com/dekarrin/grouper/internal/gram"
)

// RootVar returns the synthesized variable name a production's body writes
// its final value into, e.g. "_S_" for a production S.
func RootVar(lhs string) string {
	return fmt.Sprintf("_%s_", lhs)
}

type inference struct {
	nonterms map[string]bool
}

// Infer runs target inference over every production of spec, mutating each
// node's Attrs.Target (and related fields, Keep0/Element/Name) in place.
func Infer(spec *gram.Spec) {
	inf := &inference{nonterms: map[string]bool{}}
	for nt := range spec.Nonterminals() {
		inf.nonterms[nt] = true
	}
	for _, p := range spec.Productions {
		root := &gram.Target{Name: RootVar(p.LHS)}
		inf.infer(p.RHS, root)
	}
}

func (inf *inference) infer(e gram.Expr, target *gram.Target) {
	switch v := e.(type) {
	case *gram.Alts:
		for _, alt := range v.Vals {
			inf.infer(alt, target)
		}

	case *gram.Sequence:
		if cons, ok := v.Seq.(*gram.Cons); ok {
			if _, tailIsLambda := cons.Tail.(*gram.Lambda); tailIsLambda {
				cons.Head.Attrs().Keep0 = true
			}
		}
		inf.infer(v.Seq, target)

	case *gram.Cons:
		var childTarget *gram.Target
		if v.Head.Attrs().Keep || v.Head.Attrs().Keep0 {
			childTarget = target
		}
		inf.infer(v.Head, childTarget)
		inf.infer(v.Tail, target)

	case *gram.Rep:
		inf.loop(v.Attrs(), v.E, target)
	case *gram.OnePlus:
		inf.loop(v.Attrs(), v.E, target)
	case *gram.Infinite:
		inf.loop(v.Attrs(), v.E, target)

	case *gram.Opt:
		v.Target = target
		t := target
		if v.Name != "" {
			t = &gram.Target{Name: v.Name}
		}
		inf.infer(v.E, t)

	case *gram.Parens:
		v.Target = target
		t := target
		if v.Name != "" {
			t = &gram.Target{Name: v.Name}
		}
		inf.infer(v.E, t)

	case *gram.Sym:
		if v.Name == "" && target == nil && inf.nonterms[v.Value] {
			v.Name = v.Value
		}
		v.Target = target

	case *gram.Value:
		v.Target = target

	case *gram.Lambda:
		// carries no value

	case *gram.Break:
		// direct translation, no value produced

	case *gram.Continue:
		// direct translation, no value produced

	default:
		panic(fmt.Sprintf("infer: unexpected expr %T", e))
	}
}

// loop implements the shared Rep/OnePlus/Infinite rule: unless marked
// simple, a loop with a known destination collects its body's values into
// that destination by synthesizing a per-iteration element variable.
func (inf *inference) loop(attrs *gram.AttrsBlock, body gram.Expr, target *gram.Target) {
	attrs.Target = target

	dst := attrs.Name
	if dst == "" && target != nil {
		dst = target.Name
	}

	if !attrs.Simple && dst != "" {
		element := dst + "_element_"
		attrs.Element = element
		inf.infer(body, &gram.Target{
			Name:        element,
			SideEffects: []gram.Effect{gram.AppendEffect{List: dst, Value: element}},
		})
		return
	}
	inf.infer(body, nil)
}
