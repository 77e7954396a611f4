// Package analysis implements the reactive dataflow network that computes
// NULLABLE, FIRST, FOLLOW and PREDICT for every node of a grammar.
// The network itself — Constant/BinaryOp/Gate/Indirect cells connected by an
// observer graph that recomputes to a monotone fixed point — mirrors the
// dataflow core a reactive UI or build-graph library would use; this
// package's cell.go is that small reactive core, generalized from booleans
// and string sets to a single Value interface so the same wiring code
// handles both lattices.
package analysis

import "github.com/dekarrin/grouper/internal/util"

// Value is anything a cell can hold: either a BoolValue (nullable) or a
// SetValue (first/follow/predict).
type Value interface {
	Equal(Value) bool
}

// BoolValue is the nullable lattice (false < true).
type BoolValue bool

func (b BoolValue) Equal(o Value) bool {
	ob, ok := o.(BoolValue)
	return ok && b == ob
}

// SetValue is the first/follow/predict lattice (subset ordering, growing).
type SetValue util.StringSet

func (s SetValue) Equal(o Value) bool {
	os, ok := o.(SetValue)
	if !ok {
		return false
	}
	return util.StringSet(s).Equal(util.StringSet(os))
}

// undefined marks a cell's initial sentinel value. It is distinguishable
// from any real value so that the first recompute after wiring always
// fires, and so a post-analysis sanity pass can confirm every cell was
// eventually replaced.
type undefined struct{ fallback Value }

func (u undefined) Equal(o Value) bool {
	ou, ok := o.(undefined)
	return ok && u.fallback.Equal(ou.fallback)
}

// settled unwraps the undefined sentinel to its lattice bottom, so a binary
// cell computed before every operand is wired still yields a legal (if
// provisional) value; the operand's later Replace triggers the recompute
// that converges it.
func settled(v Value) Value {
	if u, ok := v.(undefined); ok {
		return u.fallback
	}
	return v
}

func orOp(a, b Value) Value {
	a, b = settled(a), settled(b)
	switch av := a.(type) {
	case BoolValue:
		return BoolValue(bool(av) || bool(b.(BoolValue)))
	case SetValue:
		u := util.StringSet(av).Copy()
		u.AddAll(util.StringSet(b.(SetValue)))
		return SetValue(u)
	default:
		panic("analysis: or of unsupported value")
	}
}

func andOp(a, b Value) Value {
	av, aok := settled(a).(BoolValue)
	bv, bok := settled(b).(BoolValue)
	if aok && bok {
		return BoolValue(av && bv)
	}
	panic("analysis: and of non-bool value")
}

// Cell is one node of the reactive network: it holds a value, publishes to
// observers, and recomputes when an observed cell changes.
type Cell struct {
	observers []*Cell
	value     Value
	compute   func() Value
}

func (c *Cell) Value() Value { return c.value }

func (c *Cell) addObserver(o *Cell) {
	c.observers = append(c.observers, o)
}

func (c *Cell) removeObserver(o *Cell) {
	for i, ob := range c.observers {
		if ob == o {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			return
		}
	}
}

func (c *Cell) notify() {
	for _, o := range c.observers {
		o.recompute()
	}
}

func (c *Cell) recompute() {
	tmp := c.compute()
	if !tmp.Equal(c.value) {
		c.value = tmp
		c.notify()
	}
}

// NewConstant returns a cell whose value never changes.
func NewConstant(v Value) *Cell {
	return &Cell{value: v, compute: func() Value { return v }}
}

func newUndefinedBool() *Cell {
	return NewConstant(undefined{fallback: BoolValue(false)})
}

func newUndefinedSet() *Cell {
	return NewConstant(undefined{fallback: SetValue(util.NewStringSet())})
}

// isUndefined reports whether c still holds its initial sentinel, meaning
// the wiring pass never reached it — a bug in the wiring table, not a
// property of any legal grammar.
func isUndefined(c *Cell) bool {
	_, ok := c.value.(undefined)
	return ok
}

// binary returns a cell that recomputes op(a, b) whenever a or b changes.
func binary(op func(a, b Value) Value, a, b *Cell) *Cell {
	c := &Cell{compute: func() Value { return op(a.Value(), b.Value()) }}
	a.addObserver(c)
	b.addObserver(c)
	c.value = c.compute()
	return c
}

// Or unions two bool or set cells.
func Or(a, b *Cell) *Cell { return binary(orOp, a, b) }

// And conjoins two bool cells.
func And(a, b *Cell) *Cell { return binary(andOp, a, b) }

// Gate selects trueVal when gate holds true, falseVal otherwise, and
// recomputes whenever any of the three changes.
func Gate(gate, trueVal, falseVal *Cell) *Cell {
	c := &Cell{}
	c.compute = func() Value {
		if bool(settled(gate.Value()).(BoolValue)) {
			return settled(trueVal.Value())
		}
		return settled(falseVal.Value())
	}
	gate.addObserver(c)
	trueVal.addObserver(c)
	falseVal.addObserver(c)
	c.value = c.compute()
	return c
}

// Indirect is a mutable pointer to another cell, used to break cycles in the
// dependency graph: a node's cell can be created and observed by others
// before the expression that determines its final value is known, then
// pointed at that expression once it is.
type Indirect struct {
	cell    *Cell
	current *Cell
}

// NewIndirect wraps initial, observing it for changes.
func NewIndirect(initial *Cell) *Indirect {
	ind := &Indirect{current: initial}
	ind.cell = &Cell{compute: func() Value { return ind.current.Value() }}
	initial.addObserver(ind.cell)
	ind.cell.value = ind.cell.compute()
	return ind
}

func (ind *Indirect) Value() Value { return ind.cell.Value() }

// Cell exposes the indirect's own cell, so it can be used as an operand to
// Or/And/Gate or observed by another Indirect — exactly as a direct cell
// reference would be.
func (ind *Indirect) Cell() *Cell { return ind.cell }

// Replace re-points the indirect at next, dropping the old subscription
//.
func (ind *Indirect) Replace(next *Cell) {
	ind.current.removeObserver(ind.cell)
	ind.current = next
	next.addObserver(ind.cell)
	ind.cell.recompute()
}

// MergeOr grows the indirect's value by unioning in next, the "merge-into"
// composition operator. Used wherever more than one AST site
// can contribute to the same symbol-table cell, e.g. every occurrence of a
// non-terminal contributing to its syms_follow.
func (ind *Indirect) MergeOr(next *Cell) {
	ind.Replace(Or(ind.current, next))
}
