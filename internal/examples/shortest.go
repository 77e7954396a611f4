package examples

import (
	"container/heap"
	"fmt"

	"github.com/dekarrin/grouper/internal/gram"
	"github.com/dekarrin/grouper/internal/util"
)

// heapCap and heapPrune bound the shortest-first search's memory: once the
// frontier grows past heapCap entries it is pruned back down to heapPrune,
// keeping whatever the underlying heap slice happens to hold at that
// position rather than resorting it first. This mirrors the
// bounded-but-approximate behavior of the search it's grounded on: the
// prune is a blunt size cap, not a guarantee that only the largest entries
// are discarded.
const (
	heapCap   = 4_000_000
	heapPrune = 3_000_000
)

// formEntry is one candidate partial derivation sitting in the frontier.
// key is (min-remaining-terminals, current-length); seq breaks ties in
// insertion order so two forms with equal keys don't need items to be
// orderable.
type formEntry struct {
	items []item
	key   [2]int
	seq   int
}

// formHeap is a container/heap.Interface min-heap over formEntry, ordered
// by key then seq.
type formHeap struct {
	entries []formEntry
	limit   int
}

func (h *formHeap) Len() int { return len(h.entries) }

func (h *formHeap) Less(i, j int) bool {
	a, b := h.entries[i].key, h.entries[j].key
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return h.entries[i].seq < h.entries[j].seq
}

func (h *formHeap) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

func (h *formHeap) Push(x any) { h.entries = append(h.entries, x.(formEntry)) }

func (h *formHeap) Pop() any {
	old := h.entries
	n := len(old)
	e := old[n-1]
	h.entries = old[:n-1]
	return e
}

// push computes items' key and, unless its first component exceeds the
// configured limit, pushes it onto the heap — pruning first if the
// frontier has grown past heapCap.
func (h *formHeap) push(items []item, seq int, nonterms util.StringSet) {
	key := [2]int{minTerminals(items, nonterms), len(items)}
	if key[0] > h.limit {
		return
	}
	if len(h.entries) > heapCap {
		h.entries = h.entries[:heapPrune]
	}
	heap.Push(h, formEntry{items: items, key: key, seq: seq})
}

// minTerminals is the minimum number of terminal tokens any full derivation
// of items could ever produce — the shortest-first search's priority key.
func minTerminals(items []item, nonterms util.StringSet) int {
	total := 0
	for _, it := range items {
		total += minTerminalsOne(it, nonterms)
	}
	return total
}

func minTerminalsOne(x item, nonterms util.StringSet) int {
	switch v := x.(type) {
	case string:
		return 1
	case *gram.Sym:
		// flatten only ever leaves a Sym here when it names a
		// non-terminal; its own minimum is deferred to its production.
		return 0
	case *gram.Alts:
		best := -1
		for _, alt := range v.Vals {
			n := minTerminals(flatten(alt, nonterms), nonterms)
			if best == -1 || n < best {
				best = n
			}
		}
		return best
	case *gram.Opt:
		return 0
	case *gram.Rep:
		return 0
	case *gram.OnePlus:
		// must run its body at least once.
		return minTerminals(flatten(v.E, nonterms), nonterms)
	case *gram.Infinite:
		return 0
	default:
		panic(fmt.Sprintf("examples: unexpected item %T", x))
	}
}

// shortestState carries the grammar and heap a single enumeration run
// shares across derivation steps.
type shortestState struct {
	productions []gram.Production
	nonterms    util.StringSet
	h           *formHeap
	seq         int
}

func (st *shortestState) push(items []item) {
	st.h.push(items, st.seq, st.nonterms)
	st.seq++
}

// addDerivations pushes every one-step expansion of the unresolved item at
// the front of a partial form back onto the frontier.
func (st *shortestState) addDerivations(x item, before, after []item) {
	switch v := x.(type) {
	case *gram.Sym:
		rhs := lookup(st.productions, v.Value)
		st.push(concat(before, flatten(rhs, st.nonterms), after))

	case *gram.Alts:
		for _, alt := range v.Vals {
			st.push(concat(before, flatten(alt, st.nonterms), after))
		}

	case *gram.Opt:
		st.push(concat(before, flatten(v.E, st.nonterms), after))
		st.push(concat(before, nil, after))

	case *gram.Rep:
		for count := 0; count <= 2; count++ {
			st.push(concat(before, repeatFlatten(v.E, count, st.nonterms), after))
		}

	case *gram.OnePlus:
		for count := 1; count <= 3; count++ {
			st.push(concat(before, repeatFlatten(v.E, count, st.nonterms), after))
		}

	case *gram.Infinite:
		// An Infinite loop only terminates via an internal Break; for
		// enumeration purposes it is bounded the same way Rep is.
		for count := 0; count <= 2; count++ {
			st.push(concat(before, repeatFlatten(v.E, count, st.nonterms), after))
		}

	default:
		panic(fmt.Sprintf("examples: unexpected item %T", x))
	}
}

// Shortest enumerates up to quantity sentences derivable from spec's start
// production, shortest (by predicted remaining terminal count, then
// current length) first. limit caps the minimum-terminals key a partial
// form may have and still be kept in the frontier.
func Shortest(spec *gram.Spec, quantity, limit int) []string {
	if len(spec.Productions) == 0 || quantity <= 0 {
		return nil
	}

	nonterms := spec.Nonterminals()
	st := &shortestState{
		productions: spec.Productions,
		nonterms:    nonterms,
		h:           &formHeap{limit: limit},
	}
	heap.Init(st.h)
	st.push(flatten(spec.Productions[0].RHS, nonterms))

	var outputs []string
	for st.h.Len() > 0 && len(outputs) < quantity {
		e := heap.Pop(st.h).(formEntry)
		if idx := firstUnresolved(e.items); idx < 0 {
			outputs = append(outputs, joinTerminals(e.items))
		} else {
			before := append([]item{}, e.items[:idx]...)
			after := append([]item{}, e.items[idx+1:]...)
			st.addDerivations(e.items[idx], before, after)
		}
	}
	return outputs
}
