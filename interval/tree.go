package interval

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"

	itree "github.com/biogo/store/interval"
)

// span is a stored interval. The slot doubles as the tree element ID, which
// biogo requires to be unique among elements sharing a start position.
type span struct {
	start, end int
	slot       uint32
}

// Overlap implements itree.IntOverlapper with half-open semantics.
func (s span) Overlap(r itree.IntRange) bool { return s.end > r.Start && s.start < r.End }

// ID implements itree.IntInterface.
func (s span) ID() uintptr { return uintptr(s.slot) }

// Range implements itree.IntInterface.
func (s span) Range() itree.IntRange { return itree.IntRange{Start: s.start, End: s.end} }

// query is the half-open probe passed to the tree.  biogo calls
// query.Overlap on node ranges, so this is where the endpoint semantics are
// decided: [a, b) and [c, d) intersect iff a < d && c < b.
type query struct{ start, end int }

func (q query) Overlap(r itree.IntRange) bool { return q.end > r.Start && q.start < r.End }

// Tree is an overlap index over [start, end) spans, each carrying a record
// slot.  It is built in two phases: Insert is called for every span, then
// Finalize exactly once.  Afterwards the tree is immutable; Find may be
// called concurrently from any number of goroutines.
//
// Calling Find before Finalize, or Insert after it, is a programming error
// and panics.
//
// Empty spans (start == end) are accepted and counted but never reported by
// Find, since under half-open semantics they intersect nothing.
type Tree struct {
	tree      itree.IntTree
	n         int
	finalized bool
}

// Insert adds the span [start, end) with the given slot. Slots must be unique
// within the tree.  It returns an errors.Invalid error if start > end or
// start < 0.
func (t *Tree) Insert(start, end int, slot uint32) error {
	if t.finalized {
		log.Panicf("interval.Tree: Insert(%d, %d, %d) after Finalize", start, end, slot)
	}
	if start < 0 || start > end {
		return errors.E(errors.Invalid, fmt.Sprintf("interval.Tree: invalid span [%d, %d) for slot %d", start, end, slot))
	}
	t.n++
	if start == end {
		return nil
	}
	// fast insertion skips range maintenance; AdjustRanges in Finalize fixes
	// up all the subtree ranges in one pass.
	return t.tree.Insert(span{start: start, end: end, slot: slot}, true)
}

// Finalize makes the tree queryable. It must be called exactly once, after
// the last Insert.
func (t *Tree) Finalize() {
	if t.finalized {
		log.Panicf("interval.Tree: Finalize called twice")
	}
	if t.tree.Root != nil {
		t.tree.AdjustRanges()
	}
	t.finalized = true
}

// Finalized reports whether Finalize has been called.
func (t *Tree) Finalized() bool { return t.finalized }

// Len returns the number of spans inserted, including empty ones.
func (t *Tree) Len() int { return t.n }

// Do calls fn for each stored span intersecting [start, end), in the tree's
// traversal order, which is not necessarily sorted by position.
func (t *Tree) Do(start, end int, fn func(slot uint32)) {
	if !t.finalized {
		log.Panicf("interval.Tree: query [%d, %d) before Finalize", start, end)
	}
	if start >= end || t.tree.Root == nil {
		return
	}
	t.tree.DoMatching(func(e itree.IntInterface) bool {
		fn(e.(span).slot)
		return false
	}, query{start: start, end: end})
}

// Find returns the slots of all stored spans intersecting [start, end).
// Callers must not assume any particular order.
func (t *Tree) Find(start, end int) []uint32 {
	var slots []uint32
	t.Do(start, end, func(slot uint32) {
		slots = append(slots, slot)
	})
	return slots
}
