// Package chrom maps canonical chromosome names to dense integer slots.
//
// The mapping is a closed set fixed at construction time: names outside the
// set are reported as errors, never silently dropped. Callers that need a
// smaller (or differently ordered) chromosome set, such as tests, construct
// their own Index with New instead of using Default.
package chrom

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
)

// Canonical lists the chromosome names of the human reference, in the order
// used for the on-disk chromosome codes.
var Canonical = []string{
	"1", "2", "3", "4", "5", "6", "7", "8", "9", "10",
	"11", "12", "13", "14", "15", "16", "17", "18", "19", "20",
	"21", "22", "X", "Y", "MT",
}

// Default is the index over Canonical.
var Default = MustNew(Canonical)

// Index is an immutable bijection between chromosome names and [0, Len()).
// It is safe for concurrent use.
type Index struct {
	names []string
	// slots maps canonical names and their aliases to slots.
	slots map[string]int
}

// New creates an index over names. Slot i is assigned to names[i]. Besides the
// names themselves, "chr"-prefixed spellings resolve to the same slot, and the
// mitochondrial genome answers to any of M, MT, chrM and chrMT when one of them
// is in the set.
func New(names []string) (*Index, error) {
	idx := &Index{
		names: make([]string, len(names)),
		slots: make(map[string]int, 2*len(names)),
	}
	copy(idx.names, names)
	for i, name := range names {
		if name == "" {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("chrom.New: empty name at slot %d", i))
		}
		if _, ok := idx.slots[name]; ok {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("chrom.New: duplicate name %q", name))
		}
		idx.slots[name] = i
	}
	for i, name := range names {
		for _, alias := range aliases(name) {
			if _, ok := idx.slots[alias]; !ok {
				idx.slots[alias] = i
			}
		}
	}
	return idx, nil
}

// MustNew is like New, but panics on error.
func MustNew(names []string) *Index {
	idx, err := New(names)
	if err != nil {
		panic(err)
	}
	return idx
}

func aliases(name string) []string {
	bare := strings.TrimPrefix(name, "chr")
	switch bare {
	case "M", "MT":
		return []string{"M", "MT", "chrM", "chrMT"}
	}
	if bare != name {
		return []string{bare}
	}
	return []string{"chr" + name}
}

// Len returns the number of chromosomes in the index.
func (idx *Index) Len() int { return len(idx.names) }

// Names returns the canonical names in slot order. The caller must not modify
// the result.
func (idx *Index) Names() []string { return idx.names }

// Resolve returns the slot of the given chromosome name. It returns an
// errors.Invalid error if the name is not in the index.
func (idx *Index) Resolve(name string) (int, error) {
	if i, ok := idx.slots[name]; ok {
		return i, nil
	}
	return -1, errors.E(errors.Invalid, fmt.Sprintf("unknown chromosome %q", name))
}

// Name returns the canonical name for the slot. It returns an errors.Invalid
// error if the slot is out of range.
func (idx *Index) Name(i int) (string, error) {
	if i < 0 || i >= len(idx.names) {
		return "", errors.E(errors.Invalid, fmt.Sprintf("chromosome slot %d out of range [0, %d)", i, len(idx.names)))
	}
	return idx.names[i], nil
}
