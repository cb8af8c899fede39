package interval

import (
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
)

func sortedFind(tree *Tree, start, end int) []uint32 {
	slots := tree.Find(start, end)
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}

func TestTreeHalfOpen(t *testing.T) {
	var tree Tree
	expect.NoError(t, tree.Insert(100, 200, 0))
	expect.NoError(t, tree.Insert(190, 205, 1))
	expect.NoError(t, tree.Insert(300, 300, 2))
	tree.Finalize()
	expect.EQ(t, tree.Len(), 3)

	tests := []struct {
		start, end int
		want       []uint32
	}{
		{150, 160, []uint32{0}},
		{195, 196, []uint32{0, 1}},
		{200, 201, []uint32{1}},
		{205, 210, nil},
		{0, 100, nil},
		{99, 101, []uint32{0}},
		{0, 1000, []uint32{0, 1}},
		{300, 301, nil},
		{299, 301, nil},
		{150, 150, nil},
	}
	for _, tt := range tests {
		got := sortedFind(&tree, tt.start, tt.end)
		assert.Equal(t, tt.want, got, "query [%d, %d)", tt.start, tt.end)
	}
}

func TestTreeEmpty(t *testing.T) {
	var tree Tree
	tree.Finalize()
	expect.EQ(t, len(tree.Find(0, 1000)), 0)
	expect.True(t, tree.Finalized())
}

func TestTreeInvalidSpan(t *testing.T) {
	var tree Tree
	err := tree.Insert(10, 5, 0)
	expect.True(t, errors.Is(errors.Invalid, err))
	err = tree.Insert(-1, 5, 0)
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestTreeContract(t *testing.T) {
	var tree Tree
	assert.Panics(t, func() { tree.Find(0, 10) })
	tree.Finalize()
	assert.Panics(t, func() { _ = tree.Insert(0, 10, 0) })
	assert.Panics(t, func() { tree.Finalize() })
}

type testSpan struct{ start, end int }

func bruteForce(spans []testSpan, start, end int) []uint32 {
	var slots []uint32
	for i, s := range spans {
		if s.start < s.end && start < end && s.start < end && start < s.end {
			slots = append(slots, uint32(i))
		}
	}
	return slots
}

func TestTreeRandom(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for iter := 0; iter < 20; iter++ {
		var (
			tree  Tree
			spans []testSpan
		)
		n := r.Intn(500)
		for i := 0; i < n; i++ {
			start := r.Intn(10000)
			end := start + r.Intn(300)
			spans = append(spans, testSpan{start, end})
			expect.NoError(t, tree.Insert(start, end, uint32(i)))
		}
		tree.Finalize()
		for q := 0; q < 200; q++ {
			start := r.Intn(10500) - 100
			end := start + r.Intn(500)
			if start < 0 {
				start = 0
			}
			assert.Equal(t, bruteForce(spans, start, end), sortedFind(&tree, start, end),
				"iter %d query [%d, %d)", iter, start, end)
		}
	}
}

func TestTreeConcurrentReaders(t *testing.T) {
	var (
		tree  Tree
		spans []testSpan
	)
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		start := r.Intn(100000)
		spans = append(spans, testSpan{start, start + 1 + r.Intn(1000)})
		expect.NoError(t, tree.Insert(spans[i].start, spans[i].end, uint32(i)))
	}
	tree.Finalize()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for q := 0; q < 100; q++ {
				start := r.Intn(100000)
				end := start + r.Intn(2000)
				assert.Equal(t, bruteForce(spans, start, end), sortedFind(&tree, start, end))
			}
		}(int64(g))
	}
	wg.Wait()
}
