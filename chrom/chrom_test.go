package chrom

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
)

func TestDefault(t *testing.T) {
	expect.EQ(t, Default.Len(), 25)
	tests := []struct {
		name string
		slot int
	}{
		{"1", 0},
		{"chr1", 0},
		{"22", 21},
		{"X", 22},
		{"chrY", 23},
		{"MT", 24},
		{"M", 24},
		{"chrM", 24},
		{"chrMT", 24},
	}
	for _, tt := range tests {
		slot, err := Default.Resolve(tt.name)
		expect.NoError(t, err, tt.name)
		expect.EQ(t, slot, tt.slot, tt.name)
	}
	name, err := Default.Name(24)
	expect.NoError(t, err)
	expect.EQ(t, name, "MT")
}

func TestUnknown(t *testing.T) {
	for _, name := range []string{"", "23", "chrUn", "chr1_gl000191_random", "x"} {
		_, err := Default.Resolve(name)
		expect.True(t, errors.Is(errors.Invalid, err), name)
	}
	_, err := Default.Name(-1)
	expect.True(t, errors.Is(errors.Invalid, err))
	_, err = Default.Name(25)
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestCustom(t *testing.T) {
	idx, err := New([]string{"chr2", "chr1"})
	expect.NoError(t, err)
	expect.EQ(t, idx.Len(), 2)
	slot, err := idx.Resolve("1")
	expect.NoError(t, err)
	expect.EQ(t, slot, 1)
	name, err := idx.Name(0)
	expect.NoError(t, err)
	expect.EQ(t, name, "chr2")
	_, err = idx.Resolve("X")
	expect.True(t, errors.Is(errors.Invalid, err))

	_, err = New([]string{"1", "1"})
	expect.HasSubstr(t, err.Error(), "duplicate")
	_, err = New([]string{"1", ""})
	expect.HasSubstr(t, err.Error(), "empty name")
}

func TestRoundTrip(t *testing.T) {
	for i, name := range Default.Names() {
		slot, err := Default.Resolve(name)
		expect.NoError(t, err)
		expect.EQ(t, slot, i)
		got, err := Default.Name(slot)
		expect.NoError(t, err)
		expect.EQ(t, got, name)
	}
}
