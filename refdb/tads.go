package refdb

import (
	"fmt"

	"github.com/grailbio/svdb/encoding/svdb"
)

// TadSet identifies a set of topologically associating domains.
type TadSet uint8

const (
	// TadHesc holds domains called in human embryonic stem cells.
	TadHesc TadSet = iota
	// TadImr90 holds domains called in IMR90 fibroblasts.
	TadImr90
	// NumTadSets is the number of TAD sets.
	NumTadSets
)

var tadSetNames = [...]string{TadHesc: "hesc", TadImr90: "imr90"}

func (s TadSet) String() string {
	if s < NumTadSets {
		return tadSetNames[s]
	}
	return fmt.Sprintf("TadSet(%d)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s TadSet) MarshalText() ([]byte, error) {
	if s >= NumTadSets {
		return nil, lookupError("unknown TAD set %d", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TadSet) UnmarshalText(text []byte) error {
	v, err := ParseTadSet(string(text))
	if err == nil {
		*s = v
	}
	return err
}

// ParseTadSet parses a TAD set identifier such as "hesc".
func ParseTadSet(s string) (TadSet, error) {
	key := normalizeName(s)
	for i, name := range tadSetNames {
		if name == key {
			return TadSet(i), nil
		}
	}
	return 0, lookupError("unknown TAD set %q", s)
}

// TadSchema is the on-disk schema of TAD sets: the domain span only.
var TadSchema = svdb.Schema{Dataset: "tads"}

// TadRecord is one topologically associating domain.
type TadRecord struct {
	Begin uint32 `json:"begin"`
	End   uint32 `json:"end"`
}

// Span implements Record.
func (r TadRecord) Span() (uint32, uint32) { return r.Begin, r.End }

func decodeTad(raw *svdb.RawRecord) (TadRecord, error) {
	return TadRecord{Begin: raw.Begin, End: raw.End}, nil
}

// TadSets holds every TAD set of one release.
type TadSets struct {
	sets [NumTadSets]*Index[TadRecord]
}

// Len returns the number of domains in set.
func (db *TadSets) Len(set TadSet) int {
	if set >= NumTadSets {
		return 0
	}
	return db.sets[set].Len()
}

// FetchTads returns the domains of set overlapping [begin, end) on chrom.
func (db *TadSets) FetchTads(set TadSet, chrom string, begin, end uint32) ([]TadRecord, error) {
	if set >= NumTadSets {
		return nil, lookupError("unknown TAD set %d", set)
	}
	return db.sets[set].find(chrom, begin, end)
}
