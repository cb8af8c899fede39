package refdb

import (
	"fmt"

	"github.com/grailbio/svdb/encoding/svdb"
)

// BgDb identifies a background SV frequency catalog.
type BgDb uint8

const (
	// BgGnomad is the gnomAD structural variant catalog.
	BgGnomad BgDb = iota
	// BgDgv is the Database of Genomic Variants.
	BgDgv
	// BgDgvGs is the DGV gold standard subset.
	BgDgvGs
	// BgExac is the ExAC CNV catalog.
	BgExac
	// BgG1k is the 1000 Genomes structural variant call set.
	BgG1k
	// BgDbvar is the dbVar common SV set.
	BgDbvar
	// BgInhouse holds variants observed in the local cohort.
	BgInhouse
	// NumBgDbs is the number of background catalogs.
	NumBgDbs
)

var bgDbNames = [...]string{
	BgGnomad:  "gnomad",
	BgDgv:     "dgv",
	BgDgvGs:   "dgv-gs",
	BgExac:    "exac",
	BgG1k:     "g1k",
	BgDbvar:   "dbvar",
	BgInhouse: "inhouse",
}

func (b BgDb) String() string {
	if b < NumBgDbs {
		return bgDbNames[b]
	}
	return fmt.Sprintf("BgDb(%d)", b)
}

// MarshalText implements encoding.TextMarshaler.
func (b BgDb) MarshalText() ([]byte, error) {
	if b >= NumBgDbs {
		return nil, lookupError("unknown background db %d", b)
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BgDb) UnmarshalText(text []byte) error {
	v, err := ParseBgDb(string(text))
	if err == nil {
		*b = v
	}
	return err
}

// ParseBgDb parses a background catalog identifier such as "gnomad" or
// "dgv-gs".
func ParseBgDb(s string) (BgDb, error) {
	key := normalizeName(s)
	for i, name := range bgDbNames {
		if normalizeName(name) == key {
			return BgDb(i), nil
		}
	}
	return 0, lookupError("unknown background db %q", s)
}

// BgSchema is the on-disk schema of background catalogs.
var BgSchema = svdb.Schema{
	Dataset: "bg",
	Columns: []svdb.Column{
		{Name: "sv_type", Type: svdb.Uint8},
		{Name: "count", Type: svdb.Uint32},
	},
}

// BgRecord is one background structural variant.
type BgRecord struct {
	Begin  uint32 `json:"begin"`
	End    uint32 `json:"end"`
	SvType SvType `json:"sv_type"`
	// Count is the number of carriers observed.
	Count uint32 `json:"count"`
}

// Span implements Record.
func (r BgRecord) Span() (uint32, uint32) { return r.Begin, r.End }

func decodeBg(raw *svdb.RawRecord) (BgRecord, error) {
	t, err := SvTypeFromCode(raw.Cols[0].Num)
	if err != nil {
		return BgRecord{}, err
	}
	return BgRecord{Begin: raw.Begin, End: raw.End, SvType: t, Count: uint32(raw.Cols[1].Num)}, nil
}

func encodeBg(chromNo uint16, r BgRecord) svdb.RawRecord {
	return svdb.RawRecord{
		ChromNo: chromNo,
		Begin:   r.Begin,
		End:     r.End,
		Cols:    []svdb.Value{svdb.U(uint64(r.SvType)), svdb.U(uint64(r.Count))},
	}
}

// BgDbs holds every background catalog of one release.
type BgDbs struct {
	dbs [NumBgDbs]*Index[BgRecord]
}

// Len returns the number of records in db.
func (b *BgDbs) Len(db BgDb) int {
	if db >= NumBgDbs {
		return 0
	}
	return b.dbs[db].Len()
}

// FetchRecords returns the records of db overlapping [begin, end) on chrom.
func (b *BgDbs) FetchRecords(db BgDb, chrom string, begin, end uint32) ([]BgRecord, error) {
	if db >= NumBgDbs {
		return nil, lookupError("unknown background db %d", db)
	}
	return b.dbs[db].find(chrom, begin, end)
}

// CountOverlaps sums the carrier counts of the records of db that match sv:
// a compatible SV type (see SvType.Compatible) and a reciprocal overlap of at
// least minOverlap (0 admits any overlap).  Insertions and breakends have no
// span and count 0.
func (b *BgDbs) CountOverlaps(db BgDb, sv StructuralVariant, minOverlap float64) (uint64, error) {
	if db >= NumBgDbs {
		return 0, lookupError("unknown background db %d", db)
	}
	if !sv.SvType.HasSpan() {
		return 0, nil
	}
	var total uint64
	err := b.dbs[db].do(sv.Chrom, sv.Begin, sv.End, func(r BgRecord) {
		if sv.SvType.Compatible(r.SvType) && overlapsEnough(sv, r.Begin, r.End, minOverlap) {
			total += uint64(r.Count)
		}
	})
	return total, err
}
