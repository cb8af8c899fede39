package refdb

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/grailbio/svdb/encoding/svdb"
)

// ClinvarSchema is the on-disk schema of ClinVar SV datasets.
var ClinvarSchema = svdb.Schema{
	Dataset: "clinvar",
	Columns: []svdb.Column{
		{Name: "variation_type", Type: svdb.Uint8},
		{Name: "pathogenicity", Type: svdb.Uint8},
		{Name: "vcv", Type: svdb.Uint32},
	},
}

// ClinvarRecord is one ClinVar structural variant.
type ClinvarRecord struct {
	Begin         uint32        `json:"begin"`
	End           uint32        `json:"end"`
	VariationType VariationType `json:"variation_type"`
	Pathogenicity Pathogenicity `json:"pathogenicity"`
	// VCV is the numeric part of the ClinVar variation accession.
	VCV uint32 `json:"vcv"`
}

// Span implements Record.
func (r ClinvarRecord) Span() (uint32, uint32) { return r.Begin, r.End }

// Accession returns the ClinVar accession, e.g., "VCV000012345".
func (r ClinvarRecord) Accession() string { return fmt.Sprintf("VCV%09d", r.VCV) }

// Label returns a one-line human readable description, with 1-based
// coordinates, e.g., "Del @ 1:10,001-20,000 (pathogenic)".
func (r ClinvarRecord) Label(chrom string) string {
	return fmt.Sprintf("%v @ %s:%s-%s (%v)", r.VariationType, chrom,
		humanize.Comma(int64(r.Begin)+1), humanize.Comma(int64(r.End)), r.Pathogenicity)
}

func decodeClinvar(raw *svdb.RawRecord) (ClinvarRecord, error) {
	vt, err := VariationTypeFromCode(raw.Cols[0].Num)
	if err != nil {
		return ClinvarRecord{}, err
	}
	patho, err := PathogenicityFromCode(raw.Cols[1].Num)
	if err != nil {
		return ClinvarRecord{}, err
	}
	return ClinvarRecord{
		Begin:         raw.Begin,
		End:           raw.End,
		VariationType: vt,
		Pathogenicity: patho,
		VCV:           uint32(raw.Cols[2].Num),
	}, nil
}

func encodeClinvar(chromNo uint16, r ClinvarRecord) svdb.RawRecord {
	return svdb.RawRecord{
		ChromNo: chromNo,
		Begin:   r.Begin,
		End:     r.End,
		Cols:    []svdb.Value{svdb.U(uint64(r.VariationType)), svdb.U(uint64(r.Pathogenicity)), svdb.U(uint64(r.VCV))},
	}
}

// ClinvarSv is the ClinVar SV dataset of one release.
type ClinvarSv struct {
	index *Index[ClinvarRecord]
}

// Len returns the number of records.
func (db *ClinvarSv) Len() int { return db.index.Len() }

// FetchRecords returns the records overlapping [begin, end) on chrom whose
// pathogenicity is at least minPatho.  Benign, the lowest rank, disables the
// filter.
func (db *ClinvarSv) FetchRecords(chrom string, begin, end uint32, minPatho Pathogenicity) ([]ClinvarRecord, error) {
	var out []ClinvarRecord
	err := db.index.do(chrom, begin, end, func(r ClinvarRecord) {
		if r.Pathogenicity >= minPatho {
			out = append(out, r)
		}
	})
	return out, err
}

// OverlappingRecords returns the records matching the structural variant sv:
// their reciprocal overlap with sv must be at least minOverlap (0 admits any
// overlap) and their pathogenicity at least minPatho.  Insertions and
// breakends have no span and never match.
func (db *ClinvarSv) OverlappingRecords(sv StructuralVariant, minPatho Pathogenicity, minOverlap float64) ([]ClinvarRecord, error) {
	if !sv.SvType.HasSpan() {
		return nil, nil
	}
	var out []ClinvarRecord
	err := db.index.do(sv.Chrom, sv.Begin, sv.End, func(r ClinvarRecord) {
		if overlapsEnough(sv, r.Begin, r.End, minOverlap) && r.Pathogenicity >= minPatho {
			out = append(out, r)
		}
	})
	return out, err
}

// OverlappingVCVs is like OverlappingRecords, but returns only the VCV
// numbers of the matching records.
func (db *ClinvarSv) OverlappingVCVs(sv StructuralVariant, minPatho Pathogenicity, minOverlap float64) ([]uint32, error) {
	records, err := db.OverlappingRecords(sv, minPatho, minOverlap)
	if err != nil {
		return nil, err
	}
	vcvs := make([]uint32, len(records))
	for i, r := range records {
		vcvs[i] = r.VCV
	}
	return vcvs, nil
}
