package refdb

import (
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clinvar(chromNo int, begin, end uint32, vt VariationType, patho Pathogenicity, vcv uint32) located[ClinvarRecord] {
	return located[ClinvarRecord]{chromNo, ClinvarRecord{Begin: begin, End: end, VariationType: vt, Pathogenicity: patho, VCV: vcv}}
}

func TestClinvarFetchRecords(t *testing.T) {
	db := &ClinvarSv{index: buildIndex(t,
		clinvar(0, 100, 200, VariationDel, Pathogenic, 1),
		clinvar(0, 120, 180, VariationDup, LikelyBenign, 2),
	)}
	got, err := db.FetchRecords("1", 150, 160, Benign)
	require.NoError(t, err)
	expect.EQ(t, len(got), 2)

	got, err = db.FetchRecords("1", 150, 160, Pathogenic)
	require.NoError(t, err)
	assert.Equal(t, []ClinvarRecord{{100, 200, VariationDel, Pathogenic, 1}}, got)

	got, err = db.FetchRecords("1", 300, 400, Benign)
	require.NoError(t, err)
	expect.EQ(t, len(got), 0)

	_, err = db.FetchRecords("Z", 1, 2, Benign)
	expect.True(t, IsLookupError(err))
}

func TestClinvarPathogenicityFilter(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	var records []located[ClinvarRecord]
	for i := 0; i < 300; i++ {
		begin := uint32(r.Intn(10000))
		records = append(records, clinvar(0, begin, begin+uint32(r.Intn(500))+1,
			VariationDel, Pathogenicity(r.Intn(int(numPathogenicity))), uint32(i)))
	}
	db := &ClinvarSv{index: buildIndex(t, records...)}
	all, err := db.FetchRecords("1", 0, 20000, Benign)
	require.NoError(t, err)
	expect.EQ(t, len(all), len(records))
	prev := len(all)
	for p := Benign; p < numPathogenicity; p++ {
		got, err := db.FetchRecords("1", 0, 20000, p)
		require.NoError(t, err)
		for _, rec := range got {
			expect.True(t, rec.Pathogenicity >= p, rec)
		}
		expect.True(t, len(got) <= prev)
		prev = len(got)
	}
}

func TestClinvarOverlappingVCVs(t *testing.T) {
	db := &ClinvarSv{index: buildIndex(t,
		clinvar(0, 150, 170, VariationDel, Pathogenic, 42),
	)}
	sv := StructuralVariant{Chrom: "1", Begin: 100, End: 300, SvType: SvDel}

	vcvs, err := db.OverlappingVCVs(sv, Benign, 0.5)
	require.NoError(t, err)
	expect.EQ(t, len(vcvs), 0)

	vcvs, err = db.OverlappingVCVs(sv, Benign, 0.05)
	require.NoError(t, err)
	expect.EQ(t, vcvs, []uint32{42})

	vcvs, err = db.OverlappingVCVs(sv, Benign, 0)
	require.NoError(t, err)
	expect.EQ(t, vcvs, []uint32{42})

	for _, svType := range []SvType{SvIns, SvBnd} {
		sv.SvType = svType
		vcvs, err = db.OverlappingVCVs(sv, Benign, 0)
		require.NoError(t, err)
		expect.EQ(t, len(vcvs), 0, svType)
	}
}

func TestClinvarOverlapMonotonic(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	var records []located[ClinvarRecord]
	for i := 0; i < 300; i++ {
		begin := uint32(r.Intn(10000))
		records = append(records, clinvar(0, begin, begin+uint32(r.Intn(2000)), VariationDup, Uncertain, uint32(i)))
	}
	db := &ClinvarSv{index: buildIndex(t, records...)}
	for q := 0; q < 50; q++ {
		begin := uint32(r.Intn(10000))
		sv := StructuralVariant{Chrom: "1", Begin: begin, End: begin + uint32(r.Intn(3000)) + 1, SvType: SvDup}
		prev := -1
		for _, minOverlap := range []float64{0.9, 0.7, 0.5, 0.3, 0.1, 0} {
			got, err := db.OverlappingRecords(sv, Benign, minOverlap)
			require.NoError(t, err)
			for _, rec := range got {
				expect.True(t, ReciprocalOverlap(sv.Begin, sv.End, rec.Begin, rec.End) >= minOverlap)
			}
			if prev >= 0 {
				expect.True(t, len(got) >= prev, "min %v", minOverlap)
			}
			prev = len(got)
		}
	}
}

func TestClinvarLabel(t *testing.T) {
	r := ClinvarRecord{Begin: 100, End: 200, VariationType: VariationDel, Pathogenicity: Pathogenic, VCV: 12345}
	expect.EQ(t, r.Accession(), "VCV000012345")
	expect.EQ(t, r.Label("1"), "Del @ 1:101-200 (pathogenic)")
	r = ClinvarRecord{Begin: 1234566, End: 2345678, VariationType: VariationCnv, Pathogenicity: LikelyPathogenic}
	expect.EQ(t, r.Label("X"), "Cnv @ X:1,234,567-2,345,678 (likely-pathogenic)")
}
