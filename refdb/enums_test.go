package refdb

import (
	"encoding/json"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func TestParseEnums(t *testing.T) {
	p, err := ParsePathogenicity("Likely_Pathogenic")
	expect.NoError(t, err)
	expect.EQ(t, p, LikelyPathogenic)
	_, err = ParsePathogenicity("harmless")
	expect.True(t, IsLookupError(err))

	vt, err := ParseVariationType("del")
	expect.NoError(t, err)
	expect.EQ(t, vt, VariationDel)

	st, err := ParseSvType("<DUP>")
	expect.NoError(t, err)
	expect.EQ(t, st, SvDup)
	_, err = ParseSvType("SNV")
	expect.True(t, IsLookupError(err))

	rel, err := ParseRelease("hg38")
	expect.NoError(t, err)
	expect.EQ(t, rel, GRCh38)
	rel, err = ParseRelease("GRCH37")
	expect.NoError(t, err)
	expect.EQ(t, rel, GRCh37)
	_, err = ParseRelease("hg18")
	expect.True(t, IsLookupError(err))

	set, err := ParseTadSet("IMR90")
	expect.NoError(t, err)
	expect.EQ(t, set, TadImr90)
	_, err = ParseTadSet("gm12878")
	expect.True(t, IsLookupError(err))

	db, err := ParseBgDb("dgv_gs")
	expect.NoError(t, err)
	expect.EQ(t, db, BgDgvGs)
	_, err = ParseBgDb("decipher")
	expect.True(t, IsLookupError(err))

	ds, err := ParseDataset("genes")
	expect.NoError(t, err)
	expect.EQ(t, ds, DatasetGenes)
}

func TestFromCode(t *testing.T) {
	_, err := PathogenicityFromCode(5)
	expect.True(t, IsDecodeError(err))
	_, err = VariationTypeFromCode(8)
	expect.True(t, IsDecodeError(err))
	_, err = SvTypeFromCode(6)
	expect.True(t, IsDecodeError(err))
	st, err := SvTypeFromCode(5)
	expect.NoError(t, err)
	expect.EQ(t, st, SvCnv)
}

func TestSvTypeCompatible(t *testing.T) {
	expect.True(t, SvDel.Compatible(SvDel))
	expect.True(t, SvCnv.Compatible(SvDel))
	expect.True(t, SvDup.Compatible(SvCnv))
	expect.False(t, SvDel.Compatible(SvDup))
	expect.False(t, SvInv.Compatible(SvCnv))
	expect.False(t, SvIns.HasSpan())
	expect.True(t, SvInv.HasSpan())
}

func TestRecordJSON(t *testing.T) {
	data, err := json.Marshal(ClinvarRecord{Begin: 1, End: 2, VariationType: VariationInv, Pathogenicity: Uncertain, VCV: 3})
	require.NoError(t, err)
	expect.EQ(t, string(data), `{"begin":1,"end":2,"variation_type":"Inv","pathogenicity":"uncertain","vcv":3}`)
	var r ClinvarRecord
	require.NoError(t, json.Unmarshal(data, &r))
	expect.EQ(t, r.VariationType, VariationInv)
	expect.EQ(t, r.Pathogenicity, Uncertain)
}
