package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/svdb/refdb"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

const (
	clinvarSrc = `chrom	begin	end	variation_type	pathogenicity	vcv
chr17	41196311	41277500	Del	pathogenic	55
17	41200000	41210000	Dup	benign	56
`
	bgSrc = `chrom	begin	end	sv_type	count
1	1000000	1050000	DEL	12
1	1010000	1040000	CNV	3
1	1000000	1050000	DUP	100
`
)

func setupDB(t *testing.T) string {
	root, _ := testutil.TempDir(t, "", "")
	dir := filepath.Join(root, refdb.GRCh37.String())
	require.NoError(t, os.MkdirAll(dir, 0755))
	ctx := context.Background()
	for _, src := range []struct {
		dataset, text, out string
	}{
		{"clinvar", clinvarSrc, refdb.ClinvarFile},
		{"bg", bgSrc, refdb.BgFile(refdb.BgGnomad)},
	} {
		in := filepath.Join(root, src.dataset+".tsv")
		require.NoError(t, os.WriteFile(in, []byte(src.text), 0644))
		require.NoError(t, build(ctx, buildOpts{dataset: src.dataset, release: "hg19"}, in, filepath.Join(dir, src.out)))
	}
	return root
}

func TestQuery(t *testing.T) {
	root := setupDB(t)
	defer os.RemoveAll(root) // nolint: errcheck
	ctx := context.Background()
	opts := queryOpts{root: root, release: "grch37", dataset: "clinvar", minPathogenicity: "benign", allowMissing: true}

	var out bytes.Buffer
	require.NoError(t, query(ctx, opts, "17:41,205,001-41,205,100", &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	expect.EQ(t, len(lines), 2)

	out.Reset()
	opts.minPathogenicity = "likely-pathogenic"
	require.NoError(t, query(ctx, opts, "chr17:41205001-41205100", &out))
	expect.EQ(t, strings.TrimSpace(out.String()),
		`{"chromosome":"17","begin":41196311,"end":41277500,"variation_type":"Del","pathogenicity":"pathogenic","vcv":55,"accession":"VCV000000055","label":"Del @ 17:41,196,312-41,277,500 (pathogenic)"}`)

	out.Reset()
	opts = queryOpts{root: root, release: "grch37", dataset: "bg", variant: "gnomad", minPathogenicity: "benign"}
	require.NoError(t, query(ctx, opts, "chr1:1040001-1040010", &out))
	lines = strings.Split(strings.TrimSpace(out.String()), "\n")
	expect.EQ(t, len(lines), 2)
	for _, line := range lines {
		expect.True(t, strings.HasPrefix(line, `{"chromosome":"1","begin":1000000,"end":1050000,"sv_type":`), line)
	}

	out.Reset()
	opts = queryOpts{root: root, release: "grch37", dataset: "bg", variant: "gnomad", minPathogenicity: "benign", svType: "DEL", minOverlap: 0.5}
	require.NoError(t, query(ctx, opts, "1:1000001-1050000", &out))
	expect.EQ(t, strings.TrimSpace(out.String()), `{"db":"gnomad","count":15}`)

	out.Reset()
	opts.minOverlap = 0.9
	require.NoError(t, query(ctx, opts, "1:1000001-1050000", &out))
	expect.EQ(t, strings.TrimSpace(out.String()), `{"db":"gnomad","count":12}`)

	opts.svType = "SNV"
	expect.True(t, refdb.IsLookupError(query(ctx, opts, "1:1000001-1050000", &out)))
	opts.svType = ""
	opts.release = "hg17"
	expect.True(t, refdb.IsLookupError(query(ctx, opts, "1:1000001-1050000", &out)))
}

func TestInfo(t *testing.T) {
	root := setupDB(t)
	defer os.RemoveAll(root) // nolint: errcheck
	var out bytes.Buffer
	path := filepath.Join(root, refdb.GRCh37.String(), refdb.ClinvarFile)
	require.NoError(t, info(context.Background(), path, true, &out))
	for _, want := range []string{
		"dataset: clinvar",
		"schema: variation_type:u8,pathogenicity:u8,vcv:u32",
		"release: GRCh37",
		"records: 2",
		"\t\t17\t2\n",
		"verified: ok",
	} {
		expect.True(t, strings.Contains(out.String(), want), "%q not in %q", want, out.String())
	}
}
