package refdb

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/svdb/chrom"
	"github.com/grailbio/svdb/encoding/svdb"
	"github.com/grailbio/svdb/interval"
)

// BuildOpts controls the conversion of text sources into dataset files.
type BuildOpts struct {
	// Release is recorded in the file trailer.
	Release Release
	// Chroms assigns the on-disk chromosome codes. nil means chrom.Default.
	Chroms *chrom.Index
	// Source is recorded in the file trailer. It defaults to the input path.
	Source string
	// OneBasedInput interprets BED coordinates as 1-based closed intervals.
	// TSV sources are always 0-based half-open.
	OneBasedInput bool
}

// BuildStats summarizes a conversion.
type BuildStats struct {
	// Records is the number of records written.
	Records int
	// Skipped is the number of input rows dropped because their chromosome is
	// not in the chromosome index.
	Skipped int
}

// The TSV sources have a header row; columns are matched by name.

type clinvarRow struct {
	Chrom         string `tsv:"chrom"`
	Begin         int64  `tsv:"begin"`
	End           int64  `tsv:"end"`
	VariationType string `tsv:"variation_type"`
	Pathogenicity string `tsv:"pathogenicity"`
	VCV           int64  `tsv:"vcv"`
}

func (r *clinvarRow) locus() (string, int64, int64) { return r.Chrom, r.Begin, r.End }

func (r *clinvarRow) encode(chromNo uint16, begin, end uint32) (svdb.RawRecord, error) {
	vt, err := ParseVariationType(r.VariationType)
	if err != nil {
		return svdb.RawRecord{}, err
	}
	patho, err := ParsePathogenicity(r.Pathogenicity)
	if err != nil {
		return svdb.RawRecord{}, err
	}
	if r.VCV < 0 || r.VCV > math.MaxUint32 {
		return svdb.RawRecord{}, fmt.Errorf("vcv %d out of range", r.VCV)
	}
	return encodeClinvar(chromNo, ClinvarRecord{Begin: begin, End: end, VariationType: vt, Pathogenicity: patho, VCV: uint32(r.VCV)}), nil
}

type pathogenicRow struct {
	Chrom  string `tsv:"chrom"`
	Begin  int64  `tsv:"begin"`
	End    int64  `tsv:"end"`
	SvType string `tsv:"sv_type"`
	ID     string `tsv:"id"`
}

func (r *pathogenicRow) locus() (string, int64, int64) { return r.Chrom, r.Begin, r.End }

func (r *pathogenicRow) encode(chromNo uint16, begin, end uint32) (svdb.RawRecord, error) {
	t, err := ParseSvType(r.SvType)
	if err != nil {
		return svdb.RawRecord{}, err
	}
	return encodePathogenic(chromNo, PathogenicRecord{Begin: begin, End: end, SvType: t, ID: r.ID}), nil
}

type bgRow struct {
	Chrom  string `tsv:"chrom"`
	Begin  int64  `tsv:"begin"`
	End    int64  `tsv:"end"`
	SvType string `tsv:"sv_type"`
	Count  int64  `tsv:"count"`
}

func (r *bgRow) locus() (string, int64, int64) { return r.Chrom, r.Begin, r.End }

func (r *bgRow) encode(chromNo uint16, begin, end uint32) (svdb.RawRecord, error) {
	t, err := ParseSvType(r.SvType)
	if err != nil {
		return svdb.RawRecord{}, err
	}
	if r.Count < 0 || r.Count > math.MaxUint32 {
		return svdb.RawRecord{}, fmt.Errorf("count %d out of range", r.Count)
	}
	return encodeBg(chromNo, BgRecord{Begin: begin, End: end, SvType: t, Count: uint32(r.Count)}), nil
}

type geneRow struct {
	Chrom     string `tsv:"chrom"`
	Begin     int64  `tsv:"begin"`
	End       int64  `tsv:"end"`
	EnsemblID string `tsv:"ensembl_id"`
	EntrezID  int64  `tsv:"entrez_id"`
	Symbol    string `tsv:"symbol"`
}

func (r *geneRow) locus() (string, int64, int64) { return r.Chrom, r.Begin, r.End }

func (r *geneRow) encode(chromNo uint16, begin, end uint32) (svdb.RawRecord, error) {
	if r.EntrezID < 0 || r.EntrezID > math.MaxUint32 {
		return svdb.RawRecord{}, fmt.Errorf("entrez_id %d out of range", r.EntrezID)
	}
	return encodeGene(chromNo, GeneRecord{Begin: begin, End: end, EnsemblID: r.EnsemblID, EntrezID: uint32(r.EntrezID), Symbol: r.Symbol}), nil
}

// sourceRow is implemented by pointers to the TSV row types.
type sourceRow[T any] interface {
	*T
	locus() (chrom string, begin, end int64)
	encode(chromNo uint16, begin, end uint32) (svdb.RawRecord, error)
}

// Build converts the text source at in into the dataset file out.  TAD sets
// are read from BED files, all other datasets from TSV files with a header
// row naming the columns (chrom, begin, end, then the dataset columns).
// Gzip'd sources are recognized by their file extension.
func Build(ctx context.Context, dataset Dataset, in, out string, opts BuildOpts) (BuildStats, error) {
	switch dataset {
	case DatasetClinvar:
		return buildTSV[clinvarRow](ctx, ClinvarSchema, in, out, opts)
	case DatasetPathogenic:
		return buildTSV[pathogenicRow](ctx, PathogenicSchema, in, out, opts)
	case DatasetBg:
		return buildTSV[bgRow](ctx, BgSchema, in, out, opts)
	case DatasetGenes:
		return buildTSV[geneRow](ctx, GeneSchema, in, out, opts)
	case DatasetTads:
		return buildBED(ctx, in, out, opts)
	}
	return BuildStats{}, lookupError("unknown dataset %v", dataset)
}

// builder resolves chromosomes and validates coordinates on the way into a
// Writer.
type builder struct {
	chroms *chrom.Index
	w      *svdb.Writer
	in     string
	stats  BuildStats
	// skipped counts dropped rows per chromosome name.
	skipped map[string]int
}

func newBuilder(ctx context.Context, schema svdb.Schema, in, out string, opts BuildOpts) (*builder, error) {
	if opts.Release >= NumReleases {
		return nil, lookupError("unknown release %d", opts.Release)
	}
	chroms := opts.Chroms
	if chroms == nil {
		chroms = chrom.Default
	}
	source := opts.Source
	if source == "" {
		source = in
	}
	w, err := svdb.Create(ctx, out, schema, svdb.Info{Release: opts.Release.String(), Source: source})
	if err != nil {
		return nil, err
	}
	return &builder{chroms: chroms, w: w, in: in, skipped: map[string]int{}}, nil
}

// add resolves chromName, checks [begin, end) and appends the record made by
// encode.  Rows on unknown chromosomes are counted and dropped.
func (b *builder) add(line int, chromName string, begin, end int64, encode func(chromNo uint16, begin, end uint32) (svdb.RawRecord, error)) error {
	chromNo, err := b.chroms.Resolve(chromName)
	if err != nil {
		b.skipped[chromName]++
		b.stats.Skipped++
		return nil
	}
	if begin < 0 || begin > end || end > math.MaxUint32 {
		return errors.E(errors.Invalid, fmt.Sprintf("%s:%d: invalid range [%d, %d)", b.in, line, begin, end))
	}
	raw, err := encode(uint16(chromNo), uint32(begin), uint32(end))
	if err != nil {
		return errors.E(errors.Invalid, fmt.Sprintf("%s:%d", b.in, line), err)
	}
	if err := b.w.Append(raw); err != nil {
		return errors.E(fmt.Sprintf("%s:%d", b.in, line), err)
	}
	b.stats.Records++
	return nil
}

// finish closes the output. On a prior error, the output is closed but err
// is returned.
func (b *builder) finish(err error) (BuildStats, error) {
	if ferr := b.w.Finish(); err == nil {
		err = ferr
	}
	for name, n := range b.skipped {
		log.Printf("%s: skipped %s records on unknown chromosome %q", b.in, humanize.Comma(int64(n)), name)
	}
	return b.stats, err
}

func buildTSV[T any, PT sourceRow[T]](ctx context.Context, schema svdb.Schema, in, out string, opts BuildOpts) (stats BuildStats, err error) {
	start := time.Now()
	reader, closer, err := interval.OpenReader(ctx, in)
	if err != nil {
		return stats, errors.E(err, "open", in)
	}
	defer func() {
		if cerr := closer(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	b, err := newBuilder(ctx, schema, in, out, opts)
	if err != nil {
		return stats, err
	}
	r := tsv.NewReader(reader)
	r.HasHeaderRow = true
	r.UseHeaderNames = true
	// The header is line 1.
	for line := 2; ; line++ {
		var row T
		if err = r.Read(PT(&row)); err != nil {
			if err == io.EOF {
				err = nil
				break
			}
			err = errors.E(errors.Invalid, fmt.Sprintf("%s:%d", in, line), err)
			break
		}
		chromName, begin, end := PT(&row).locus()
		if err = b.add(line, chromName, begin, end, PT(&row).encode); err != nil {
			break
		}
	}
	stats, err = b.finish(err)
	if err == nil {
		log.Printf("wrote %s %s records to %s in %v", humanize.Comma(int64(stats.Records)), schema.Dataset, out, time.Since(start))
	}
	return stats, err
}

func buildBED(ctx context.Context, in, out string, opts BuildOpts) (BuildStats, error) {
	start := time.Now()
	b, err := newBuilder(ctx, TadSchema, in, out, opts)
	if err != nil {
		return BuildStats{}, err
	}
	// BED positions are reported as entry numbers; ScanBED skips comment lines.
	entry := 0
	err = interval.ScanBEDPath(ctx, in, interval.BEDOpts{OneBasedInput: opts.OneBasedInput}, func(e interval.Entry) error {
		entry++
		return b.add(entry, e.ChrName, int64(e.Start0), int64(e.End), func(chromNo uint16, begin, end uint32) (svdb.RawRecord, error) {
			return svdb.RawRecord{ChromNo: chromNo, Begin: begin, End: end}, nil
		})
	})
	stats, err := b.finish(err)
	if err == nil {
		log.Printf("wrote %s tads records to %s in %v", humanize.Comma(int64(stats.Records)), out, time.Since(start))
	}
	return stats, err
}
