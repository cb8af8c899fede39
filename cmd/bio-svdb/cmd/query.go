package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/svdb/interval"
	"github.com/grailbio/svdb/refdb"
)

type queryOpts struct {
	root             string
	release          string
	dataset          string
	variant          string
	minPathogenicity string
	svType           string
	minOverlap       float64
	allowMissing     bool
}

// Query results carry the resolved chromosome name ahead of the record's
// own fields.
type (
	clinvarHit struct {
		Chromosome string `json:"chromosome"`
		refdb.ClinvarRecord
		Accession string `json:"accession"`
		Label     string `json:"label"`
	}
	pathogenicHit struct {
		Chromosome string `json:"chromosome"`
		refdb.PathogenicRecord
	}
	tadHit struct {
		Chromosome string `json:"chromosome"`
		refdb.TadRecord
	}
	bgHit struct {
		Chromosome string `json:"chromosome"`
		refdb.BgRecord
	}
	geneHit struct {
		Chromosome string `json:"chromosome"`
		refdb.GeneRecord
	}
)

func newClinvarHit(chrom string, r refdb.ClinvarRecord) clinvarHit {
	return clinvarHit{Chromosome: chrom, ClinvarRecord: r, Accession: r.Accession(), Label: r.Label(chrom)}
}

// newHit attaches chrom to r for printing.
func newHit(chrom string, r refdb.Record) interface{} {
	switch r := r.(type) {
	case refdb.ClinvarRecord:
		return newClinvarHit(chrom, r)
	case refdb.PathogenicRecord:
		return pathogenicHit{chrom, r}
	case refdb.TadRecord:
		return tadHit{chrom, r}
	case refdb.BgRecord:
		return bgHit{chrom, r}
	case refdb.GeneRecord:
		return geneHit{chrom, r}
	}
	log.Panicf("unexpected record type %T", r)
	return nil
}

// bgCount is printed for structural-variant queries of background catalogs.
type bgCount struct {
	Db    refdb.BgDb `json:"db"`
	Count uint64     `json:"count"`
}

// canonicalChrom returns the registry's name for chrom, or chrom itself when
// the name is unknown.
func canonicalChrom(reg *refdb.Registry, chrom string) string {
	i, err := reg.Chroms().Resolve(chrom)
	if err != nil {
		return chrom
	}
	name, err := reg.Chroms().Name(i)
	if err != nil {
		return chrom
	}
	return name
}

// parseRegion converts a region string into a chromosome name and a 0-based
// half-open range.
func parseRegion(region string) (string, uint32, uint32, error) {
	e, err := interval.ParseRegionString(region)
	if err != nil {
		return "", 0, 0, err
	}
	return e.ChrName, uint32(e.Start0), uint32(e.End), nil
}

func query(ctx context.Context, opts queryOpts, region string, out io.Writer) error {
	rel, err := refdb.ParseRelease(opts.release)
	if err != nil {
		return err
	}
	dataset, err := refdb.ParseDataset(opts.dataset)
	if err != nil {
		return err
	}
	minPatho, err := refdb.ParsePathogenicity(opts.minPathogenicity)
	if err != nil {
		return err
	}
	chrom, begin, end, err := parseRegion(region)
	if err != nil {
		return err
	}
	reg, err := refdb.Load(ctx, refdb.LoadOpts{
		Root:         opts.root,
		Releases:     []refdb.Release{rel},
		AllowMissing: opts.allowMissing,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := reg.Close(); err != nil {
			log.Error.Printf("close %s: %v", opts.root, err)
		}
	}()
	enc := json.NewEncoder(out)
	if opts.svType != "" {
		svType, err := refdb.ParseSvType(opts.svType)
		if err != nil {
			return err
		}
		sv := refdb.StructuralVariant{Chrom: chrom, Begin: begin, End: end, SvType: svType}
		return querySv(reg, rel, dataset, opts, sv, minPatho, enc)
	}
	records, err := reg.Fetch(refdb.Query{
		Release:          rel,
		Dataset:          dataset,
		Variant:          opts.variant,
		Chrom:            chrom,
		Begin:            begin,
		End:              end,
		MinPathogenicity: minPatho,
	})
	if err != nil {
		return err
	}
	name := canonicalChrom(reg, chrom)
	for _, r := range records {
		if err := enc.Encode(newHit(name, r)); err != nil {
			return err
		}
	}
	log.Debug.Printf("%s %v %s: %d records", opts.dataset, rel, region, len(records))
	return nil
}

func querySv(reg *refdb.Registry, rel refdb.Release, dataset refdb.Dataset, opts queryOpts, sv refdb.StructuralVariant, minPatho refdb.Pathogenicity, enc *json.Encoder) error {
	dbs, err := reg.Datasets(rel)
	if err != nil {
		return err
	}
	switch dataset {
	case refdb.DatasetClinvar:
		records, err := dbs.Clinvar.OverlappingRecords(sv, minPatho, opts.minOverlap)
		if err != nil {
			return err
		}
		name := canonicalChrom(reg, sv.Chrom)
		for _, c := range records {
			if err := enc.Encode(newClinvarHit(name, c)); err != nil {
				return err
			}
		}
		return nil
	case refdb.DatasetBg:
		db, err := refdb.ParseBgDb(opts.variant)
		if err != nil {
			return err
		}
		n, err := dbs.Bg.CountOverlaps(db, sv, opts.minOverlap)
		if err != nil {
			return err
		}
		return enc.Encode(bgCount{Db: db, Count: n})
	}
	return fmt.Errorf("-sv-type is supported for clinvar and bg, not %v", dataset)
}
