package refdb

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/svdb/chrom"
	"github.com/grailbio/svdb/encoding/svdb"
)

// Dataset names a dataset type.
type Dataset uint8

const (
	// DatasetClinvar is the ClinVar structural variant catalog.
	DatasetClinvar Dataset = iota
	// DatasetPathogenic lists known pathogenic regions.
	DatasetPathogenic
	// DatasetTads holds topologically associating domains, one TadSet per
	// variant.
	DatasetTads
	// DatasetBg holds population frequency catalogs, one BgDb per variant.
	DatasetBg
	// DatasetGenes holds gene annotations.
	DatasetGenes
	numDatasets
)

var datasetNames = [...]string{
	DatasetClinvar:    "clinvar",
	DatasetPathogenic: "pathogenic",
	DatasetTads:       "tads",
	DatasetBg:         "bg",
	DatasetGenes:      "genes",
}

func (d Dataset) String() string {
	if d < numDatasets {
		return datasetNames[d]
	}
	return fmt.Sprintf("Dataset(%d)", d)
}

// ParseDataset parses a dataset type name such as "clinvar".
func ParseDataset(s string) (Dataset, error) {
	key := normalizeName(s)
	for i, name := range datasetNames {
		if name == key {
			return Dataset(i), nil
		}
	}
	return 0, lookupError("unknown dataset %q", s)
}

// File names of the datasets inside a release directory.
const (
	ClinvarFile    = "clinvar.svdb"
	PathogenicFile = "pathogenic.svdb"
	GenesFile      = "genes.svdb"
)

// TadFile returns the file name of a TAD set, e.g., "tads-hesc.svdb".
func TadFile(set TadSet) string { return "tads-" + set.String() + ".svdb" }

// BgFile returns the file name of a background catalog, e.g., "bg-gnomad.svdb".
func BgFile(db BgDb) string { return "bg-" + db.String() + ".svdb" }

// Databases holds every dataset of one release.  A release without data is
// represented by empty datasets, which answer every query with no records.
type Databases struct {
	Release    Release
	Clinvar    *ClinvarSv
	Pathogenic *PathogenicDb
	Tads       *TadSets
	Bg         *BgDbs
	Genes      *GeneDb
}

func emptyDatabases(rel Release, chroms *chrom.Index) *Databases {
	dbs := &Databases{
		Release:    rel,
		Clinvar:    &ClinvarSv{index: emptyIndex[ClinvarRecord](chroms)},
		Pathogenic: &PathogenicDb{index: emptyIndex[PathogenicRecord](chroms)},
		Tads:       &TadSets{},
		Bg:         &BgDbs{},
		Genes:      &GeneDb{index: emptyIndex[GeneRecord](chroms)},
	}
	for i := range dbs.Tads.sets {
		dbs.Tads.sets[i] = emptyIndex[TadRecord](chroms)
	}
	for i := range dbs.Bg.dbs {
		dbs.Bg.dbs[i] = emptyIndex[BgRecord](chroms)
	}
	return dbs
}

// LoadOpts controls Load.
type LoadOpts struct {
	// Root is the database directory.  Release r is read from
	// <Root>/<r>/, e.g., /data/svdb/GRCh37/clinvar.svdb.  Root may be any
	// path supported by grailbio/base/file.
	Root string
	// Chroms maps on-disk chromosome codes to names.  nil means chrom.Default.
	Chroms *chrom.Index
	// Releases lists the releases to load; the others are declared empty.
	// nil means every release; duplicates are ignored.  A local release
	// directory that does not exist also declares the release empty.
	Releases []Release
	// AllowMissing turns a missing dataset file into a logged warning and an
	// empty dataset.  By default a missing file fails Load.
	AllowMissing bool
	// Parallelism bounds the number of datasets loaded concurrently.  Values
	// <= 0 mean runtime.NumCPU().
	Parallelism int
}

// Registry holds the datasets of every release.  It is immutable once Load
// returns and may be queried concurrently.
type Registry struct {
	chroms *chrom.Index
	dbs    [NumReleases]*Databases

	mu       sync.Mutex
	decoders []*svdb.Decoder
}

// NewRegistry returns a registry in which every release is declared empty.
func NewRegistry(chroms *chrom.Index) *Registry {
	r := &Registry{chroms: chroms}
	for rel := range r.dbs {
		r.dbs[rel] = emptyDatabases(Release(rel), chroms)
	}
	return r
}

// Load reads the datasets described by opts.  Independent datasets are read
// in parallel; the first failure aborts the load and is returned.
func Load(ctx context.Context, opts LoadOpts) (*Registry, error) {
	chroms := opts.Chroms
	if chroms == nil {
		chroms = chrom.Default
	}
	reg := NewRegistry(chroms)
	releases := opts.Releases
	if releases == nil {
		for rel := Release(0); rel < NumReleases; rel++ {
			releases = append(releases, rel)
		}
	}
	var (
		jobs []func() error
		seen [NumReleases]bool
	)
	for _, rel := range releases {
		if rel >= NumReleases {
			return nil, lookupError("unknown release %d", rel)
		}
		if seen[rel] {
			continue
		}
		seen[rel] = true
		dir := file.Join(opts.Root, rel.String())
		if !releaseExists(dir) {
			log.Printf("%s: no such directory; release %v is empty", dir, rel)
			continue
		}
		jobs = append(jobs, reg.releaseJobs(ctx, reg.dbs[rel], dir, opts.AllowMissing)...)
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	start := time.Now()
	err := traverse.Limit(parallelism).Each(len(jobs), func(i int) error {
		return jobs[i]()
	})
	if err != nil {
		reg.Close() // nolint: errcheck
		return nil, err
	}
	log.Printf("loaded %d datasets from %s in %v", len(jobs), opts.Root, time.Since(start))
	return reg, nil
}

// releaseExists reports whether the release directory dir may hold data.
// Only local directories are checked; object stores have no directories.
func releaseExists(dir string) bool {
	scheme, _, err := file.ParsePath(dir)
	if err != nil || scheme != "" {
		return true
	}
	_, err = os.Stat(dir)
	return !os.IsNotExist(err)
}

// releaseJobs returns one load job per dataset of a release.  Each job writes
// a distinct field of dbs.
func (r *Registry) releaseJobs(ctx context.Context, dbs *Databases, dir string, allowMissing bool) []func() error {
	jobs := []func() error{
		func() error {
			return loadInto(ctx, r, file.Join(dir, ClinvarFile), ClinvarSchema, decodeClinvar, allowMissing, &dbs.Clinvar.index)
		},
		func() error {
			return loadInto(ctx, r, file.Join(dir, PathogenicFile), PathogenicSchema, decodePathogenic, allowMissing, &dbs.Pathogenic.index)
		},
		func() error {
			return loadInto(ctx, r, file.Join(dir, GenesFile), GeneSchema, decodeGene, allowMissing, &dbs.Genes.index)
		},
	}
	for set := TadSet(0); set < NumTadSets; set++ {
		set := set
		jobs = append(jobs, func() error {
			return loadInto(ctx, r, file.Join(dir, TadFile(set)), TadSchema, decodeTad, allowMissing, &dbs.Tads.sets[set])
		})
	}
	for db := BgDb(0); db < NumBgDbs; db++ {
		db := db
		jobs = append(jobs, func() error {
			return loadInto(ctx, r, file.Join(dir, BgFile(db)), BgSchema, decodeBg, allowMissing, &dbs.Bg.dbs[db])
		})
	}
	return jobs
}

// loadInto loads one dataset file and installs it in *dst.  With
// allowMissing, a missing file leaves the empty dataset already in *dst.
func loadInto[R Record](ctx context.Context, r *Registry, path string, schema svdb.Schema, decode func(*svdb.RawRecord) (R, error), allowMissing bool, dst **Index[R]) error {
	idx, dec, err := loadIndex(ctx, path, r.chroms, schema, decode)
	if err != nil {
		if allowMissing && errors.Is(errors.NotExist, err) {
			log.Error.Printf("%s: dataset missing, serving it empty", path)
			return nil
		}
		log.Error.Printf("%s: %v", path, err)
		return err
	}
	*dst = idx
	r.mu.Lock()
	r.decoders = append(r.decoders, dec)
	r.mu.Unlock()
	return nil
}

// Chroms returns the chromosome index of the registry.
func (r *Registry) Chroms() *chrom.Index { return r.chroms }

// Datasets returns the datasets of release rel.  A release declared empty
// yields valid, empty datasets.
func (r *Registry) Datasets(rel Release) (*Databases, error) {
	if rel >= NumReleases {
		return nil, lookupError("unknown release %d", rel)
	}
	return r.dbs[rel], nil
}

// Close releases the memory mappings of all loaded datasets.  Records
// returned by earlier queries remain valid.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var err errors.Once
	for _, dec := range r.decoders {
		err.Set(dec.Close())
	}
	r.decoders = nil
	return err.Err()
}

// Query is one overlap request against a Registry.
type Query struct {
	Release Release
	Dataset Dataset
	// Variant selects the TAD set (DatasetTads) or the background catalog
	// (DatasetBg), e.g., "imr90" or "gnomad".  It must be empty for the other
	// dataset types.
	Variant    string
	Chrom      string
	Begin, End uint32
	// MinPathogenicity filters ClinVar records.  It is ignored by the other
	// dataset types.
	MinPathogenicity Pathogenicity
}

// Fetch runs q and returns the matching records.  Unknown releases,
// datasets, variants or chromosomes and inverted ranges yield errors for
// which IsLookupError is true.
func (r *Registry) Fetch(q Query) ([]Record, error) {
	dbs, err := r.Datasets(q.Release)
	if err != nil {
		return nil, err
	}
	if q.Dataset != DatasetTads && q.Dataset != DatasetBg && q.Variant != "" {
		return nil, lookupError("dataset %v has no variant %q", q.Dataset, q.Variant)
	}
	switch q.Dataset {
	case DatasetClinvar:
		records, err := dbs.Clinvar.FetchRecords(q.Chrom, q.Begin, q.End, q.MinPathogenicity)
		return toRecords(records), err
	case DatasetPathogenic:
		records, err := dbs.Pathogenic.FetchRecords(q.Chrom, q.Begin, q.End)
		return toRecords(records), err
	case DatasetTads:
		set, err := ParseTadSet(q.Variant)
		if err != nil {
			return nil, err
		}
		records, err := dbs.Tads.FetchTads(set, q.Chrom, q.Begin, q.End)
		return toRecords(records), err
	case DatasetBg:
		db, err := ParseBgDb(q.Variant)
		if err != nil {
			return nil, err
		}
		records, err := dbs.Bg.FetchRecords(db, q.Chrom, q.Begin, q.End)
		return toRecords(records), err
	case DatasetGenes:
		records, err := dbs.Genes.FetchGenes(q.Chrom, q.Begin, q.End)
		return toRecords(records), err
	}
	return nil, lookupError("unknown dataset %v", q.Dataset)
}

func toRecords[R Record](records []R) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = rec
	}
	return out
}
