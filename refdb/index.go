package refdb

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/svdb/chrom"
	"github.com/grailbio/svdb/encoding/svdb"
	"github.com/grailbio/svdb/interval"
)

// Record is implemented by every dataset record type.
type Record interface {
	// Span returns the 0-based half-open extent [begin, end) of the record.
	Span() (begin, end uint32)
}

// Index stores the records of one dataset, one record slice and one overlap
// tree per chromosome.  It is filled by add and made queryable by finalize;
// afterwards it is immutable and may be queried concurrently.
type Index[R Record] struct {
	chroms    *chrom.Index
	records   [][]R
	trees     []interval.Tree
	n         int
	finalized bool

	// declaredEmpty marks a dataset with no backing file.  It answers every
	// request with no records.
	declaredEmpty bool
}

func newIndex[R Record](chroms *chrom.Index) *Index[R] {
	return &Index[R]{
		chroms:  chroms,
		records: make([][]R, chroms.Len()),
		trees:   make([]interval.Tree, chroms.Len()),
	}
}

// emptyIndex returns a finalized, declared-empty index.
func emptyIndex[R Record](chroms *chrom.Index) *Index[R] {
	idx := newIndex[R](chroms)
	idx.finalize()
	idx.declaredEmpty = true
	return idx
}

// add appends rec to the records of chromosome chromNo and indexes its span.
// The slot of the record is its position in the chromosome's slice.
func (idx *Index[R]) add(chromNo int, rec R) error {
	if idx.finalized {
		log.Panicf("refdb.Index: add after finalize")
	}
	if chromNo < 0 || chromNo >= len(idx.records) {
		return formatError("chromosome code %d out of range [0, %d)", chromNo, len(idx.records))
	}
	begin, end := rec.Span()
	slot := uint32(len(idx.records[chromNo]))
	if err := idx.trees[chromNo].Insert(int(begin), int(end), slot); err != nil {
		return errors.E(errors.Integrity, err)
	}
	idx.records[chromNo] = append(idx.records[chromNo], rec)
	idx.n++
	return nil
}

func (idx *Index[R]) finalize() {
	for i := range idx.trees {
		idx.trees[i].Finalize()
	}
	idx.finalized = true
}

// Len returns the total number of records in the index.
func (idx *Index[R]) Len() int { return idx.n }

// do calls fn for every record of chromosome chromName whose span intersects
// [begin, end). A declared-empty index answers every request with no
// records, whatever the chromosome or range.
func (idx *Index[R]) do(chromName string, begin, end uint32, fn func(R)) error {
	if idx.declaredEmpty {
		return nil
	}
	if begin > end {
		return lookupError("invalid range %s:%d-%d", chromName, begin, end)
	}
	chromNo, err := idx.chroms.Resolve(chromName)
	if err != nil {
		return err
	}
	records := idx.records[chromNo]
	idx.trees[chromNo].Do(int(begin), int(end), func(slot uint32) {
		fn(records[slot])
	})
	return nil
}

// find returns the records of chromosome chromName whose span intersects
// [begin, end).
func (idx *Index[R]) find(chromName string, begin, end uint32) ([]R, error) {
	var out []R
	err := idx.do(chromName, begin, end, func(r R) { out = append(out, r) })
	return out, err
}

// loadIndex reads the dataset file at path into a new finalized index.  The
// decode function converts each raw record into the dataset's record type.
// The decoder is returned open; closing it is the caller's job.
func loadIndex[R Record](ctx context.Context, path string, chroms *chrom.Index, schema svdb.Schema, decode func(*svdb.RawRecord) (R, error)) (*Index[R], *svdb.Decoder, error) {
	start := time.Now()
	dec, err := svdb.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	idx, err := readIndex(dec, chroms, schema, decode)
	if err != nil {
		dec.Close() // nolint: errcheck
		return nil, nil, err
	}
	log.Printf("loaded %s %s records from %s in %v",
		humanize.Comma(int64(idx.Len())), schema.Dataset, path, time.Since(start))
	return idx, dec, nil
}

func readIndex[R Record](dec *svdb.Decoder, chroms *chrom.Index, schema svdb.Schema, decode func(*svdb.RawRecord) (R, error)) (*Index[R], error) {
	scanner, err := dec.Decode(schema)
	if err != nil {
		return nil, err
	}
	idx := newIndex[R](chroms)
	var n int
	for scanner.Scan() {
		raw := scanner.Get()
		rec, err := decode(&raw)
		if err != nil {
			scanner.Finish() // nolint: errcheck
			return nil, errors.E(fmt.Sprintf("%s: record %d", dec.Path(), n), err)
		}
		if err := idx.add(int(raw.ChromNo), rec); err != nil {
			scanner.Finish() // nolint: errcheck
			return nil, errors.E(fmt.Sprintf("%s: record %d", dec.Path(), n), err)
		}
		n++
	}
	if err := scanner.Finish(); err != nil {
		return nil, err
	}
	start := time.Now()
	idx.finalize()
	log.Debug.Printf("%s: built %d trees over %d records in %v", dec.Path(), len(idx.trees), idx.n, time.Since(start))
	return idx, nil
}
