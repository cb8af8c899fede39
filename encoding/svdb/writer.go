package svdb

import (
	"context"
	"fmt"
	"io"

	"github.com/gogo/protobuf/proto"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
)

// Writer produces a dataset file. Records are written in Append order, which
// is also the order in which readers encounter them.
type Writer struct {
	ctx    context.Context
	out    file.File // nil unless created by Create.
	rio    recordio.Writer
	schema Schema
	info   Info
	err    errors.Once
}

// NewWriter creates a writer that emits a dataset file to out. info.Dataset
// is overwritten with schema.Dataset; the record counts are computed.
func NewWriter(out io.Writer, schema Schema, info Info) *Writer {
	recordiozstd.Init()
	w := &Writer{schema: schema, info: info}
	w.info.Dataset = schema.Dataset
	w.info.NumRecords = 0
	w.info.ChromCounts = nil
	cols := schema.Columns
	w.rio = recordio.NewWriter(out, recordio.WriterOpts{
		Marshal: func(scratch []byte, v interface{}) ([]byte, error) {
			return marshalRecord(cols, scratch, v.(*RawRecord))
		},
		Transformers: []string{recordiozstd.Name},
	})
	w.rio.AddHeader(VersionHeader, Version)
	w.rio.AddHeader(DatasetHeader, schema.Dataset)
	w.rio.AddHeader(SchemaHeader, schema.String())
	w.rio.AddHeader(recordio.KeyTrailer, true)
	return w
}

// Create creates the dataset file at path, which may be any path supported
// by grailbio/base/file.  Finish closes the file.
func Create(ctx context.Context, path string, schema Schema, info Info) (*Writer, error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "svdb.Create", path)
	}
	w := NewWriter(out.Writer(ctx), schema, info)
	w.ctx = ctx
	w.out = out
	return w, nil
}

// Append adds a record. It returns an errors.Invalid error if the record does
// not match the schema.
func (w *Writer) Append(r RawRecord) error {
	if _, err := recordSize(w.schema.Columns, &r); err != nil {
		return errors.E(errors.Invalid, fmt.Sprintf("svdb.Writer(%s)", w.schema.Dataset), err)
	}
	if r.Begin > r.End {
		return errors.E(errors.Invalid, fmt.Sprintf("svdb.Writer(%s): inverted span [%d, %d)", w.schema.Dataset, r.Begin, r.End))
	}
	w.info.count(r.ChromNo)
	w.rio.Append(&r)
	return nil
}

// NumRecords returns the number of records appended so far.
func (w *Writer) NumRecords() uint64 { return w.info.NumRecords }

// Finish writes the trailer and flushes all data. It must be called exactly
// once.
func (w *Writer) Finish() error {
	trailer, err := proto.Marshal(&w.info)
	if err != nil {
		w.err.Set(err)
	} else {
		w.rio.SetTrailer(trailer)
	}
	w.err.Set(w.rio.Finish())
	if w.out != nil {
		w.err.Set(w.out.Close(w.ctx))
	}
	return w.err.Err()
}
