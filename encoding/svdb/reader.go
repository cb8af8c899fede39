package svdb

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/gogo/protobuf/proto"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
)

// Decoder holds the bytes of one dataset file.  Local files are memory-mapped
// without copying; the mapping stays valid until Close.
type Decoder struct {
	path  string
	data  []byte
	unmap func() error
}

// ioError converts a file access failure into an error whose kind tells
// "missing" from "not readable".
func ioError(err error, path string) error {
	kind := errors.Unavailable
	switch {
	case os.IsNotExist(err) || errors.Is(errors.NotExist, err):
		kind = errors.NotExist
	case os.IsPermission(err) || errors.Is(errors.NotAllowed, err):
		kind = errors.NotAllowed
	}
	return errors.E(kind, fmt.Sprintf("svdb: open %s", path), err)
}

// formatError reports a structurally invalid file.
func formatError(path string, args ...interface{}) error {
	return errors.E(errors.Integrity, fmt.Sprintf("svdb: %s: %s", path, fmt.Sprint(args...)))
}

// Open prepares the dataset file at path for decoding. Local paths are
// memory-mapped; other paths supported by grailbio/base/file (e.g., s3://)
// are read into memory. Missing files yield an errors.NotExist error, other
// access failures errors.NotAllowed or errors.Unavailable. An empty file
// yields an errors.Integrity error.
func Open(ctx context.Context, path string) (*Decoder, error) {
	scheme, _, err := file.ParsePath(path)
	if err != nil {
		return nil, ioError(err, path)
	}
	if scheme != "" {
		return openRemote(ctx, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(err, path)
	}
	// The mapping outlives the descriptor.
	defer f.Close() // nolint: errcheck
	st, err := f.Stat()
	if err != nil {
		return nil, ioError(err, path)
	}
	if st.IsDir() {
		return nil, errors.E(errors.NotAllowed, fmt.Sprintf("svdb: open %s: is a directory", path))
	}
	if st.Size() == 0 {
		return nil, formatError(path, "empty file")
	}
	data, unmap, err := mmapFile(f, int(st.Size()))
	if err != nil {
		return nil, ioError(err, path)
	}
	return &Decoder{path: path, data: data, unmap: unmap}, nil
}

func openRemote(ctx context.Context, path string) (*Decoder, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, ioError(err, path)
	}
	data, err := ioutil.ReadAll(in.Reader(ctx))
	if cerr := in.Close(ctx); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, ioError(err, path)
	}
	if len(data) == 0 {
		return nil, formatError(path, "empty file")
	}
	return &Decoder{path: path, data: data, unmap: func() error { return nil }}, nil
}

// Path returns the path passed to Open.
func (d *Decoder) Path() string { return d.path }

// Size returns the file size in bytes.
func (d *Decoder) Size() int { return len(d.data) }

// Close releases the file contents. Records already decoded remain valid.
func (d *Decoder) Close() error {
	if d.unmap == nil {
		return nil
	}
	err := d.unmap()
	d.unmap = nil
	d.data = nil
	return err
}

// Header is the svdb-specific part of a dataset file header.
type Header struct {
	Version string
	Dataset string
	Columns []Column
}

// Scanner iterates over the records of a dataset file in file order. Its
// methods are not thread safe.
type Scanner struct {
	path   string
	cols   []Column
	header Header
	rio    recordio.Scanner
	info   *Info
	rec    RawRecord
	n      uint64
	err    error
}

// Decode validates the file header against want and returns a scanner over
// its records.  want.Dataset must match the file's dataset type, and
// want.Columns the file's schema; a zero Schema accepts any dataset.  A
// missing or malformed header, a schema mismatch, or an undecodable trailer
// yields an errors.Integrity error.
func (d *Decoder) Decode(want Schema) (*Scanner, error) {
	if d.data == nil {
		log.Panicf("svdb.Decoder(%s): Decode after Close", d.path)
	}
	recordiozstd.Init()
	s := &Scanner{path: d.path}
	s.rio = recordio.NewScanner(bytes.NewReader(d.data), recordio.ScannerOpts{
		Unmarshal: func(in []byte) (interface{}, error) {
			r, err := unmarshalRecord(s.cols, in)
			if err != nil {
				return nil, err
			}
			return r, nil
		},
	})
	if err := s.rio.Err(); err != nil {
		return nil, errors.E(errors.Integrity, fmt.Sprintf("svdb: %s: malformed recordio header", d.path), err)
	}
	hasSchema := false
	for _, kv := range s.rio.Header() {
		// Unknown keys are ignored; recordio writes its own.
		switch kv.Key {
		case VersionHeader:
			s.header.Version, _ = kv.Value.(string)
		case DatasetHeader:
			s.header.Dataset, _ = kv.Value.(string)
		case SchemaHeader:
			str, _ := kv.Value.(string)
			cols, err := ParseColumns(str)
			if err != nil {
				return nil, formatError(d.path, err)
			}
			s.header.Columns = cols
			hasSchema = true
		}
	}
	switch {
	case s.header.Version == "":
		return nil, formatError(d.path, "no ", VersionHeader, " header; not an svdb file")
	case s.header.Version != Version:
		return nil, formatError(d.path, fmt.Sprintf("version %q, expect %q", s.header.Version, Version))
	case !hasSchema:
		return nil, formatError(d.path, "no ", SchemaHeader, " header")
	}
	if want.Dataset != "" {
		if s.header.Dataset != want.Dataset {
			return nil, formatError(d.path, fmt.Sprintf("dataset %q, expect %q", s.header.Dataset, want.Dataset))
		}
		if got := (Schema{Columns: s.header.Columns}).String(); got != want.String() {
			return nil, formatError(d.path, fmt.Sprintf("schema %q, expect %q", got, want.String()))
		}
	}
	s.cols = s.header.Columns
	if trailer := s.rio.Trailer(); len(trailer) > 0 {
		info := &Info{}
		if err := proto.Unmarshal(trailer, info); err != nil {
			return nil, errors.E(errors.Integrity, fmt.Sprintf("svdb: %s: malformed trailer", d.path), err)
		}
		s.info = info
	}
	return s, nil
}

// Header returns the validated file header.
func (s *Scanner) Header() Header { return s.header }

// Info returns the trailer contents, or nil if the file has no trailer.
func (s *Scanner) Info() *Info { return s.info }

// Scan reads the next record. It returns false at the end of the file or on
// error; Err distinguishes the two.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if !s.rio.Scan() {
		if err := s.rio.Err(); err != nil {
			s.err = errors.E(errors.Integrity, fmt.Sprintf("svdb: %s: record %d", s.path, s.n), err)
		} else if s.info != nil && s.info.NumRecords != s.n {
			s.err = formatError(s.path, fmt.Sprintf("read %d records, trailer says %d", s.n, s.info.NumRecords))
		}
		return false
	}
	s.rec = s.rio.Get().(RawRecord)
	s.n++
	return true
}

// Get returns the record read by the last successful Scan.
func (s *Scanner) Get() RawRecord { return s.rec }

// Err returns the first error encountered, if any.
func (s *Scanner) Err() error { return s.err }

// Finish releases the scanner's resources and returns Err.
func (s *Scanner) Finish() error {
	if err := s.rio.Finish(); err != nil && s.err == nil {
		s.err = errors.E(errors.Integrity, fmt.Sprintf("svdb: %s", s.path), err)
	}
	return s.err
}
