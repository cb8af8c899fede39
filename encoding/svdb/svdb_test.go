package svdb

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	Dataset: "test",
	Columns: []Column{
		{"kind", Uint8},
		{"count", Uint32},
		{"freq", Float32},
		{"id", String},
	},
}

var testRecords = []RawRecord{
	{ChromNo: 0, Begin: 100, End: 200, Cols: []Value{U(3), U(7), F(0.25), S("nssv1")}},
	{ChromNo: 2, Begin: 0, End: 0, Cols: []Value{U(0), U(0), F(0), S("")}},
	{ChromNo: 0, Begin: 150, End: 4000000000, Cols: []Value{U(255), U(1 << 31), F(1.5), S("esv2675")}},
}

func writeTestFile(t *testing.T, dir string, schema Schema, records []RawRecord) string {
	path := filepath.Join(dir, schema.Dataset+".svdb")
	w, err := Create(context.Background(), path, schema, Info{Release: "GRCh37", Source: "test"})
	require.NoError(t, err)
	for _, r := range records {
		require.NoError(t, w.Append(r))
	}
	require.NoError(t, w.Finish())
	return path
}

func readAll(t *testing.T, path string, schema Schema) ([]RawRecord, *Scanner) {
	d, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer func() { expect.NoError(t, d.Close()) }()
	s, err := d.Decode(schema)
	require.NoError(t, err)
	var records []RawRecord
	for s.Scan() {
		records = append(records, s.Get())
	}
	expect.NoError(t, s.Finish())
	return records, s
}

func TestRoundTrip(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := writeTestFile(t, tempDir, testSchema, testRecords)

	records, s := readAll(t, path, testSchema)
	assert.Equal(t, testRecords, records)
	expect.EQ(t, s.Header().Dataset, "test")
	expect.EQ(t, s.Header().Version, Version)
	info := s.Info()
	require.NotNil(t, info)
	expect.EQ(t, info.Dataset, "test")
	expect.EQ(t, info.Release, "GRCh37")
	expect.EQ(t, info.NumRecords, uint64(3))
	expect.EQ(t, info.ChromCounts, []uint64{2, 0, 1})
	expect.EQ(t, records[0].Cols[2].Float32(), float32(0.25))
}

func TestAnySchema(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := writeTestFile(t, tempDir, testSchema, testRecords)
	records, s := readAll(t, path, Schema{})
	expect.EQ(t, len(records), 3)
	expect.EQ(t, s.Header().Columns, testSchema.Columns)
}

func TestSchemaMismatch(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := writeTestFile(t, tempDir, testSchema, testRecords)
	d, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer d.Close() // nolint: errcheck

	_, err = d.Decode(Schema{Dataset: "other", Columns: testSchema.Columns})
	expect.True(t, errors.Is(errors.Integrity, err))
	assert.Contains(t, err.Error(), "dataset")

	_, err = d.Decode(Schema{Dataset: "test", Columns: testSchema.Columns[:2]})
	expect.True(t, errors.Is(errors.Integrity, err))
	assert.Contains(t, err.Error(), "schema")
}

func TestOpenErrors(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()

	_, err := Open(ctx, filepath.Join(tempDir, "missing.svdb"))
	expect.True(t, errors.Is(errors.NotExist, err), err)

	empty := filepath.Join(tempDir, "empty.svdb")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = Open(ctx, empty)
	expect.True(t, errors.Is(errors.Integrity, err), err)

	garbage := filepath.Join(tempDir, "garbage.svdb")
	require.NoError(t, os.WriteFile(garbage, bytes.Repeat([]byte("not a recordio file "), 100), 0644))
	d, err := Open(ctx, garbage)
	require.NoError(t, err)
	_, err = d.Decode(testSchema)
	expect.True(t, errors.Is(errors.Integrity, err), err)
	expect.NoError(t, d.Close())
}

func TestWriterRejects(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, testSchema, Info{})
	tests := []RawRecord{
		{Begin: 10, End: 5, Cols: []Value{U(0), U(0), F(0), S("")}},
		{Begin: 0, End: 5, Cols: []Value{U(256), U(0), F(0), S("")}},
		{Begin: 0, End: 5, Cols: []Value{U(0), U(1 << 32), F(0), S("")}},
		{Begin: 0, End: 5, Cols: []Value{U(0)}},
	}
	for _, r := range tests {
		err := w.Append(r)
		expect.True(t, errors.Is(errors.Invalid, err), r)
	}
	expect.EQ(t, w.NumRecords(), uint64(0))
	expect.NoError(t, w.Finish())
}

func TestUnmarshalTruncated(t *testing.T) {
	r := testRecords[0]
	data, err := marshalRecord(testSchema.Columns, nil, &r)
	require.NoError(t, err)
	got, err := unmarshalRecord(testSchema.Columns, data)
	require.NoError(t, err)
	assert.Equal(t, r, got)
	for n := 0; n < len(data); n++ {
		_, err := unmarshalRecord(testSchema.Columns, data[:n])
		expect.NotNil(t, err, n)
	}
	_, err = unmarshalRecord(testSchema.Columns, append(data, 0))
	assert.Contains(t, err.Error(), "trailing")
}

func TestParseColumns(t *testing.T) {
	cols, err := ParseColumns(testSchema.String())
	expect.NoError(t, err)
	expect.EQ(t, cols, testSchema.Columns)
	cols, err = ParseColumns("")
	expect.NoError(t, err)
	expect.EQ(t, len(cols), 0)
	for _, s := range []string{"x", ":u8", "x:u64", "a:u8,b"} {
		_, err := ParseColumns(s)
		expect.NotNil(t, err, s)
	}
}
