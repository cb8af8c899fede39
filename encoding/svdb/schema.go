// Package svdb implements the binary container for svdb reference datasets.
//
// A dataset file is a recordio file. Its header names the format version, the
// dataset type and the record schema; each recordio item is one fixed-layout
// record; the trailer holds an Info protobuf summarizing the contents. Files
// on local disk are memory-mapped for reading.
//
// Item layout (little endian):
//
//   chrom code  u16
//   begin       u32
//   end         u32
//   columns...  in schema order: u8 (1 byte), u32 (4 bytes),
//               f32 (4 bytes, IEEE-754), str (u16 length + bytes)
package svdb

import (
	"fmt"
	"math"
	"strings"
)

const (
	// VersionHeader is the recordio header key storing the format version.
	VersionHeader = "svdb.version"
	// DatasetHeader is the recordio header key storing the dataset type.
	DatasetHeader = "svdb.dataset"
	// SchemaHeader is the recordio header key storing the column list.
	SchemaHeader = "svdb.schema"

	// Version is the format version written by this package.
	Version = "SVDB_V1"

	// fixedPrefixSize is the size of the chrom/begin/end prefix of each item.
	fixedPrefixSize = 2 + 4 + 4
)

// ColumnType is the on-disk encoding of a record column.
type ColumnType uint8

const (
	// Uint8 is a one-byte unsigned integer, typically an enum code.
	Uint8 ColumnType = iota
	// Uint32 is a four-byte unsigned integer.
	Uint32
	// Float32 is an IEEE-754 single precision float.
	Float32
	// String is a length-prefixed byte string of at most 65535 bytes.
	String
)

var columnTypeNames = [...]string{Uint8: "u8", Uint32: "u32", Float32: "f32", String: "str"}

// String returns the schema spelling of the type.
func (t ColumnType) String() string {
	if int(t) < len(columnTypeNames) {
		return columnTypeNames[t]
	}
	return fmt.Sprintf("ColumnType(%d)", t)
}

// Column describes one record column.
type Column struct {
	Name string
	Type ColumnType
}

// Schema describes the records of one dataset type.
type Schema struct {
	// Dataset is the dataset type name, e.g., "clinvar".
	Dataset string
	// Columns lists the dataset-specific columns that follow the common
	// chrom/begin/end prefix.
	Columns []Column
}

// String returns the header encoding of the column list, e.g.,
// "variation_type:u8,pathogenicity:u8,vcv:u32".
func (s Schema) String() string {
	parts := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		parts[i] = c.Name + ":" + c.Type.String()
	}
	return strings.Join(parts, ",")
}

// ParseColumns parses the output of Schema.String.
func ParseColumns(s string) ([]Column, error) {
	if s == "" {
		return nil, nil
	}
	var cols []Column
	for _, part := range strings.Split(s, ",") {
		colon := strings.IndexByte(part, ':')
		if colon <= 0 {
			return nil, fmt.Errorf("malformed column %q", part)
		}
		col := Column{Name: part[:colon]}
		found := false
		for t, name := range columnTypeNames {
			if name == part[colon+1:] {
				col.Type = ColumnType(t)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown column type in %q", part)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// Value is one column value of a RawRecord. Numeric columns use Num (Float32
// columns store math.Float32bits); String columns use Str.
type Value struct {
	Num uint64
	Str string
}

// U returns a numeric column value.
func U(v uint64) Value { return Value{Num: v} }

// F returns a float column value.
func F(v float32) Value { return Value{Num: uint64(math.Float32bits(v))} }

// S returns a string column value.
func S(v string) Value { return Value{Str: v} }

// Float32 interprets the value as a Float32 column.
func (v Value) Float32() float32 { return math.Float32frombits(uint32(v.Num)) }

// RawRecord is one decoded item, before the dataset-specific field decoding.
// It owns all its memory; nothing refers back into the mapped file.
type RawRecord struct {
	ChromNo    uint16
	Begin, End uint32
	// Cols holds one value per schema column, in schema order.
	Cols []Value
}
