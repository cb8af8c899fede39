package svdb

import (
	"encoding/binary"
	"fmt"
	"math"
)

// recordSize returns the encoded size of r, or an error if r does not fit the
// schema.
func recordSize(cols []Column, r *RawRecord) (int, error) {
	if len(r.Cols) != len(cols) {
		return 0, fmt.Errorf("record has %d columns, schema has %d", len(r.Cols), len(cols))
	}
	n := fixedPrefixSize
	for i, c := range cols {
		v := r.Cols[i]
		switch c.Type {
		case Uint8:
			if v.Num > math.MaxUint8 {
				return 0, fmt.Errorf("column %s: value %d overflows u8", c.Name, v.Num)
			}
			n++
		case Uint32:
			if v.Num > math.MaxUint32 {
				return 0, fmt.Errorf("column %s: value %d overflows u32", c.Name, v.Num)
			}
			n += 4
		case Float32:
			n += 4
		case String:
			if len(v.Str) > math.MaxUint16 {
				return 0, fmt.Errorf("column %s: string of length %d too long", c.Name, len(v.Str))
			}
			n += 2 + len(v.Str)
		default:
			return 0, fmt.Errorf("column %s: unknown type %v", c.Name, c.Type)
		}
	}
	return n, nil
}

// marshalRecord encodes r into scratch, growing it if needed.
func marshalRecord(cols []Column, scratch []byte, r *RawRecord) ([]byte, error) {
	if r.Begin > r.End {
		return nil, fmt.Errorf("inverted span [%d, %d)", r.Begin, r.End)
	}
	n, err := recordSize(cols, r)
	if err != nil {
		return nil, err
	}
	t := scratch
	if cap(t) < n {
		t = make([]byte, n)
	}
	t = t[:n]
	binary.LittleEndian.PutUint16(t[0:2], r.ChromNo)
	binary.LittleEndian.PutUint32(t[2:6], r.Begin)
	binary.LittleEndian.PutUint32(t[6:10], r.End)
	off := fixedPrefixSize
	for i, c := range cols {
		v := r.Cols[i]
		switch c.Type {
		case Uint8:
			t[off] = uint8(v.Num)
			off++
		case Uint32, Float32:
			binary.LittleEndian.PutUint32(t[off:off+4], uint32(v.Num))
			off += 4
		case String:
			binary.LittleEndian.PutUint16(t[off:off+2], uint16(len(v.Str)))
			off += 2
			off += copy(t[off:], v.Str)
		}
	}
	return t, nil
}

// unmarshalRecord decodes one item. Strings are copied, so the result does
// not alias in.
func unmarshalRecord(cols []Column, in []byte) (RawRecord, error) {
	var r RawRecord
	if len(in) < fixedPrefixSize {
		return r, fmt.Errorf("record too short: %d bytes", len(in))
	}
	r.ChromNo = binary.LittleEndian.Uint16(in[0:2])
	r.Begin = binary.LittleEndian.Uint32(in[2:6])
	r.End = binary.LittleEndian.Uint32(in[6:10])
	if r.Begin > r.End {
		return r, fmt.Errorf("inverted span [%d, %d)", r.Begin, r.End)
	}
	r.Cols = make([]Value, len(cols))
	off := fixedPrefixSize
	need := func(n int, c Column) error {
		if off+n > len(in) {
			return fmt.Errorf("record truncated in column %s", c.Name)
		}
		return nil
	}
	for i, c := range cols {
		switch c.Type {
		case Uint8:
			if err := need(1, c); err != nil {
				return r, err
			}
			r.Cols[i].Num = uint64(in[off])
			off++
		case Uint32, Float32:
			if err := need(4, c); err != nil {
				return r, err
			}
			r.Cols[i].Num = uint64(binary.LittleEndian.Uint32(in[off : off+4]))
			off += 4
		case String:
			if err := need(2, c); err != nil {
				return r, err
			}
			n := int(binary.LittleEndian.Uint16(in[off : off+2]))
			off += 2
			if err := need(n, c); err != nil {
				return r, err
			}
			r.Cols[i].Str = string(in[off : off+n])
			off += n
		default:
			return r, fmt.Errorf("column %s: unknown type %v", c.Name, c.Type)
		}
	}
	if off != len(in) {
		return r, fmt.Errorf("%d trailing bytes after record", len(in)-off)
	}
	return r, nil
}
