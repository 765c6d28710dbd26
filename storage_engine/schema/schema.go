// Package schema describes the fixed-width field layout of a B+tree key
// or table record: an ordered list of named, fixed-size fields whose
// concatenated bytes are compared lexicographically (§4.4). Numeric
// fields are encoded big-endian so byte-lexicographic order matches
// numeric order.
package schema

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// FieldType identifies how a field's fixed-width bytes are interpreted.
type FieldType int

const (
	// Uint64 fields are 8 bytes, big-endian, so unsigned numeric order
	// matches byte order.
	Uint64 FieldType = iota
	// FixedBytes fields are opaque fixed-width byte strings (e.g. a
	// truncated/padded VARCHAR), compared byte-for-byte.
	FixedBytes
)

// Field is one column of a Schema.
type Field struct {
	Name string
	Type FieldType
	Size int // ignored (always 8) for Uint64
}

// Schema is an ordered set of fixed-width fields. A Schema value with N
// fields describes both B+tree keys (§4.4) and table records under
// either storage model, NARY or PAX (§4.5).
type Schema struct {
	Fields []Field
}

// New builds a Schema, normalizing each field's Size (Uint64 is always
// 8 bytes regardless of what was passed).
func New(fields ...Field) *Schema {
	out := make([]Field, len(fields))
	for i, f := range fields {
		if f.Type == Uint64 {
			f.Size = 8
		}
		out[i] = f
	}
	return &Schema{Fields: out}
}

// RecordSize is the total width in bytes of one concatenated key or
// record under this schema.
func (s *Schema) RecordSize() int {
	total := 0
	for _, f := range s.Fields {
		total += f.Size
	}
	return total
}

// FieldOffset returns the byte offset of field i within a concatenated
// key/record.
func (s *Schema) FieldOffset(i int) int {
	off := 0
	for j := 0; j < i; j++ {
		off += s.Fields[j].Size
	}
	return off
}

// EncodeUint64 writes v into field i of buf (buf must be RecordSize()
// bytes or larger).
func (s *Schema) EncodeUint64(buf []byte, i int, v uint64) {
	off := s.FieldOffset(i)
	binary.BigEndian.PutUint64(buf[off:off+8], v)
}

// DecodeUint64 reads field i of buf as a uint64.
func (s *Schema) DecodeUint64(buf []byte, i int) uint64 {
	off := s.FieldOffset(i)
	return binary.BigEndian.Uint64(buf[off : off+8])
}

// EncodeFixedBytes copies v (truncated or zero-padded to the field's
// declared size) into field i of buf.
func (s *Schema) EncodeFixedBytes(buf []byte, i int, v []byte) {
	off := s.FieldOffset(i)
	size := s.Fields[i].Size
	dst := buf[off : off+size]
	for j := range dst {
		dst[j] = 0
	}
	copy(dst, v)
}

// FieldBytes returns the raw slice for field i of a concatenated
// key/record.
func (s *Schema) FieldBytes(buf []byte, i int) []byte {
	off := s.FieldOffset(i)
	return buf[off : off+s.Fields[i].Size]
}

// Compare orders two concatenated keys/records lexicographically over
// their fixed-width fields.
func Compare(a, b []byte) int {
	return bytes.Compare(a, b)
}

// MinKey returns the all-zero key: the smallest possible value under
// this schema's byte-lexicographic order, per the min/max endpoint
// construction the index-scan cursor needs (§4.6).
func (s *Schema) MinKey() []byte {
	return make([]byte, s.RecordSize())
}

// MaxKey returns the all-0xFF key: the largest possible value under this
// schema's byte-lexicographic order.
func (s *Schema) MaxKey() []byte {
	buf := make([]byte, s.RecordSize())
	for i := range buf {
		buf[i] = 0xFF
	}
	return buf
}

// FieldIndex returns the position of the named field, or an error if it
// does not exist.
func (s *Schema) FieldIndex(name string) (int, error) {
	for i, f := range s.Fields {
		if f.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("schema: unknown field %q", name)
}
