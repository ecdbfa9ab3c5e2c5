// Package buf contains bounds-checked, little-endian decoding helpers shared
// by the index parsers.
package buf

import "encoding/binary"

// U16LE reads a little-endian uint16 from b. Returns 0 when b is too short.
func U16LE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U32LE reads a little-endian uint32 from b. Returns 0 when b is too short.
func U32LE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// AppendU16LE appends v to b in little-endian order.
func AppendU16LE(b []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(b, v)
}

// AppendU32LE appends v to b in little-endian order.
func AppendU32LE(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

// PutU32LE overwrites b[off:off+4]. It is a no-op when the range is out of bounds.
func PutU32LE(b []byte, off int, v uint32) {
	if !Has(b, off, 4) {
		return
	}
	binary.LittleEndian.PutUint32(b[off:], v)
}
