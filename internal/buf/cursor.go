package buf

import (
	"fmt"

	"github.com/joshuapare/resindex/pkg/types"
)

// Cursor is a read position over an immutable byte slice. Reads never mutate
// the receiver; they return the advanced cursor alongside the value, so a
// failed read leaves the caller holding the last good position.
type Cursor struct {
	b   []byte
	off int
}

// NewCursor returns a cursor over b positioned at off. An off outside b is
// accepted; the first read reports the violation.
func NewCursor(b []byte, off int) Cursor {
	return Cursor{b: b, off: off}
}

// Offset returns the absolute position of the cursor.
func (c Cursor) Offset() int { return c.off }

// Len returns the length of the underlying buffer.
func (c Cursor) Len() int { return len(c.b) }

// Remaining returns the number of bytes left after the cursor.
func (c Cursor) Remaining() int {
	if c.off < 0 || c.off > len(c.b) {
		return 0
	}
	return len(c.b) - c.off
}

// At returns a cursor over the same buffer at absolute offset off.
func (c Cursor) At(off int) Cursor {
	return Cursor{b: c.b, off: off}
}

// Bytes returns the next n bytes without copying.
func (c Cursor) Bytes(n int) ([]byte, Cursor, error) {
	s, ok := Slice(c.b, c.off, n)
	if !ok {
		return nil, c, c.truncated(n)
	}
	return s, Cursor{b: c.b, off: c.off + n}, nil
}

// Skip advances by n bytes after checking they exist.
func (c Cursor) Skip(n int) (Cursor, error) {
	_, next, err := c.Bytes(n)
	return next, err
}

// U16 reads a little-endian uint16.
func (c Cursor) U16() (uint16, Cursor, error) {
	s, next, err := c.Bytes(2)
	if err != nil {
		return 0, c, err
	}
	return U16LE(s), next, nil
}

// U32 reads a little-endian uint32.
func (c Cursor) U32() (uint32, Cursor, error) {
	s, next, err := c.Bytes(4)
	if err != nil {
		return 0, c, err
	}
	return U32LE(s), next, nil
}

// Tag reads a 4-byte chunk signature.
func (c Cursor) Tag() ([4]byte, Cursor, error) {
	var tag [4]byte
	s, next, err := c.Bytes(4)
	if err != nil {
		return tag, c, err
	}
	copy(tag[:], s)
	return tag, next, nil
}

// String copies the next n bytes into a string.
func (c Cursor) String(n int) (string, Cursor, error) {
	s, next, err := c.Bytes(n)
	if err != nil {
		return "", c, err
	}
	return string(s), next, nil
}

// LPString reads a uint16 length followed by that many bytes.
func (c Cursor) LPString() (string, Cursor, error) {
	n, next, err := c.U16()
	if err != nil {
		return "", c, err
	}
	s, next, err := next.String(int(n))
	if err != nil {
		return "", c, err
	}
	return s, next, nil
}

func (c Cursor) truncated(n int) error {
	return fmt.Errorf("read %d bytes at offset %d of %d: %w", n, c.off, len(c.b), types.ErrTruncated)
}
