package format

import (
	"fmt"

	"github.com/joshuapare/resindex/internal/buf"
)

// ReadV1String reads a v1 scalar or name: a u16 length that counts the
// trailing NUL, then the bytes. A zero length is corrupt.
func ReadV1String(c buf.Cursor) (string, buf.Cursor, error) {
	n, next, err := c.U16()
	if err != nil {
		return "", c, fmt.Errorf("string at %d: %w", c.Offset(), err)
	}
	if n == 0 {
		return "", c, fmt.Errorf("string at %d: zero length: %w", c.Offset(), ErrCorrupt)
	}
	// the NUL itself must be present
	if _, err := next.Skip(int(n)); err != nil {
		return "", c, fmt.Errorf("string at %d: %w", c.Offset(), err)
	}
	s, next, _ := next.String(int(n) - 1)
	next, _ = next.Skip(1)
	return s, next, nil
}

// ReadV1Array reads a v1 array block: a u16 block length, then strings of
// (u16 len, bytes, NUL) until the block is consumed but for a final NUL.
func ReadV1Array(c buf.Cursor) ([]string, buf.Cursor, error) {
	arrLen, next, err := c.U16()
	if err != nil {
		return nil, c, fmt.Errorf("array at %d: %w", c.Offset(), err)
	}
	start := next.Offset()
	var values []string
	for {
		var s string
		if s, next, err = next.LPString(); err != nil {
			return nil, c, fmt.Errorf("array at %d: %w", c.Offset(), err)
		}
		if next, err = next.Skip(1); err != nil {
			return nil, c, fmt.Errorf("array at %d: %w", c.Offset(), err)
		}
		values = append(values, s)
		read := next.Offset() - start
		if read+1 == int(arrLen) {
			if next, err = next.Skip(1); err != nil {
				return nil, c, fmt.Errorf("array at %d: %w", c.Offset(), err)
			}
			return values, next, nil
		}
		if read+1 > int(arrLen) {
			return nil, c, fmt.Errorf("array at %d: read %d past block %d: %w", c.Offset(), read, arrLen, ErrCorrupt)
		}
	}
}

// ReadV2String reads a v2 scalar: a u16 length and that many bytes.
func ReadV2String(c buf.Cursor) (string, buf.Cursor, error) {
	s, next, err := c.LPString()
	if err != nil {
		return "", c, fmt.Errorf("string at %d: %w", c.Offset(), err)
	}
	return s, next, nil
}

// ReadV2Array reads a v2 array: a u16 block length, then (u16 len, bytes, NUL)
// entries until exactly the block has been consumed.
func ReadV2Array(c buf.Cursor) ([]string, buf.Cursor, error) {
	arrLen, next, err := c.U16()
	if err != nil {
		return nil, c, fmt.Errorf("array at %d: %w", c.Offset(), err)
	}
	start := next.Offset()
	var values []string
	for {
		var s string
		if s, next, err = next.LPString(); err != nil {
			return nil, c, fmt.Errorf("array at %d: %w", c.Offset(), err)
		}
		if next, err = next.Skip(1); err != nil {
			return nil, c, fmt.Errorf("array at %d: %w", c.Offset(), err)
		}
		values = append(values, s)
		read := next.Offset() - start
		if read == int(arrLen) {
			return values, next, nil
		}
		if read > int(arrLen) {
			return nil, c, fmt.Errorf("array at %d: read %d past block %d: %w", c.Offset(), read, arrLen, ErrCorrupt)
		}
	}
}
