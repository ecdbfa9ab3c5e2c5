package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/resindex/internal/buf"
)

// Header is the decoded index header. DataBlockOffset is zero for v1.
type Header struct {
	Version         string
	Length          uint32
	KeyCount        uint32
	DataBlockOffset uint32
}

// ParseHeaderV1 decodes the 136-byte v1 header and returns a cursor positioned
// at the first key.
func ParseHeaderV1(b []byte) (Header, buf.Cursor, error) {
	c := buf.NewCursor(b, 0)
	h, c, err := parseCommon(c)
	if err != nil {
		return Header{}, c, fmt.Errorf("v1 header: %w", err)
	}
	if h.KeyCount == 0 || h.Length == 0 {
		return Header{}, c, fmt.Errorf("v1 header: keys=%d length=%d: %w", h.KeyCount, h.Length, ErrEmptyIndex)
	}
	return h, c, nil
}

// ParseHeaderV2 decodes the 140-byte v2 header. The data block offset must lie
// within b.
func ParseHeaderV2(b []byte) (Header, buf.Cursor, error) {
	c := buf.NewCursor(b, 0)
	h, c, err := parseCommon(c)
	if err != nil {
		return Header{}, c, fmt.Errorf("v2 header: %w", err)
	}
	h.DataBlockOffset, c, err = c.U32()
	if err != nil {
		return Header{}, c, fmt.Errorf("v2 header: %w", err)
	}
	if h.KeyCount == 0 || h.Length == 0 {
		return Header{}, c, fmt.Errorf("v2 header: keys=%d length=%d: %w", h.KeyCount, h.Length, ErrEmptyIndex)
	}
	if int(h.DataBlockOffset) > len(b) {
		return Header{}, c, fmt.Errorf("v2 header: data block %d > len %d: %w", h.DataBlockOffset, len(b), ErrTruncated)
	}
	return h, c, nil
}

func parseCommon(c buf.Cursor) (Header, buf.Cursor, error) {
	var h Header
	raw, c, err := c.Bytes(VersionLen)
	if err != nil {
		return h, c, err
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	h.Version = string(raw)
	if h.Length, c, err = c.U32(); err != nil {
		return h, c, err
	}
	if h.KeyCount, c, err = c.U32(); err != nil {
		return h, c, err
	}
	return h, c, nil
}

// DetectVersion sniffs the layout by looking for the first KEYS tag right after
// each header size. Anything else is reported as V1 so the v1 decoder produces
// the precise failure.
func DetectVersion(b []byte) Version {
	if hasTagAt(b, HeaderV1Size, KeysTag) {
		return V1
	}
	if hasTagAt(b, HeaderV2Size, KeysTag) {
		return V2
	}
	return V1
}

func hasTagAt(b []byte, off int, tag [4]byte) bool {
	s, ok := buf.Slice(b, off, len(tag))
	return ok && bytes.Equal(s, tag[:])
}
