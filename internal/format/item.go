package format

import (
	"fmt"

	"github.com/joshuapare/resindex/internal/buf"
	"github.com/joshuapare/resindex/pkg/types"
)

// Item is one decoded resource value under one qualifier directory.
type Item struct {
	Size   uint32
	Type   types.ResType
	ID     uint32
	Name   string
	Value  string
	Values []string
}

// IsArray reports whether the item carries a value list.
func (it *Item) IsArray() bool { return it.Type.IsArray() }

// HasParent reports whether the first value of a theme or pattern names its
// parent: such lists are (parent, k1, v1, k2, v2, ...) and so have odd length.
func (it *Item) HasParent() bool {
	if it.Type != types.THEME && it.Type != types.PATTERN {
		return false
	}
	return len(it.Values)%2 == 1
}

// Ref decodes Value as a "$type:id" reference.
func (it *Item) Ref() (types.ResType, uint32, bool) {
	return types.ParseRef(it.Value)
}

// DecodeV1Item reads a full v1 item (header, payload, name) at c. When the
// item's type is not admitted by mask, ok is false and nothing past the
// header is decoded.
func DecodeV1Item(c buf.Cursor, mask types.SelectMask) (item *Item, ok bool, err error) {
	h, next, err := DecodeItemHeader(c)
	if err != nil {
		return nil, false, err
	}
	it := &Item{Size: h.Size, Type: types.ResType(h.Type), ID: h.ID}
	if !mask.Selects(it.Type) {
		return nil, false, nil
	}
	if it.IsArray() {
		if it.Values, next, err = ReadV1Array(next); err != nil {
			return nil, false, fmt.Errorf("item %d value: %w", h.ID, err)
		}
	} else {
		if it.Value, next, err = ReadV1String(next); err != nil {
			return nil, false, fmt.Errorf("item %d value: %w", h.ID, err)
		}
	}
	if it.Name, _, err = ReadV1String(next); err != nil {
		return nil, false, fmt.Errorf("item %d name: %w", h.ID, err)
	}
	return it, true, nil
}

// DecodeV2Value reads the payload of a v2 value at offset into a new Item
// carrying the given identity.
func DecodeV2Value(b []byte, offset uint32, typ types.ResType, id uint32, name string) (*Item, error) {
	it := &Item{Type: typ, ID: id, Name: name}
	c := buf.NewCursor(b, int(offset))
	var err error
	if it.IsArray() {
		it.Values, _, err = ReadV2Array(c)
	} else {
		it.Value, _, err = ReadV2String(c)
	}
	if err != nil {
		return nil, fmt.Errorf("value of %s %d: %w", typ, id, err)
	}
	return it, nil
}
