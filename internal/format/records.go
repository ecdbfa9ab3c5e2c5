package format

import (
	"fmt"

	"github.com/joshuapare/resindex/internal/buf"
)

// KeyParam is one raw qualifier param: a key type and its encoded value.
type KeyParam struct {
	Type  uint32
	Value uint32
}

// KeyRecord is a decoded qualifier record. Ref is the id-list offset in v1 and
// the qualifier config id in v2.
type KeyRecord struct {
	Ref    uint32
	Params []KeyParam
}

// DecodeKey reads a KEYS record and its params.
func DecodeKey(c buf.Cursor) (KeyRecord, buf.Cursor, error) {
	var k KeyRecord
	tag, next, err := c.Tag()
	if err != nil {
		return k, c, fmt.Errorf("key at %d: %w", c.Offset(), err)
	}
	if tag != KeysTag {
		return k, c, fmt.Errorf("key at %d: got %q: %w", c.Offset(), tag[:], ErrTagMismatch)
	}
	if k.Ref, next, err = next.U32(); err != nil {
		return k, c, fmt.Errorf("key at %d: %w", c.Offset(), err)
	}
	count, next, err := next.U32()
	if err != nil {
		return k, c, fmt.Errorf("key at %d: %w", c.Offset(), err)
	}
	if _, err := buf.CheckListBounds(next.Len(), next.Offset(), int(count), KeyParamSize); err != nil {
		return k, c, fmt.Errorf("key params at %d: %w", next.Offset(), err)
	}
	k.Params = make([]KeyParam, 0, count)
	for range count {
		var p KeyParam
		p.Type, next, _ = next.U32()
		p.Value, next, _ = next.U32()
		k.Params = append(k.Params, p)
	}
	return k, next, nil
}

// IdParam is one v1 (id, item offset) pair.
type IdParam struct {
	ID     uint32
	Offset uint32
}

// DecodeIdList reads a v1 IDSS block.
func DecodeIdList(c buf.Cursor) ([]IdParam, error) {
	tag, next, err := c.Tag()
	if err != nil {
		return nil, fmt.Errorf("id list at %d: %w", c.Offset(), err)
	}
	if tag != IdsTag {
		return nil, fmt.Errorf("id list at %d: got %q: %w", c.Offset(), tag[:], ErrTagMismatch)
	}
	count, next, err := next.U32()
	if err != nil {
		return nil, fmt.Errorf("id list at %d: %w", c.Offset(), err)
	}
	if _, err := buf.CheckListBounds(next.Len(), next.Offset(), int(count), IdParamSize); err != nil {
		return nil, fmt.Errorf("id params at %d: %w", next.Offset(), err)
	}
	out := make([]IdParam, 0, count)
	for range count {
		var p IdParam
		p.ID, next, _ = next.U32()
		p.Offset, next, _ = next.U32()
		out = append(out, p)
	}
	return out, nil
}

// ItemHeader is the fixed prefix of a v1 item.
type ItemHeader struct {
	Size uint32
	Type uint32
	ID   uint32
}

// DecodeItemHeader reads the 12-byte v1 item header.
func DecodeItemHeader(c buf.Cursor) (ItemHeader, buf.Cursor, error) {
	var h ItemHeader
	s, next, err := c.Bytes(ItemHeaderSize)
	if err != nil {
		return h, c, fmt.Errorf("item at %d: %w", c.Offset(), err)
	}
	h.Size = buf.U32LE(s)
	h.Type = buf.U32LE(s[4:])
	h.ID = buf.U32LE(s[8:])
	return h, next, nil
}

// IdsHeader is the v2 ids block header.
type IdsHeader struct {
	Length    uint32
	TypeCount uint32
	IdCount   uint32
}

// DecodeIdsHeader reads the v2 ids block header and checks it against the
// data block boundary.
func DecodeIdsHeader(c buf.Cursor, dataBlockOffset uint32) (IdsHeader, buf.Cursor, error) {
	var h IdsHeader
	start := c.Offset()
	tag, next, err := c.Tag()
	if err != nil {
		return h, c, fmt.Errorf("ids header at %d: %w", start, err)
	}
	if h.Length, next, err = next.U32(); err != nil {
		return h, c, fmt.Errorf("ids header at %d: %w", start, err)
	}
	if h.TypeCount, next, err = next.U32(); err != nil {
		return h, c, fmt.Errorf("ids header at %d: %w", start, err)
	}
	if h.IdCount, next, err = next.U32(); err != nil {
		return h, c, fmt.Errorf("ids header at %d: %w", start, err)
	}
	if tag != IdsTag {
		return h, c, fmt.Errorf("ids header at %d: got %q: %w", start, tag[:], ErrTagMismatch)
	}
	if uint64(start)+uint64(h.Length) > uint64(dataBlockOffset) || h.TypeCount == 0 || h.IdCount == 0 {
		return h, c, fmt.Errorf("ids header at %d: length=%d types=%d ids=%d: %w",
			start, h.Length, h.TypeCount, h.IdCount, ErrCorrupt)
	}
	return h, next, nil
}

// TypeInfo heads one v2 per-type section.
type TypeInfo struct {
	Type   uint32
	Length uint32
	Count  uint32
}

// DecodeTypeInfo reads a type section header and validates it.
func DecodeTypeInfo(c buf.Cursor, dataBlockOffset, idCount, typeLimit uint32) (TypeInfo, buf.Cursor, error) {
	var t TypeInfo
	s, next, err := c.Bytes(TypeInfoSize)
	if err != nil {
		return t, c, fmt.Errorf("type info at %d: %w", c.Offset(), err)
	}
	t.Type = buf.U32LE(s)
	t.Length = buf.U32LE(s[4:])
	t.Count = buf.U32LE(s[8:])
	if t.Type >= typeLimit || uint64(c.Offset())+uint64(t.Length) > uint64(dataBlockOffset) || t.Count > idCount {
		return t, c, fmt.Errorf("type info at %d: type=%d length=%d count=%d: %w",
			c.Offset(), t.Type, t.Length, t.Count, ErrCorrupt)
	}
	return t, next, nil
}

// ResItem is one v2 skeleton entry.
type ResItem struct {
	ID     uint32
	Offset uint32
	Name   string
}

// DecodeResItem reads an entry header and its name.
func DecodeResItem(c buf.Cursor) (ResItem, buf.Cursor, error) {
	var r ResItem
	s, next, err := c.Bytes(ResItemSize)
	if err != nil {
		return r, c, fmt.Errorf("res item at %d: %w", c.Offset(), err)
	}
	r.ID = buf.U32LE(s)
	r.Offset = buf.U32LE(s[4:])
	nameLen := buf.U32LE(s[8:])
	if r.Name, next, err = next.String(int(nameLen)); err != nil {
		return r, c, fmt.Errorf("res item name at %d: %w", c.Offset(), err)
	}
	return r, next, nil
}

// ResInfo is the record found at a v2 entry's offset.
type ResInfo struct {
	ID         uint32
	Length     uint32
	ValueCount uint32
}

// ConfigItem binds one value offset to a qualifier config id.
type ConfigItem struct {
	ConfigID uint32
	Offset   uint32
}

// DecodeResInfo reads a ResInfo record and all of its config items.
func DecodeResInfo(b []byte, offset uint32) (ResInfo, []ConfigItem, error) {
	var ri ResInfo
	c := buf.NewCursor(b, int(offset))
	s, next, err := c.Bytes(ResInfoSize)
	if err != nil {
		return ri, nil, fmt.Errorf("res info at %d: %w", offset, err)
	}
	ri.ID = buf.U32LE(s)
	ri.Length = buf.U32LE(s[4:])
	ri.ValueCount = buf.U32LE(s[8:])
	if _, err := buf.CheckListBounds(len(b), next.Offset(), int(ri.ValueCount), ConfigItemSize); err != nil {
		return ri, nil, fmt.Errorf("config items at %d: %w", next.Offset(), err)
	}
	items := make([]ConfigItem, 0, ri.ValueCount)
	for range ri.ValueCount {
		var ci ConfigItem
		ci.ConfigID, next, _ = next.U32()
		ci.Offset, next, _ = next.U32()
		items = append(items, ci)
	}
	return ri, items, nil
}
