package index

import (
	"fmt"

	"github.com/joshuapare/resindex/internal/buf"
	"github.com/joshuapare/resindex/internal/format"
	"github.com/joshuapare/resindex/pkg/types"
)

// Entry is one resource of the v2 skeleton. Offset locates its ResInfo.
type Entry struct {
	Type   types.ResType
	ID     uint32
	Offset uint32
	Name   string
}

// V2Index is the decoded v2 skeleton.
type V2Index struct {
	Header  format.Header
	Configs map[uint32]*Key
	// Entries are in index order: grouped by type section.
	Entries []Entry

	HasDarkRes bool
	Locales    map[string]struct{}
	LimitKeys  uint32
}

// ParseV2 decodes the keys and the ids block of a v2 index. Values are not
// touched. Entries of types outside opts.SelectedTypes are dropped.
func ParseV2(b []byte, opts Options) (*V2Index, error) {
	opts.normalize()
	h, c, err := format.ParseHeaderV2(b)
	if err != nil {
		return nil, err
	}
	st := newKeyState(&opts)
	idx := &V2Index{Header: h, Configs: make(map[uint32]*Key, room(h.KeyCount, c.Remaining(), format.KeyHeaderSize))}

	for i := range h.KeyCount {
		rec, next, err := format.DecodeKey(c)
		if err != nil {
			return nil, fmt.Errorf("v2 key %d: %w", i, err)
		}
		c = next
		if _, dup := idx.Configs[rec.Ref]; dup {
			return nil, fmt.Errorf("v2 key %d: duplicate config id %d: %w", i, rec.Ref, types.ErrCorrupt)
		}
		idx.Configs[rec.Ref] = st.addKey(rec.Ref, rec)
	}

	ih, c, err := format.DecodeIdsHeader(c, h.DataBlockOffset)
	if err != nil {
		return nil, fmt.Errorf("v2 ids header: %w", err)
	}
	idx.Entries = make([]Entry, 0, room(ih.IdCount, int(h.DataBlockOffset)-c.Offset(), format.ResItemSize))
	for range ih.TypeCount {
		ti, next, err := format.DecodeTypeInfo(c, h.DataBlockOffset, ih.IdCount, types.ResTypeCount)
		if err != nil {
			return nil, fmt.Errorf("v2 ids: %w", err)
		}
		c = next
		typ := types.ResType(ti.Type)
		keep := opts.SelectedTypes.Selects(typ)
		for range ti.Count {
			ri, next, err := format.DecodeResItem(c)
			if err != nil {
				return nil, fmt.Errorf("v2 %s entries: %w", typ, err)
			}
			c = next
			if keep {
				idx.Entries = append(idx.Entries, Entry{Type: typ, ID: ri.ID, Offset: ri.Offset, Name: ri.Name})
			}
		}
	}
	if c.Offset() != int(h.DataBlockOffset) {
		return nil, fmt.Errorf("v2 ids block ends at %d, data block at %d: %w",
			c.Offset(), h.DataBlockOffset, types.ErrCorrupt)
	}
	idx.HasDarkRes = st.hasDark
	idx.Locales = st.locales
	idx.LimitKeys = st.limitKeys
	opts.Logger.Debug("v2 skeleton decoded", "configs", len(idx.Configs), "entries", len(idx.Entries))
	return idx, nil
}

// room caps a declared record count by how many records of size n fit in
// avail bytes.
func room(declared uint32, avail, n int) int {
	fit := max(avail, 0) / n
	if uint64(declared) < uint64(fit) {
		return int(declared)
	}
	return fit
}

// ConfigValue is one qualified value location of a v2 entry.
type ConfigValue struct {
	Key    *Key
	Offset uint32
}

// ResolveV2 reads the ResInfo of e. When verifyID is set, the stored id must
// equal e.ID; overlay indexes skip the check because their ids are remapped.
func ResolveV2(b []byte, e Entry, configs map[uint32]*Key, verifyID bool) ([]ConfigValue, error) {
	ri, items, err := format.DecodeResInfo(b, e.Offset)
	if err != nil {
		return nil, fmt.Errorf("resolve %s %d: %w", e.Type, e.ID, err)
	}
	if verifyID && ri.ID != e.ID {
		return nil, fmt.Errorf("resolve %s %d: stored id %d: %w", e.Type, e.ID, ri.ID, types.ErrCorrupt)
	}
	out := make([]ConfigValue, 0, len(items))
	for _, ci := range items {
		k, ok := configs[ci.ConfigID]
		if !ok {
			return nil, fmt.Errorf("resolve %s %d: unknown config %d: %w", e.Type, e.ID, ci.ConfigID, types.ErrCorrupt)
		}
		out = append(out, ConfigValue{Key: k, Offset: ci.Offset})
	}
	return out, nil
}

// DecodeValue decodes the value at offset as an item of entry e.
func DecodeValue(b []byte, e Entry, offset uint32) (*format.Item, error) {
	if !buf.Has(b, int(offset), format.StrLenSize) {
		return nil, fmt.Errorf("value of %s %d at %d: %w", e.Type, e.ID, offset, types.ErrTruncated)
	}
	return format.DecodeV2Value(b, offset, e.Type, e.ID, e.Name)
}
