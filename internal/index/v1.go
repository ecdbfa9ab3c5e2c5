package index

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/joshuapare/resindex/internal/buf"
	"github.com/joshuapare/resindex/internal/format"
)

// V1Index is the result of one eager v1 pass.
type V1Index struct {
	Header format.Header

	// Keys holds the directories decoded by this pass, in index order.
	Keys []*Key

	// Parsed holds the ordinals of Keys.
	Parsed *roaring.Bitmap

	// Locales and LimitKeys cover every key in the file, decoded or not.
	Locales   map[string]struct{}
	LimitKeys uint32
}

// ParseV1 decodes a v1 index. Keys are filtered with the device type,
// selected types, locale and update rules of opts; items of unselected
// types are dropped.
func ParseV1(b []byte, opts Options) (*V1Index, error) {
	opts.normalize()
	h, c, err := format.ParseHeaderV1(b)
	if err != nil {
		return nil, err
	}
	st := newKeyState(&opts)
	idx := &V1Index{Header: h, Parsed: roaring.New()}

	for ordinal := range h.KeyCount {
		rec, next, err := format.DecodeKey(c)
		if err != nil {
			return nil, fmt.Errorf("v1 key %d: %w", ordinal, err)
		}
		c = next
		k := st.addKey(ordinal, rec)
		if opts.Loaded != nil && opts.Loaded.Contains(ordinal) {
			continue
		}
		if st.skipKey(k) {
			opts.Logger.Debug("skip qualifier directory", "key", ordinal, "config", k.Config.String())
			continue
		}
		if k.Items, err = decodeV1Items(b, rec.Ref, &opts); err != nil {
			return nil, fmt.Errorf("v1 key %d (%s): %w", ordinal, k.Config, err)
		}
		idx.Keys = append(idx.Keys, k)
		idx.Parsed.Add(ordinal)
	}
	idx.Locales = st.locales
	idx.LimitKeys = st.limitKeys
	return idx, nil
}

func decodeV1Items(b []byte, idsOffset uint32, opts *Options) ([]*format.Item, error) {
	ids, err := format.DecodeIdList(buf.NewCursor(b, int(idsOffset)))
	if err != nil {
		return nil, err
	}
	items := make([]*format.Item, 0, len(ids))
	for _, p := range ids {
		it, ok, err := format.DecodeV1Item(buf.NewCursor(b, int(p.Offset)), opts.SelectedTypes)
		if err != nil {
			return nil, fmt.Errorf("id %d: %w", p.ID, err)
		}
		if !ok {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}
