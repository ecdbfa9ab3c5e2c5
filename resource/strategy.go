package resource

import (
	"fmt"

	"github.com/joshuapare/resindex/internal/index"
)

// strategy is selected by the (system, overlay) flags of a container. The
// four kinds differ only in whether the stored v2 id is checked and which
// flags the variants carry; overlay ids are remapped, so overlays skip the
// check.
type strategy struct {
	system   bool
	overlay  bool
	verifyID bool
}

func strategyFor(system, overlay bool) strategy {
	return strategy{system: system, overlay: overlay, verifyID: !overlay}
}

// parseLimitPaths reads the ResInfo of e and builds one lazy variant per
// qualifier directory. The caller holds c.lazyMu.
func (s strategy) parseLimitPaths(c *Container, e *entry) (VariantSet, error) {
	c.dataMu.RLock()
	data := c.data
	if data == nil {
		c.dataMu.RUnlock()
		return nil, fmt.Errorf("%s %d: %w", e.typ, e.id, ErrClosed)
	}
	values, err := c.resolve(data, e.skel, c.configs, s.verifyID)
	c.dataMu.RUnlock()
	if err != nil {
		return nil, err
	}
	set := make(VariantSet, 0, len(values))
	for _, cv := range values {
		skel, offset := e.skel, cv.Offset
		set = append(set, c.newVariant(cv.Key.Config, lazy(func() (*Item, error) {
			return c.decodeAt(skel, offset)
		})))
	}
	c.opts.Logger.Debug("resolved resource", "path", c.indexPath, "type", e.typ, "id", e.id, "variants", len(set))
	return set, nil
}

func (c *Container) decodeAt(skel index.Entry, offset uint32) (*Item, error) {
	c.dataMu.RLock()
	defer c.dataMu.RUnlock()
	if c.data == nil {
		return nil, fmt.Errorf("%s %d: %w", skel.Type, skel.ID, ErrClosed)
	}
	return c.decode(c.data, skel, offset)
}
