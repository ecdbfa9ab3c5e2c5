package resource

import (
	"fmt"
	"maps"
	"time"

	"github.com/joshuapare/resindex/internal/format"
	"github.com/joshuapare/resindex/internal/index"
	"github.com/joshuapare/resindex/resconfig"
)

func (c *Container) loadV1(data []byte, cfg *resconfig.Configuration) error {
	idx, err := index.ParseV1(data, c.opts.indexOptions(cfg))
	if err != nil {
		return err
	}
	c.header = idx.Header
	c.locales = idx.Locales
	c.limitKeys = idx.LimitKeys
	c.byID, c.byName = c.mergeV1(c.byID, c.byName, idx.Keys, cfg)
	c.addQualifiers(idx.Keys)
	c.recordLoaded(idx, cfg)
	return nil
}

// mergeV1 returns copies of byID and byName with the items of keys appended.
// Entries that gain variants are replaced, never mutated, so sets handed out
// earlier stay valid.
func (c *Container) mergeV1(byID map[uint32]*entry, byName map[NameType]*entry,
	keys []*index.Key, cfg *resconfig.Configuration,
) (map[uint32]*entry, map[NameType]*entry) {
	byID, byName = maps.Clone(byID), maps.Clone(byName)
	fresh := make(map[uint32]*entry)
	for _, k := range keys {
		if k.Config.ColorMode() == resconfig.Dark {
			c.markDark(cfg)
		}
		for _, it := range k.Items {
			e, ok := fresh[it.ID]
			if !ok {
				old := byID[it.ID]
				e = readyEntry(it.Type, it.ID, it.Name, nil)
				if old != nil {
					e.set = append(VariantSet(nil), old.set...)
				}
				fresh[it.ID] = e
				byID[it.ID] = e
				byName[NameType{Name: it.Name, Type: it.Type}] = e
			}
			e.set = append(e.set, c.newVariant(k.Config, eager(it)))
			if isThemeSwitch(it) {
				c.themeSystem = true
			}
		}
	}
	return byID, byName
}

func (c *Container) recordLoaded(idx *index.V1Index, cfg *resconfig.Configuration) {
	c.loadedKeys.Or(idx.Parsed)
	if cfg.HasLocale() {
		c.loadedConfigs = append(c.loadedConfigs, cfg.Clone())
	}
}

// Update decodes the v1 qualifier directories that cfg's locale needs and
// earlier passes skipped. It is a no-op for v2, system and overlay
// containers, for a configuration without locale, and for a locale already
// loaded. It fails with ErrModified when the file changed since load. On
// error the container is unchanged.
func (c *Container) Update(cfg *resconfig.Configuration) error {
	if c.version == format.V2 || c.opts.System || c.opts.Overlay || cfg == nil || !cfg.HasLocale() {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, loaded := range c.loadedConfigs {
		if cfg.MatchLocale(loaded) {
			return nil
		}
	}

	data, modTime, release, err := c.opts.Source.ReadIndex(c.indexPath)
	if err != nil {
		return fmt.Errorf("update %s: %w", c.indexPath, err)
	}
	defer func() {
		if err := release(); err != nil {
			c.opts.Logger.Warn("release index", "path", c.indexPath, "err", err)
		}
	}()
	if !modTime.Equal(c.modTime) {
		return fmt.Errorf("update %s: loaded %s, file %s: %w",
			c.indexPath, c.modTime.Format(time.RFC3339Nano), modTime.Format(time.RFC3339Nano), ErrModified)
	}

	opts := c.opts.indexOptions(cfg)
	opts.IsUpdate = true
	opts.Loaded = c.loadedKeys
	idx, err := index.ParseV1(data, opts)
	if err != nil {
		return fmt.Errorf("update %s: %w", c.indexPath, err)
	}

	c.byID, c.byName = c.mergeV1(c.byID, c.byName, idx.Keys, cfg)
	c.addQualifiers(idx.Keys)
	c.recordLoaded(idx, cfg)
	c.opts.Logger.Debug("index updated", "path", c.indexPath, "config", cfg.String(), "keys", len(idx.Keys))
	return nil
}
