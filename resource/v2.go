package resource

import (
	"github.com/joshuapare/resindex/internal/index"
	"github.com/joshuapare/resindex/pkg/types"
	"github.com/joshuapare/resindex/resconfig"
)

func (c *Container) loadV2(data []byte, cfg *resconfig.Configuration) error {
	idx, err := index.ParseV2(data, c.opts.indexOptions(cfg))
	if err != nil {
		return err
	}
	c.header = idx.Header
	c.locales = idx.Locales
	c.limitKeys = idx.LimitKeys
	c.configs = idx.Configs
	c.data = data

	for _, e := range idx.Entries {
		ent := &entry{typ: e.Type, id: e.ID, name: e.Name, skel: e}
		c.byID[e.ID] = ent
		c.byName[NameType{Name: e.Name, Type: e.Type}] = ent
	}
	keys := make([]*index.Key, 0, len(idx.Configs))
	for _, k := range idx.Configs {
		keys = append(keys, k)
	}
	c.addQualifiers(keys)
	if idx.HasDarkRes {
		c.markDark(cfg)
	}
	c.themeSystem = c.detectThemeSwitch()
	return nil
}

// detectThemeSwitch resolves the system_color_change resources, the only
// values a v2 container decodes while loading.
func (c *Container) detectThemeSwitch() bool {
	for _, typ := range []types.ResType{types.STRING, types.BOOLEAN} {
		e, ok := c.byName[NameType{Name: "system_color_change", Type: typ}]
		if !ok {
			continue
		}
		set, err := c.variants(e)
		if err != nil {
			continue
		}
		for _, v := range set {
			if it, err := v.Item(); err == nil && isThemeSwitch(it) {
				return true
			}
		}
	}
	return false
}
