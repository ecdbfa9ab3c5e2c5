/*
Package resmgr keeps loaded resource indexes alive for as long as anything
uses them and hands the same container to every caller that loads the same
unchanged file.

# Quick Start

Load an application index for a device:

	reg := resmgr.New(resmgr.Options{})
	cfg := resconfig.New()
	_ = cfg.SetLocaleString("zh-CN")

	c, err := reg.Load("/data/app/entry/resources.index", cfg, resmgr.LoadOptions{})
	if err != nil {
	    log.Fatal(err)
	}
	set, _ := c.VariantsByName("app_name", types.STRING)
	if v := set.Best(cfg, 0); v != nil {
	    item, _ := v.Item()
	    fmt.Println(item.Value)
	}

# Caching

The registry holds weak references keyed by index path. A cached container is
reused while it is alive and its file modification time is unchanged; a
container nobody references is collected and its entry dropped. Every Load
applies the device configuration with Container.Update, so a locale change
decodes the directories the new locale needs.

# Overlays

LoadOverlays loads a base index and overlay indexes built against it. Overlay
resources are re-keyed to the ids the base uses for the same (name, type):

	stack, err := reg.LoadOverlays(base, []string{themeIndex}, cfg, false)
	set, err := stack.Variants(id) // overlay variants first, then base

Removing an overlay from the stack makes lookups fall back to the base.
*/
package resmgr
