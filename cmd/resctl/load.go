package main

import (
	"fmt"

	"github.com/joshuapare/resindex/pkg/resmgr"
	"github.com/joshuapare/resindex/resconfig"
	"github.com/joshuapare/resindex/resource"
)

// openIndex loads path through reg with the device settings.
func openIndex(reg *resmgr.Registry, path string) (*resource.Container, *resconfig.Configuration, error) {
	cfg, err := settings.configuration()
	if err != nil {
		return nil, nil, err
	}
	mask, err := settings.selectMask()
	if err != nil {
		return nil, nil, err
	}
	printVerbose("Opening index: %s (%s)\n", path, cfg)
	c, err := reg.Load(path, cfg, resmgr.LoadOptions{
		System:        settings.System,
		SelectedTypes: mask,
		LoadAll:       settings.LoadAll,
		Device:        settings.Device,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open index: %w", err)
	}
	return c, cfg, nil
}
