package resmgr

import (
	"io"
	"log/slog"

	"github.com/joshuapare/resindex/pkg/types"
	"github.com/joshuapare/resindex/resource"
)

// Options configures a Registry.
type Options struct {
	// Source reads index files. Default: resource.MappedFile.
	Source resource.Source

	// Supported lists extra device type names the application runs on.
	Supported []string

	Logger *slog.Logger
}

func (o *Options) normalize() {
	if o.Source == nil {
		o.Source = resource.MappedFile{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// LoadOptions controls how one index is loaded.
type LoadOptions struct {
	System  bool
	Overlay bool

	// SelectedTypes restricts the decoded resource types. Zero means all.
	SelectedTypes types.SelectMask

	// LoadAll decodes every v1 qualifier directory up front.
	LoadAll bool

	// Device is the running device type name ("phone", "tablet", ...).
	// Empty disables device type filtering.
	Device string
}

func (r *Registry) containerOptions(lo LoadOptions) resource.Options {
	return resource.Options{
		System:        lo.System,
		Overlay:       lo.Overlay,
		SelectedTypes: lo.SelectedTypes,
		LoadAll:       lo.LoadAll,
		Device:        lo.Device,
		Supported:     r.opts.Supported,
		Source:        r.opts.Source,
		Logger:        r.opts.Logger,
	}
}
