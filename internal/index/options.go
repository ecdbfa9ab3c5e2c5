// Package index decodes resource index files. ParseV1 eagerly decodes the
// qualifier directories a device needs; ParseV2 decodes only the id and name
// skeleton and leaves values to ResolveV2 and DecodeValue.
package index

import (
	"io"
	"log/slog"
	"slices"

	"github.com/RoaringBitmap/roaring"

	"github.com/joshuapare/resindex/internal/format"
	"github.com/joshuapare/resindex/pkg/types"
	"github.com/joshuapare/resindex/resconfig"
)

// DefaultDevice disables device type filtering.
const DefaultDevice = "default"

// Options controls which qualifier directories are decoded.
type Options struct {
	// Default is the device configuration. Nil means resconfig.New().
	Default *resconfig.Configuration

	// SelectedTypes restricts decoding to some resource types. Zero means all.
	SelectedTypes types.SelectMask

	// LoadAll decodes every matching directory regardless of locale.
	LoadAll bool

	// IsUpdate marks a re-parse after the device locale changed. Directories
	// without locale were decoded by the first pass and are skipped.
	IsUpdate bool

	// Loaded holds v1 key ordinals decoded by earlier passes.
	Loaded *roaring.Bitmap

	// Device is the running device type name. Empty means DefaultDevice.
	Device string

	// Supported lists extra device type names the application runs on.
	Supported []string

	Logger *slog.Logger
}

func (o *Options) normalize() {
	if o.Default == nil {
		o.Default = resconfig.New()
	}
	if o.SelectedTypes == 0 {
		o.SelectedTypes = types.SelectAll
	}
	if o.Device == "" {
		o.Device = DefaultDevice
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Key is one qualifier directory. ID is the key ordinal in v1 and the
// config id in v2.
type Key struct {
	ID     uint32
	Params []resconfig.QualifierParam
	Config *resconfig.Configuration

	// Items is filled by ParseV1 only.
	Items []*format.Item

	match bool
}

// keyState accumulates index-wide facts while keys are decoded.
type keyState struct {
	opts      *Options
	locales   map[string]struct{}
	limitKeys uint32
	hasDark   bool
}

func newKeyState(opts *Options) *keyState {
	return &keyState{opts: opts, locales: make(map[string]struct{})}
}

// addKey converts a raw key record, applying the device type filter and
// recording locale, limit-key and dark facts.
func (s *keyState) addKey(id uint32, rec format.KeyRecord) *Key {
	k := &Key{ID: id, match: true, Params: make([]resconfig.QualifierParam, 0, len(rec.Params))}
	for _, raw := range rec.Params {
		p := resconfig.NewQualifierParam(resconfig.KeyType(raw.Type), raw.Value)
		if p.Kind < resconfig.KeyTypeMax {
			s.limitKeys |= 1 << p.Kind
		}
		if p.Kind == resconfig.KeyDeviceType && !s.deviceAllowed(p.DeviceTypeName()) {
			k.match = false
		}
		if p.Kind == resconfig.KeyColorMode && p.Value == uint32(resconfig.Dark) {
			s.hasDark = true
		}
		k.Params = append(k.Params, p)
	}
	if loc, ok := resconfig.LocaleKey(k.Params); ok {
		s.locales[loc] = struct{}{}
	}
	k.Config = resconfig.FromParams(k.Params)
	return k
}

func (s *keyState) deviceAllowed(name string) bool {
	if s.opts.Device == DefaultDevice {
		return true
	}
	return name == s.opts.Device || slices.Contains(s.opts.Supported, name)
}

// skipKey reports whether a v1 key's items need not be decoded.
func (s *keyState) skipKey(k *Key) bool {
	o := s.opts
	if !k.match {
		return true
	}
	if o.SelectedTypes != types.SelectAll && !o.Default.Match(k.Config, false) {
		return true
	}
	if o.LoadAll {
		return false
	}
	if !k.Config.HasLocale() {
		return o.IsUpdate
	}
	return !o.Default.MatchLocale(k.Config)
}

// Locales returns the sorted locale keys of a set.
func Locales(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}
