// Package resource holds the in-memory view of one resource index: every
// resource id and (name, type) mapped to its qualified variants.
package resource

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring"

	"github.com/joshuapare/resindex/internal/format"
	"github.com/joshuapare/resindex/internal/index"
	"github.com/joshuapare/resindex/pkg/types"
	"github.com/joshuapare/resindex/resconfig"
)

// Options controls how a container is loaded.
type Options struct {
	System  bool
	Overlay bool

	// SelectedTypes restricts the decoded resource types. Zero means all.
	SelectedTypes types.SelectMask

	// LoadAll decodes every v1 qualifier directory instead of only those
	// matching the device locale.
	LoadAll bool

	// Device and Supported filter device type directories; see index.Options.
	Device    string
	Supported []string

	// Source reads the index. Nil means MappedFile.
	Source Source

	Logger *slog.Logger
}

func (o *Options) normalize() {
	if o.Source == nil {
		o.Source = MappedFile{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

func (o *Options) indexOptions(cfg *resconfig.Configuration) index.Options {
	return index.Options{
		Default:       cfg,
		SelectedTypes: o.SelectedTypes,
		LoadAll:       o.LoadAll,
		Device:        o.Device,
		Supported:     o.Supported,
		Logger:        o.Logger,
	}
}

// entry is the variant set of one resource. v2 entries start unresolved and
// are filled by the container's strategy on first access.
type entry struct {
	typ  types.ResType
	id   uint32
	name string

	ready atomic.Bool
	set   VariantSet

	// v2 only
	skel index.Entry
}

func readyEntry(typ types.ResType, id uint32, name string, set VariantSet) *entry {
	e := &entry{typ: typ, id: id, name: name, set: set}
	e.ready.Store(true)
	return e
}

// Container is one loaded resource index.
type Container struct {
	indexPath    string
	resourcePath string
	modTime      time.Time
	version      format.Version
	header       format.Header
	opts         Options

	mu          sync.RWMutex
	byID        map[uint32]*entry
	byName      map[NameType]*entry
	locales     map[string]struct{}
	qualifiers  map[string]struct{}
	limitKeys   uint32
	hasDarkRes  bool
	themeSystem bool
	patchPath   string
	isPatch     bool

	// v1 update state
	loadedKeys    *roaring.Bitmap
	loadedConfigs []*resconfig.Configuration

	// v2 lazy state
	lazyMu   sync.Mutex
	strategy strategy
	configs  map[uint32]*index.Key
	dataMu   sync.RWMutex
	data     []byte
	mapping  *mapping

	resolve func([]byte, index.Entry, map[uint32]*index.Key, bool) ([]index.ConfigValue, error)
	decode  func([]byte, index.Entry, uint32) (*Item, error)
}

var (
	// ErrClosed is returned when a v2 value is decoded after Close.
	ErrClosed = errors.New("resource: container closed")

	// ErrModified is returned by Update when the index file changed after
	// the container was loaded. Reload the path instead.
	ErrModified = errors.New("resource: index modified since load")
)

// mapping owns index bytes that must outlive every lazy variant.
type mapping struct {
	once    sync.Once
	release func() error
	err     error
}

func (m *mapping) close() error {
	m.once.Do(func() { m.err = m.release() })
	return m.err
}

// Open reads the index at path through opts.Source and builds a container
// for the device configuration cfg. cfg may have its dark resource flag set
// when the index carries dark variants.
func Open(path string, cfg *resconfig.Configuration, opts Options) (*Container, error) {
	opts.normalize()
	data, modTime, release, err := opts.Source.ReadIndex(path)
	if err != nil {
		return nil, err
	}
	c, err := build(path, modTime, data, release, cfg, opts)
	if err != nil {
		_ = release()
		return nil, err
	}
	return c, nil
}

func build(path string, modTime time.Time, data []byte, release func() error,
	cfg *resconfig.Configuration, opts Options,
) (*Container, error) {
	root, err := resourceRoot(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = resconfig.New()
	}
	c := &Container{
		indexPath:    path,
		resourcePath: root,
		modTime:      modTime,
		opts:         opts,
		byID:         make(map[uint32]*entry),
		byName:       make(map[NameType]*entry),
		qualifiers:   make(map[string]struct{}),
		loadedKeys:   roaring.New(),
		strategy:     strategyFor(opts.System, opts.Overlay),
		resolve:      index.ResolveV2,
		decode:       index.DecodeValue,
	}
	c.version = format.DetectVersion(data)
	switch c.version {
	case format.V2:
		if err := c.loadV2(data, cfg); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		c.mapping = &mapping{release: release}
		runtime.AddCleanup(c, func(m *mapping) {
			if err := m.close(); err != nil {
				opts.Logger.Warn("release index mapping", "path", path, "err", err)
			}
		}, c.mapping)
	default:
		if err := c.loadV1(data, cfg); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		// v1 values are copied out; the bytes are no longer needed
		if err := release(); err != nil {
			opts.Logger.Warn("release index", "path", path, "err", err)
		}
	}
	opts.Logger.Debug("index loaded", "path", path, "version", c.version, "ids", len(c.byID),
		"system", opts.System, "overlay", opts.Overlay)
	return c, nil
}

// Close releases the v2 mapping. Values not decoded yet fail with ErrClosed
// afterwards. It is safe to call more than once and is a no-op for v1.
func (c *Container) Close() error {
	if c.mapping == nil {
		return nil
	}
	c.dataMu.Lock()
	defer c.dataMu.Unlock()
	c.data = nil
	return c.mapping.close()
}

func (c *Container) IndexPath() string       { return c.indexPath }
func (c *Container) ResourcePath() string    { return c.resourcePath }
func (c *Container) ModTime() time.Time      { return c.modTime }
func (c *Container) Version() format.Version { return c.version }
func (c *Container) Header() format.Header   { return c.header }
func (c *Container) IsSystem() bool          { return c.opts.System }
func (c *Container) IsOverlay() bool         { return c.opts.Overlay }

func (c *Container) HasDarkRes() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hasDarkRes
}

// IsThemeSystemResEnabled reports whether a system_color_change resource
// with value "true" exists.
func (c *Container) IsThemeSystemResEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.themeSystem
}

// LimitKeys is the bitmask of qualifier key types used anywhere in the index.
func (c *Container) LimitKeys() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.limitKeys
}

// Locales returns the sorted locales of the index. System containers only
// report them when includeSystem is set; overlays never do.
func (c *Container) Locales(includeSystem bool) []string {
	if c.opts.Overlay && (!c.opts.System || c.version == format.V2) {
		return nil
	}
	if c.opts.System && !includeSystem {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return index.Locales(c.locales)
}

// Qualifiers returns the sorted names of the qualifier directories loaded
// so far.
func (c *Container) Qualifiers() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return index.Locales(c.qualifiers)
}

// IDs returns the id space of the container.
func (c *Container) IDs() *roaring.Bitmap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	bm := roaring.New()
	for id := range c.byID {
		bm.Add(id)
	}
	return bm
}

// Variants returns the variants of id. The error is types.ErrNotFound when
// the id is unknown, or a decode error for a corrupt v2 record.
func (c *Container) Variants(id uint32) (VariantSet, error) {
	c.mu.RLock()
	e, ok := c.byID[id]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("id %d: %w", id, types.ErrNotFound)
	}
	return c.variants(e)
}

// VariantsByName returns the variants of the resource name of type typ.
func (c *Container) VariantsByName(name string, typ types.ResType) (VariantSet, error) {
	c.mu.RLock()
	e, ok := c.byName[NameType{Name: name, Type: typ}]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", typ, name, types.ErrNotFound)
	}
	return c.variants(e)
}

func (c *Container) variants(e *entry) (VariantSet, error) {
	if e.ready.Load() {
		return e.set, nil
	}
	c.lazyMu.Lock()
	defer c.lazyMu.Unlock()
	if e.ready.Load() {
		return e.set, nil
	}
	set, err := c.strategy.parseLimitPaths(c, e)
	if err != nil {
		c.opts.Logger.Warn("resolve resource", "path", c.indexPath, "type", e.typ, "id", e.id, "err", err)
		return nil, err
	}
	e.set = set
	e.ready.Store(true)
	return set, nil
}

// NameTypeIndex maps every (name, type) of the container to its id.
func (c *Container) NameTypeIndex() map[NameType]uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[NameType]uint32, len(c.byID))
	for id, e := range c.byID {
		out[NameType{Name: e.name, Type: e.typ}] = id
	}
	return out
}

// SetPatch records the index path of a patch container for this one.
func (c *Container) SetPatch(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patchPath = path
	c.isPatch = path != ""
}

func (c *Container) PatchPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.patchPath
}

func (c *Container) IsPatch() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isPatch
}

// ApplyOverlay re-keys the resources of an overlay container to the ids the
// base container uses for the same (name, type). Resources the base does not
// have drop out of the id map but stay reachable by name.
func (c *Container) ApplyOverlay(base map[NameType]uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	byID := make(map[uint32]*entry, len(c.byID))
	byName := maps.Clone(c.byName)
	for _, e := range c.byID {
		key := NameType{Name: e.name, Type: e.typ}
		newID, ok := base[key]
		if !ok {
			continue
		}
		ne := c.remap(e, newID)
		byID[newID] = ne
		byName[key] = ne
	}
	c.byID = byID
	c.byName = byName
}

// remap returns a copy of e under newID with overlay variants. A resolved
// v2 entry is reset so its values decode with the new id.
func (c *Container) remap(e *entry, newID uint32) *entry {
	if c.version == format.V2 {
		ne := &entry{typ: e.typ, id: newID, name: e.name, skel: e.skel}
		ne.skel.ID = newID
		return ne
	}
	set := make(VariantSet, 0, len(e.set))
	for _, v := range e.set {
		nv := *v
		nv.overlay = true
		if it, err := v.Item(); err == nil {
			cp := *it
			cp.ID = newID
			nv.item = eager(&cp)
		}
		set = append(set, &nv)
	}
	return readyEntry(e.typ, newID, e.name, set)
}

// newVariant builds a variant with the container's flags.
func (c *Container) newVariant(cfg *resconfig.Configuration, item func() (*Item, error)) *Variant {
	return &Variant{
		config:       cfg,
		overlay:      c.strategy.overlay,
		system:       c.strategy.system,
		indexPath:    c.indexPath,
		resourcePath: c.resourcePath,
		item:         item,
	}
}

func (c *Container) addQualifiers(keys []*index.Key) {
	for _, k := range keys {
		c.qualifiers[k.Config.String()] = struct{}{}
	}
}

// markDark records dark variants. The first one makes the device
// configuration dark aware unless this is a system or overlay container.
func (c *Container) markDark(cfg *resconfig.Configuration) {
	c.hasDarkRes = true
	if c.opts.System || c.opts.Overlay || cfg.AppDarkRes() {
		return
	}
	cfg.SetAppDarkRes(true)
}

func isThemeSwitch(it *Item) bool {
	return it.Name == "system_color_change" &&
		(it.Type == types.STRING || it.Type == types.BOOLEAN) &&
		it.Value == "true"
}
