package resmgr

import (
	"fmt"
	"runtime"
	"sync"
	"weak"

	"github.com/joshuapare/resindex/resconfig"
	"github.com/joshuapare/resindex/resource"
)

// Registry caches containers by index path. Entries are weak: the registry
// never keeps a container alive on its own.
type Registry struct {
	opts Options

	mu      sync.RWMutex
	entries map[string]weak.Pointer[resource.Container]
}

// New returns an empty registry.
func New(opts Options) *Registry {
	opts.normalize()
	return &Registry{opts: opts, entries: make(map[string]weak.Pointer[resource.Container])}
}

// Load returns the container for the index at path, reading it only when no
// live container with the same modification time is cached. cfg is applied
// with Container.Update before returning. On error the cache is unchanged.
func (r *Registry) Load(path string, cfg *resconfig.Configuration, lo LoadOptions) (*resource.Container, error) {
	modTime, err := r.opts.Source.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if c := r.Get(path); c != nil && c.ModTime().Equal(modTime) {
		r.opts.Logger.Debug("container cache hit", "path", path)
		if err := c.Update(cfg); err != nil {
			return nil, err
		}
		return c, nil
	}

	fresh, err := resource.Open(path, cfg, r.containerOptions(lo))
	if err != nil {
		return nil, err
	}
	if err := fresh.Update(cfg); err != nil {
		_ = fresh.Close()
		return nil, err
	}
	c := r.PutAndGet(path, fresh)
	if c == fresh {
		return c, nil
	}
	_ = fresh.Close()
	if err := c.Update(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// PutAndGet stores c under path unless a live container with the same
// modification time is already cached, in which case that one is returned.
func (r *Registry) PutAndGet(path string, c *resource.Container) *resource.Container {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wp, ok := r.entries[path]; ok {
		if cur := wp.Value(); cur != nil && cur.ModTime().Equal(c.ModTime()) {
			return cur
		}
	}
	r.entries[path] = weak.Make(c)
	runtime.AddCleanup(c, r.prune, path)
	return c
}

// prune drops the entry of path once its container is gone.
func (r *Registry) prune(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wp, ok := r.entries[path]; ok && wp.Value() == nil {
		delete(r.entries, path)
	}
}

// Get returns the live container cached under path, or nil.
func (r *Registry) Get(path string) *resource.Container {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if wp, ok := r.entries[path]; ok {
		return wp.Value()
	}
	return nil
}

// Remove forgets path. The container itself stays usable by its holders.
func (r *Registry) Remove(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, path)
}

// PutPatchResource records patchPath on the live container cached under
// path. It reports false when there is none; nothing is loaded.
func (r *Registry) PutPatchResource(path, patchPath string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	wp, ok := r.entries[path]
	if !ok {
		return false
	}
	c := wp.Value()
	if c == nil {
		return false
	}
	c.SetPatch(patchPath)
	return true
}

// Len returns the number of cached paths, including entries whose container
// was collected but not pruned yet.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
