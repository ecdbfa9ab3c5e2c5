package resmgr

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/joshuapare/resindex/pkg/types"
	"github.com/joshuapare/resindex/resconfig"
	"github.com/joshuapare/resindex/resource"
)

// LoadOverlays loads base and every overlay, then re-keys each overlay to
// the ids of base. Any load failure fails the whole call.
func (r *Registry) LoadOverlays(base string, overlays []string, cfg *resconfig.Configuration, system bool) (*OverlayStack, error) {
	b, err := r.Load(base, cfg, LoadOptions{System: system})
	if err != nil {
		return nil, fmt.Errorf("overlay base: %w", err)
	}
	stack := &OverlayStack{base: b}
	for _, path := range overlays {
		if path == base {
			continue
		}
		o, err := r.Load(path, cfg, LoadOptions{System: system, Overlay: true})
		if err != nil {
			return nil, fmt.Errorf("overlay: %w", err)
		}
		stack.overlays = append(stack.overlays, o)
	}

	mapping := b.NameTypeIndex()
	for _, o := range stack.overlays {
		o.ApplyOverlay(mapping)
	}
	r.opts.Logger.Debug("overlays applied", "base", base, "overlays", len(stack.overlays), "ids", len(mapping))
	return stack, nil
}

// OverlayStack is a base container with the overlays spliced onto it.
type OverlayStack struct {
	base *resource.Container

	mu       sync.RWMutex
	overlays []*resource.Container
}

func (s *OverlayStack) Base() *resource.Container { return s.base }

// Overlays returns the overlays in load order.
func (s *OverlayStack) Overlays() []*resource.Container {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.overlays)
}

// Containers maps every index path of the stack to its container.
func (s *OverlayStack) Containers() map[string]*resource.Container {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[string]*resource.Container{s.base.IndexPath(): s.base}
	for _, o := range s.overlays {
		out[o.IndexPath()] = o
	}
	return out
}

// RemoveOverlay drops the overlay loaded from path. It reports whether one
// was found.
func (s *OverlayStack) RemoveOverlay(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.overlays)
	s.overlays = slices.DeleteFunc(s.overlays, func(c *resource.Container) bool {
		return c.IndexPath() == path
	})
	return len(s.overlays) != n
}

// Variants lists the overlay variants of id before the base variants.
func (s *OverlayStack) Variants(id uint32) (resource.VariantSet, error) {
	return s.collect(func(c *resource.Container) (resource.VariantSet, error) {
		return c.Variants(id)
	})
}

// VariantsByName is Variants keyed by name and type.
func (s *OverlayStack) VariantsByName(name string, typ types.ResType) (resource.VariantSet, error) {
	return s.collect(func(c *resource.Container) (resource.VariantSet, error) {
		return c.VariantsByName(name, typ)
	})
}

func (s *OverlayStack) collect(get func(*resource.Container) (resource.VariantSet, error)) (resource.VariantSet, error) {
	s.mu.RLock()
	containers := append(slices.Clone(s.overlays), s.base)
	s.mu.RUnlock()

	var out resource.VariantSet
	var notFound error
	for _, c := range containers {
		set, err := get(c)
		switch {
		case errors.Is(err, types.ErrNotFound):
			notFound = err
		case err != nil:
			return nil, err
		default:
			out = append(out, set...)
		}
	}
	if len(out) == 0 && notFound != nil {
		return nil, notFound
	}
	return out, nil
}
