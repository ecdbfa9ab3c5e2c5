package resource

import (
	"sync"

	"github.com/joshuapare/resindex/internal/format"
	"github.com/joshuapare/resindex/pkg/types"
	"github.com/joshuapare/resindex/resconfig"
)

// Item is one decoded resource value.
type Item = format.Item

// Variant is one value of a resource under one qualifier directory. The
// value of a v2 variant is decoded on first use, at most once.
type Variant struct {
	config       *resconfig.Configuration
	overlay      bool
	system       bool
	indexPath    string
	resourcePath string

	item func() (*Item, error)
}

func (v *Variant) Config() *resconfig.Configuration { return v.config }
func (v *Variant) IsOverlay() bool                  { return v.overlay }
func (v *Variant) IsSystem() bool                   { return v.system }
func (v *Variant) IndexPath() string                { return v.indexPath }
func (v *Variant) ResourcePath() string             { return v.resourcePath }

// Item returns the decoded value.
func (v *Variant) Item() (*Item, error) { return v.item() }

func eager(it *Item) func() (*Item, error) {
	return func() (*Item, error) { return it, nil }
}

func lazy(decode func() (*Item, error)) func() (*Item, error) {
	return sync.OnceValues(decode)
}

// VariantSet is the ordered list of variants of one id or one (name, type).
// Order is index order.
type VariantSet []*Variant

// Best returns the variant that fits request, or nil when none matches.
// density is the physical screen density in dpi, 0 for the request's bucket.
// Among equally suitable variants the first wins.
func (s VariantSet) Best(request *resconfig.Configuration, density uint32) *Variant {
	var best *Variant
	for _, v := range s {
		if !request.Match(v.config, true) {
			continue
		}
		if best == nil || !best.config.IsMoreSuitable(v.config, request, density) {
			best = v
		}
	}
	return best
}

// NameType keys resources by name and type.
type NameType struct {
	Name string
	Type types.ResType
}
