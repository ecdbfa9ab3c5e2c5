package resource

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/resindex/internal/format"
	"github.com/joshuapare/resindex/internal/index"
	"github.com/joshuapare/resindex/internal/testutil"
	"github.com/joshuapare/resindex/internal/testutil/indexgen"
	"github.com/joshuapare/resindex/pkg/types"
	"github.com/joshuapare/resindex/resconfig"
)

func fixture() *indexgen.Index {
	return &indexgen.Index{Dirs: []indexgen.Dir{
		{Values: []indexgen.Value{
			indexgen.String(1, "app_name", "App"),
			{Type: types.COLOR, ID: 2, Name: "bg", Value: "#FFFFFF"},
			{Type: types.STRINGARRAY, ID: 3, Name: "days", Values: []string{"Mon", "Tue"}},
		}},
		{
			Params: []resconfig.QualifierParam{indexgen.Lang("zh"), indexgen.Region("CN")},
			Values: []indexgen.Value{indexgen.String(1, "app_name", "应用")},
		},
		{
			Params: []resconfig.QualifierParam{indexgen.Lang("en"), indexgen.Region("US")},
			Values: []indexgen.Value{indexgen.String(1, "app_name", "App US")},
		},
		{
			Params: []resconfig.QualifierParam{indexgen.Color(resconfig.Dark)},
			Values: []indexgen.Value{{Type: types.COLOR, ID: 2, Name: "bg", Value: "#000000"}},
		},
		{
			Params: []resconfig.QualifierParam{indexgen.Device(resconfig.DeviceTablet)},
			Values: []indexgen.Value{indexgen.String(1, "app_name", "Tablet App")},
		},
	}}
}

var formats = []struct {
	name   string
	render func(*indexgen.Index) []byte
	want   format.Version
}{
	{"v1", (*indexgen.Index).V1, format.V1},
	{"v2", (*indexgen.Index).V2, format.V2},
}

func device(t *testing.T, locale string) *resconfig.Configuration {
	t.Helper()
	c := resconfig.New()
	if locale != "" {
		require.NoError(t, c.SetLocaleString(locale))
	}
	return c
}

func open(t *testing.T, data []byte, cfg *resconfig.Configuration, opts Options) *Container {
	t.Helper()
	if opts.Source == nil {
		opts.Source = ReadFile{}
	}
	c, err := Open(testutil.WriteIndex(t, "entry", data), cfg, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func values(t *testing.T, set VariantSet) []string {
	t.Helper()
	out := make([]string, 0, len(set))
	for _, v := range set {
		it, err := v.Item()
		require.NoError(t, err)
		out = append(out, it.Value)
	}
	return out
}

func best(t *testing.T, c *Container, id uint32, request *resconfig.Configuration) string {
	t.Helper()
	set, err := c.Variants(id)
	require.NoError(t, err)
	v := set.Best(request, 0)
	require.NotNil(t, v, "no variant of %d for %s", id, request)
	it, err := v.Item()
	require.NoError(t, err)
	return it.Value
}

type countingSource struct {
	Source
	reads atomic.Int32
}

func (s *countingSource) ReadIndex(path string) ([]byte, time.Time, func() error, error) {
	s.reads.Add(1)
	return s.Source.ReadIndex(path)
}

func TestOpen_BestVariant(t *testing.T) {
	for _, f := range formats {
		t.Run(f.name, func(t *testing.T) {
			c := open(t, f.render(fixture()), device(t, "zh-CN"), Options{LoadAll: true})
			assert.Equal(t, f.want, c.Version())
			assert.Equal(t, indexgen.DefaultVersion, c.Header().Version)

			set, err := c.Variants(1)
			require.NoError(t, err)
			assert.Equal(t, []string{"App", "应用", "App US", "Tablet App"}, values(t, set))

			phone := func(locale string) *resconfig.Configuration {
				r := device(t, locale)
				r.SetDeviceType(resconfig.DevicePhone)
				return r
			}
			tablet := device(t, "fr-FR")
			tablet.SetDeviceType(resconfig.DeviceTablet)

			assert.Equal(t, "应用", best(t, c, 1, phone("zh-CN")))
			assert.Equal(t, "App US", best(t, c, 1, phone("en-US")))
			assert.Equal(t, "App", best(t, c, 1, phone("fr-FR")))
			assert.Equal(t, "Tablet App", best(t, c, 1, tablet))

			byName, err := c.VariantsByName("app_name", types.STRING)
			require.NoError(t, err)
			assert.Len(t, byName, 4)

			days, err := c.Variants(3)
			require.NoError(t, err)
			it, err := days[0].Item()
			require.NoError(t, err)
			assert.Equal(t, []string{"Mon", "Tue"}, it.Values)
			assert.Equal(t, "days", it.Name)

			assert.Equal(t, []uint32{1, 2, 3}, c.IDs().ToArray())
			assert.Equal(t, map[NameType]uint32{
				{"app_name", types.STRING}:  1,
				{"bg", types.COLOR}:         2,
				{"days", types.STRINGARRAY}: 3,
			}, c.NameTypeIndex())
		})
	}
}

func TestOpen_LocaleScenario(t *testing.T) {
	ix := &indexgen.Index{Dirs: []indexgen.Dir{
		{Values: []indexgen.Value{indexgen.String(1, "app_name", "About")}},
		{
			Params: []resconfig.QualifierParam{indexgen.Lang("en"), indexgen.Region("US")},
			Values: []indexgen.Value{indexgen.String(1, "app_name", "App Name")},
		},
	}}
	for _, f := range formats {
		t.Run(f.name, func(t *testing.T) {
			request := device(t, "en-US")
			c := open(t, f.render(ix), request, Options{})

			set, err := c.Variants(1)
			require.NoError(t, err)
			require.Equal(t, []string{"About", "App Name"}, values(t, set))
			assert.True(t, set[1].Config().IsMoreSuitable(set[0].Config(), request, 0))
			assert.False(t, set[0].Config().IsMoreSuitable(set[1].Config(), request, 0))
			assert.Equal(t, "App Name", best(t, c, 1, request))
		})
	}
}

func TestOpen_VariantFlags(t *testing.T) {
	for _, f := range formats {
		t.Run(f.name, func(t *testing.T) {
			c := open(t, f.render(fixture()), nil, Options{System: true})
			set, err := c.Variants(2)
			require.NoError(t, err)
			require.NotEmpty(t, set)
			v := set[0]
			assert.True(t, v.IsSystem())
			assert.False(t, v.IsOverlay())
			assert.Equal(t, c.IndexPath(), v.IndexPath())
			assert.Equal(t, c.ResourcePath(), v.ResourcePath())
			assert.Equal(t, filepath.Dir(filepath.Dir(c.IndexPath()))+string(filepath.Separator), c.ResourcePath())
		})
	}
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "entry", testutil.IndexName), nil, Options{})
	require.ErrorIs(t, err, types.ErrNotFound)
	require.ErrorIs(t, err, fs.ErrNotExist)

	for _, f := range formats {
		t.Run(f.name, func(t *testing.T) {
			c := open(t, f.render(fixture()), nil, Options{})
			_, err := c.Variants(999)
			require.ErrorIs(t, err, types.ErrNotFound)
			_, err = c.VariantsByName("app_name", types.COLOR)
			require.ErrorIs(t, err, types.ErrNotFound)
		})
	}
}

func TestOpen_Corrupt(t *testing.T) {
	for _, f := range formats {
		t.Run(f.name, func(t *testing.T) {
			data := f.render(fixture())
			_, err := Open(testutil.WriteIndex(t, "entry", data[:100]), nil, Options{Source: ReadFile{}})
			require.ErrorIs(t, err, types.ErrTruncated)
		})
	}
}

func TestOpen_MappedFile(t *testing.T) {
	if testing.Short() {
		t.Skip("maps a file")
	}
	for _, f := range formats {
		t.Run(f.name, func(t *testing.T) {
			c := open(t, f.render(fixture()), device(t, "en-US"), Options{Source: MappedFile{}, LoadAll: true})
			set, err := c.Variants(1)
			require.NoError(t, err)
			assert.Contains(t, values(t, set), "App US")
			require.NoError(t, c.Close())
		})
	}
}

func TestOpen_SelectedTypes(t *testing.T) {
	for _, f := range formats {
		t.Run(f.name, func(t *testing.T) {
			c := open(t, f.render(fixture()), nil, Options{SelectedTypes: types.SelectString})
			_, err := c.Variants(1)
			require.NoError(t, err)
			_, err = c.Variants(2)
			require.ErrorIs(t, err, types.ErrNotFound)
		})
	}
}

func TestOpen_DarkResources(t *testing.T) {
	for _, f := range formats {
		t.Run(f.name, func(t *testing.T) {
			cfg := device(t, "")
			cfg.SetColorMode(resconfig.Dark)
			c := open(t, f.render(fixture()), cfg, Options{})
			assert.True(t, c.HasDarkRes())
			assert.True(t, cfg.AppDarkRes())
			assert.Equal(t, "#000000", best(t, c, 2, cfg))

			sysCfg := device(t, "")
			sysCfg.SetColorMode(resconfig.Dark)
			sys := open(t, f.render(fixture()), sysCfg, Options{System: true})
			assert.True(t, sys.HasDarkRes())
			assert.False(t, sysCfg.AppDarkRes())
			// not dark aware yet: only directories without color mode match
			assert.Equal(t, "#FFFFFF", best(t, sys, 2, sysCfg))
		})
	}

	light := fixture()
	light.Dirs = light.Dirs[:3]
	cfg := device(t, "")
	c := open(t, light.V2(), cfg, Options{})
	assert.False(t, c.HasDarkRes())
	assert.False(t, cfg.AppDarkRes())
}

func TestOpen_ThemeSystemRes(t *testing.T) {
	switchOn := func(typ types.ResType, v string) *indexgen.Index {
		ix := fixture()
		ix.Dirs[3].Values = append(ix.Dirs[3].Values,
			indexgen.Value{Type: typ, ID: 4, Name: "system_color_change", Value: v})
		return ix
	}
	tests := []struct {
		name string
		ix   *indexgen.Index
		want bool
	}{
		{"absent", fixture(), false},
		{"boolean true", switchOn(types.BOOLEAN, "true"), true},
		{"string true", switchOn(types.STRING, "true"), true},
		{"false", switchOn(types.BOOLEAN, "false"), false},
		{"other type", switchOn(types.INTEGER, "true"), false},
	}
	for _, f := range formats {
		for _, tt := range tests {
			t.Run(f.name+"/"+tt.name, func(t *testing.T) {
				c := open(t, f.render(tt.ix), nil, Options{})
				assert.Equal(t, tt.want, c.IsThemeSystemResEnabled())
			})
		}
	}
}

func TestOpen_Qualifiers(t *testing.T) {
	v2 := open(t, fixture().V2(), nil, Options{})
	q := v2.Qualifiers()
	assert.Len(t, q, 5)
	assert.Contains(t, q, "base")
	assert.Contains(t, q, "dark")
	assert.Contains(t, q, "tablet")
	assert.Contains(t, q, "zh_CN")
	assert.Contains(t, q, "en_US")

	v1 := open(t, fixture().V1(), device(t, "zh-CN"), Options{})
	assert.Len(t, v1.Qualifiers(), 4)
	assert.Equal(t, uint32(1<<resconfig.KeyLanguages|1<<resconfig.KeyRegion|
		1<<resconfig.KeyColorMode|1<<resconfig.KeyDeviceType), v1.LimitKeys())
}

func TestLocales(t *testing.T) {
	all := []string{"en-US", "zh-CN"}
	tests := []struct {
		system, overlay, includeSystem bool
		v1, v2                         []string
	}{
		{false, false, false, all, all},
		{false, false, true, all, all},
		{true, false, false, nil, nil},
		{true, false, true, all, all},
		{false, true, true, nil, nil},
		{true, true, true, all, nil},
		{true, true, false, nil, nil},
	}
	for _, tt := range tests {
		c1 := open(t, fixture().V1(), nil, Options{System: tt.system, Overlay: tt.overlay})
		c2 := open(t, fixture().V2(), nil, Options{System: tt.system, Overlay: tt.overlay})
		assert.Equal(t, tt.v1, c1.Locales(tt.includeSystem), "v1 %+v", tt)
		assert.Equal(t, tt.v2, c2.Locales(tt.includeSystem), "v2 %+v", tt)
	}
}

func TestResourceRoot(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{"/data/app/entry/resources.index", "/data/app/", false},
		{"app/entry/resources.index", "app/", false},
		{`C:\pkg\entry\resources.index`, `C:\pkg\`, false},
		{"/resources.index", "", true},
		{"resources.index", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := resourceRoot(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, types.ErrPathInvalid, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestLazyDecode_AtMostOnce(t *testing.T) {
	c := open(t, fixture().V2(), nil, Options{})
	var resolves, decodes atomic.Int32
	resolve, decode := c.resolve, c.decode
	c.resolve = func(b []byte, e index.Entry, cfgs map[uint32]*index.Key, verify bool) ([]index.ConfigValue, error) {
		resolves.Add(1)
		return resolve(b, e, cfgs, verify)
	}
	c.decode = func(b []byte, e index.Entry, off uint32) (*Item, error) {
		decodes.Add(1)
		return decode(b, e, off)
	}

	var wg conc.WaitGroup
	for range 32 {
		wg.Go(func() {
			set, err := c.Variants(1)
			if !assert.NoError(t, err) {
				return
			}
			for _, v := range set {
				it, err := v.Item()
				assert.NoError(t, err)
				assert.Equal(t, uint32(1), it.ID)
			}
		})
	}
	wg.Wait()
	assert.Equal(t, int32(1), resolves.Load())
	assert.Equal(t, int32(4), decodes.Load())
}

func TestLazyDecode_ResolveErrorRetries(t *testing.T) {
	c := open(t, fixture().V2(), nil, Options{})
	resolve := c.resolve
	fail := true
	c.resolve = func(b []byte, e index.Entry, cfgs map[uint32]*index.Key, verify bool) ([]index.ConfigValue, error) {
		if fail {
			return nil, types.ErrCorrupt
		}
		return resolve(b, e, cfgs, verify)
	}
	_, err := c.Variants(1)
	require.ErrorIs(t, err, types.ErrCorrupt)

	fail = false
	set, err := c.Variants(1)
	require.NoError(t, err)
	assert.Len(t, set, 4)
}

func TestClose(t *testing.T) {
	c := open(t, fixture().V2(), nil, Options{Source: MappedFile{}})
	set, err := c.Variants(1)
	require.NoError(t, err)
	first, err := set[0].Item()
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	// decoded values survive, everything else fails
	again, err := set[0].Item()
	require.NoError(t, err)
	assert.Same(t, first, again)
	_, err = set[1].Item()
	require.ErrorIs(t, err, ErrClosed)
	_, err = c.Variants(2)
	require.ErrorIs(t, err, ErrClosed)

	v1 := open(t, fixture().V1(), nil, Options{})
	require.NoError(t, v1.Close())
	_, err = v1.Variants(1)
	require.NoError(t, err)
}

func TestApplyOverlay(t *testing.T) {
	overlayIndex := &indexgen.Index{Dirs: []indexgen.Dir{
		{Values: []indexgen.Value{
			indexgen.String(100, "app_name", "Overlay"),
			indexgen.String(101, "extra", "Extra"),
		}},
		{
			Params: []resconfig.QualifierParam{indexgen.Lang("zh"), indexgen.Region("CN")},
			Values: []indexgen.Value{indexgen.String(100, "app_name", "覆盖")},
		},
	}}
	for _, f := range formats {
		t.Run(f.name, func(t *testing.T) {
			base := open(t, f.render(fixture()), nil, Options{LoadAll: true})
			ov := open(t, f.render(overlayIndex), nil, Options{Overlay: true, LoadAll: true})
			assert.True(t, ov.IsOverlay())

			before, err := ov.Variants(100)
			require.NoError(t, err)

			ov.ApplyOverlay(base.NameTypeIndex())

			set, err := ov.Variants(1)
			require.NoError(t, err)
			assert.Equal(t, []string{"Overlay", "覆盖"}, values(t, set))
			for _, v := range set {
				assert.True(t, v.IsOverlay())
				it, err := v.Item()
				require.NoError(t, err)
				assert.Equal(t, uint32(1), it.ID)
			}

			_, err = ov.Variants(100)
			require.ErrorIs(t, err, types.ErrNotFound)
			_, err = ov.Variants(101)
			require.ErrorIs(t, err, types.ErrNotFound)
			extra, err := ov.VariantsByName("extra", types.STRING)
			require.NoError(t, err)
			assert.Equal(t, []string{"Extra"}, values(t, extra))

			// sets handed out before the splice keep their ids
			it, err := before[0].Item()
			require.NoError(t, err)
			assert.Equal(t, uint32(100), it.ID)
		})
	}
}

func TestPatch(t *testing.T) {
	c := open(t, fixture().V2(), nil, Options{})
	assert.False(t, c.IsPatch())
	c.SetPatch("/data/patch/entry/resources.index")
	assert.True(t, c.IsPatch())
	assert.Equal(t, "/data/patch/entry/resources.index", c.PatchPath())
	c.SetPatch("")
	assert.False(t, c.IsPatch())
}

func TestUpdate(t *testing.T) {
	src := &countingSource{Source: ReadFile{}}
	path := testutil.WriteIndex(t, "entry", fixture().V1())
	c, err := Open(path, device(t, "zh-CN"), Options{Source: src})
	require.NoError(t, err)
	require.Equal(t, int32(1), src.reads.Load())

	before, err := c.Variants(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"App", "应用", "Tablet App"}, values(t, before))
	assert.Len(t, c.Qualifiers(), 4)

	require.NoError(t, c.Update(device(t, "en-US")))
	assert.Equal(t, int32(2), src.reads.Load())
	after, err := c.Variants(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"App", "应用", "Tablet App", "App US"}, values(t, after))
	assert.Len(t, before, 3, "earlier sets are not mutated")
	assert.Len(t, c.Qualifiers(), 5)

	// already loaded, no locale, nil
	require.NoError(t, c.Update(device(t, "en-US")))
	require.NoError(t, c.Update(device(t, "zh-CN")))
	require.NoError(t, c.Update(device(t, "")))
	require.NoError(t, c.Update(nil))
	assert.Equal(t, int32(2), src.reads.Load())

	// a failed re-read leaves the container as it was
	testutil.Rewrite(t, path, fixture().V1()[:100], 0)
	err = c.Update(device(t, "fr-FR"))
	require.ErrorIs(t, err, types.ErrTruncated)
	set, err := c.Variants(1)
	require.NoError(t, err)
	assert.Len(t, set, 4)

	// a replaced file is never merged into the loaded one
	testutil.Rewrite(t, path, fixture().V1(), time.Second)
	err = c.Update(device(t, "fr-FR"))
	require.ErrorIs(t, err, ErrModified)
	set, err = c.Variants(1)
	require.NoError(t, err)
	assert.Len(t, set, 4)
	assert.Len(t, c.Qualifiers(), 5)
}

func TestUpdate_NoOp(t *testing.T) {
	tests := []struct {
		name   string
		render func(*indexgen.Index) []byte
		opts   Options
	}{
		{"v2", (*indexgen.Index).V2, Options{}},
		{"system", (*indexgen.Index).V1, Options{System: true}},
		{"overlay", (*indexgen.Index).V1, Options{Overlay: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &countingSource{Source: ReadFile{}}
			tt.opts.Source = src
			c := open(t, tt.render(fixture()), device(t, "zh-CN"), tt.opts)
			require.NoError(t, c.Update(device(t, "en-US")))
			assert.Equal(t, int32(1), src.reads.Load())
		})
	}
}

func TestWrapOpen(t *testing.T) {
	err := wrapOpen("/x", errors.New("boom"))
	assert.NotErrorIs(t, err, types.ErrNotFound)
	assert.ErrorContains(t, err, "boom")
}
