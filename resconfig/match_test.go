package resconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cfg builds a dark-aware device configuration with the given locale parts.
func cfg(lang, script, region string) *Configuration {
	c := New()
	c.SetLocale(NewLocale(lang, script, region))
	c.SetAppDarkRes(true)
	return c
}

func loc(lang, script, region string) *Locale {
	return NewLocale(lang, script, region)
}

func TestMatch_Locale(t *testing.T) {
	tests := []struct {
		name      string
		current   *Configuration
		other     *Configuration
		preferred *Locale
		want      bool
	}{
		{"private language region vs bare", cfg("qaa", "", "CA"), cfg("qaa", "", ""), nil, true},
		{"private language same region", cfg("qaa", "", "CA"), cfg("qaa", "", "CA"), nil, true},
		{"explicit script equals likely script", cfg("az", "Latn", ""), cfg("az", "", ""), nil, true},
		{"script derived from region", cfg("az", "Arab", ""), cfg("az", "", "IR"), nil, true},
		{"different region same script", cfg("ar", "", "TN"), cfg("ar", "", "EG"), nil, true},
		{"unknown script different region", cfg("qaa", "", "CA"), cfg("qaa", "Latn", "FR"), nil, false},
		{"preferred locale rescues", cfg("qaa", "", "CA"), cfg("qaa", "Latn", "FR"), loc("qaa", "Latn", "FR"), true},
		{"known vs unknown script", cfg("qaa", "Latn", "CA"), cfg("qaa", "", "FR"), nil, false},
		{"preferred region rescues", cfg("qaa", "Latn", "CA"), cfg("qaa", "", "FR"), loc("qaa", "", "FR"), true},
		{"different script", cfg("az", "Cyrl", ""), cfg("az", "", ""), nil, false},
		{"preferred same language", cfg("az", "Cyrl", ""), cfg("az", "", ""), loc("az", "", ""), true},
		{"preferred other language", cfg("az", "Cyrl", ""), cfg("az", "", ""), loc("qaa", "Latn", "CA"), false},
		{"region implies other script", cfg("az", "", "IR"), cfg("az", "", ""), nil, false},
		{"private region mismatch", cfg("qaa", "", "CA"), cfg("qaa", "", "FR"), nil, false},
		{"private use script", cfg("en", "Qaag", ""), cfg("en", "Latn", ""), nil, true},
		{"base candidate", cfg("fr", "", "FR"), New(), nil, true},
		{"other language", cfg("fr", "", "FR"), cfg("de", "", ""), nil, false},
		{"world region contains", cfg("en", "", "GB"), cfg("en", "", "001"), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.preferred != nil {
				tt.current.SetPreferredLocale(tt.preferred)
			}
			assert.Equal(t, tt.want, tt.current.Match(tt.other, true))
		})
	}
}

func TestMatch_AliasesAreSymmetric(t *testing.T) {
	for _, pair := range [][2]string{{"he", "iw"}, {"yi", "ji"}, {"jv", "jw"}, {"id", "in"}, {"fil", "tl"}} {
		a, b := cfg(pair[0], "", ""), cfg(pair[1], "", "")
		assert.True(t, a.Match(b, true), "%s -> %s", pair[0], pair[1])
		assert.True(t, b.Match(a, true), "%s -> %s", pair[1], pair[0])
	}
}

func TestMatch_Dimensions(t *testing.T) {
	t.Run("device type", func(t *testing.T) {
		current, other := cfg("en", "", ""), cfg("en", "", "")
		current.SetDeviceType(DeviceCar)
		other.SetDeviceType(DeviceCar)
		assert.True(t, current.Match(other, true))
		other.SetDeviceType(DevicePad)
		assert.False(t, current.Match(other, true))
		current.SetDeviceType(DeviceNotSet)
		assert.True(t, current.Match(other, true))
		other.SetDeviceType(DeviceNotSet)
		current.SetDeviceType(DevicePad)
		assert.True(t, current.Match(other, true))
	})
	t.Run("direction", func(t *testing.T) {
		current, other := cfg("en", "", ""), cfg("en", "", "")
		current.SetDirection(DirectionHorizontal)
		other.SetDirection(DirectionHorizontal)
		assert.True(t, current.Match(other, true))
		other.SetDirection(DirectionVertical)
		assert.False(t, current.Match(other, true))
		current.SetDirection(DirectionNotSet)
		assert.True(t, current.Match(other, true))
	})
	t.Run("input device", func(t *testing.T) {
		current, other := cfg("en", "", ""), cfg("en", "", "")
		other.SetInputDevice(PointingDevice)
		assert.False(t, current.Match(other, true))
		current.SetInputDevice(PointingDevice)
		assert.True(t, current.Match(other, true))
		other.SetInputDevice(InputDeviceNotSet)
		assert.True(t, current.Match(other, true))
	})
	t.Run("mcc mnc", func(t *testing.T) {
		current, other := cfg("en", "", ""), cfg("en", "", "")
		current.SetMCC(460)
		current.SetMNC(101)
		assert.True(t, current.Match(other, true))
		other.SetMCC(460)
		assert.True(t, current.Match(other, true))
		other.SetMNC(102)
		assert.False(t, current.Match(other, true))
		other.SetMCC(310)
		other.SetMNC(MNCUndefined)
		assert.False(t, current.Match(other, true))
	})
	t.Run("nil candidate", func(t *testing.T) {
		assert.False(t, New().Match(nil, true))
	})
}

func TestMatch_DarkGate(t *testing.T) {
	device := New()
	device.SetColorMode(Dark)

	dark := NewDefault()
	dark.SetColorMode(Dark)
	light := NewDefault()
	light.SetColorMode(Light)
	base := NewDefault()

	assert.False(t, device.Match(dark, true), "dark variants wait for dark awareness")
	assert.False(t, device.Match(light, true))
	assert.True(t, device.Match(base, true))
	assert.True(t, device.Match(dark, false), "checkDark=false compares modes plainly")
	assert.False(t, device.Match(light, false))

	device.SetAppDarkRes(true)
	assert.True(t, device.Match(dark, true))
	assert.False(t, device.Match(light, true))

	pinned := New()
	pinned.SetColorMode(Dark)
	pinned.SetAppColorMode(true)
	assert.True(t, pinned.Match(dark, true))

	lightDevice := New()
	assert.False(t, lightDevice.Match(dark, true))
	assert.True(t, lightDevice.Match(light, true))
}

func TestMatchLocale(t *testing.T) {
	device := cfg("zh", "", "CN")
	assert.True(t, device.MatchLocale(NewDefault()))
	assert.True(t, device.MatchLocale(cfg("zh", "Hans", "")))
	assert.False(t, device.MatchLocale(cfg("zh", "Hant", "TW")))
	assert.False(t, device.MatchLocale(cfg("en", "", "")))

	bare := New()
	assert.True(t, bare.MatchLocale(NewDefault()))
	assert.False(t, bare.MatchLocale(cfg("en", "", "")))

	device.SetPreferredLocale(loc("en", "", "US"))
	assert.True(t, device.MatchLocale(cfg("en", "", "")))
}

// suitable asserts that current strictly beats other for request.
func suitable(t *testing.T, current, other, request *Configuration) {
	t.Helper()
	assert.True(t, current.IsMoreSuitable(other, request, 0), "%s should beat %s for %s", current, other, request)
	assert.False(t, other.IsMoreSuitable(current, request, 0), "%s should lose to %s for %s", other, current, request)
}

func TestIsMoreSuitable_NoRequestLocale(t *testing.T) {
	request := New()
	current, other := cfg("fr", "", "FR"), cfg("fr", "", "CA")
	assert.True(t, current.IsMoreSuitable(other, request, 0))
	assert.True(t, other.IsMoreSuitable(current, request, 0))
}

func TestIsMoreSuitable_EqualCandidates(t *testing.T) {
	request := cfg("fr", "", "CA")
	current, other := New(), New()
	assert.True(t, current.IsMoreSuitable(other, request, 0))
	assert.True(t, other.IsMoreSuitable(current, request, 0))
	suitable(t, cfg("fr", "", "FR"), New(), request)
}

func TestIsMoreSuitable_Aliases(t *testing.T) {
	request := cfg("fil", "", "PH")
	suitable(t, cfg("tl", "", "PH"), cfg("fil", "", "US"), request)
	suitable(t, cfg("fil", "", "PH"), cfg("tl", "", "PH"), request)

	request.SetPreferredLocale(loc("fil", "", "US"))
	suitable(t, cfg("fil", "", "US"), cfg("tl", "", "PH"), request)
}

func TestIsMoreSuitable_Regions(t *testing.T) {
	tests := []struct {
		request, current, other string
	}{
		{"es-AR", "es-419", "es-ES"},
		{"es-AR", "es", "es-ES"},
		{"es-AR", "es-PE", "es-ES"},
		{"es-AR", "es-AR", "es"},
		{"es-AR", "es-US", "es-BO"},
		{"es-IC", "es-ES", "es-GQ"},
		{"es-GQ", "es-IC", "es-419"},
		{"en-GB", "en-001", "en"},
		{"en-PR", "en", "en-001"},
		{"en-DE", "en-150", "en-001"},
		{"en-IN", "en-AU", "en-US"},
		{"en-PR", "en-001", "en-GB"},
		{"en-IN", "en-GB", "en-AU"},
		{"en-IN", "en-AU", "en-CA"},
		{"pt-MZ", "pt-PT", "pt"},
		{"pt-MZ", "pt-PT", "pt-BR"},
		{"zh-Hant-MO", "zh-Hant-HK", "zh-Hant-TW"},
		{"zh-Hant-US", "zh-Hant-TW", "zh-Hant-HK"},
		{"ar-DZ", "ar-015", "ar"},
		{"ar-EG", "ar", "ar-015"},
		{"ar-QA", "ar-EG", "ar-BH"},
		{"ar-QA", "ar-SA", "ar-015"},
		{"en-US", "en", ""},
		{"en-US", "", "en-001"},
		{"en-US", "", "en-GB"},
		{"en-PR", "", "en-001"},
	}
	build := func(s string) *Configuration {
		c := New()
		c.SetAppDarkRes(true)
		if s != "" {
			require.NoError(t, c.SetLocaleString(s))
		}
		return c
	}
	for _, tt := range tests {
		t.Run(tt.request+"/"+tt.current+">"+tt.other, func(t *testing.T) {
			suitable(t, build(tt.current), build(tt.other), build(tt.request))
		})
	}
}

func TestIsMoreSuitable_PreferredLocaleOverridesRegion(t *testing.T) {
	request := cfg("es", "", "AR")
	request.SetPreferredLocale(loc("es", "", "ES"))
	suitable(t, cfg("es", "", "ES"), cfg("es", "", "PE"), request)

	request = cfg("zh", "Hant", "MO")
	request.SetPreferredLocale(loc("zh", "Hant", "US"))
	suitable(t, cfg("zh", "Hant", "TW"), cfg("zh", "Hant", "HK"), request)
}

func TestIsMoreSuitable_DimensionOrder(t *testing.T) {
	t.Run("mcc mnc before locale", func(t *testing.T) {
		request := cfg("zh", "", "CN")
		request.SetMCC(460)
		current := NewDefault()
		current.SetMCC(460)
		other := NewDefault()
		other.SetLocale(loc("zh", "", "CN"))
		suitable(t, current, other, request)
	})
	t.Run("mcc and mnc beat mcc alone", func(t *testing.T) {
		request := New()
		request.SetMCC(460)
		request.SetMNC(101)
		current := NewDefault()
		current.SetMCC(460)
		current.SetMNC(101)
		other := NewDefault()
		other.SetMCC(460)
		suitable(t, current, other, request)
	})
	t.Run("locale before direction", func(t *testing.T) {
		request := cfg("en", "", "US")
		request.SetDirection(DirectionVertical)
		current := NewDefault()
		current.SetLocale(loc("en", "", "US"))
		other := NewDefault()
		other.SetDirection(DirectionVertical)
		suitable(t, current, other, request)
	})
	t.Run("direction before device", func(t *testing.T) {
		request := New()
		request.SetDirection(DirectionVertical)
		request.SetDeviceType(DevicePhone)
		current := NewDefault()
		current.SetDirection(DirectionVertical)
		other := NewDefault()
		other.SetDeviceType(DevicePhone)
		suitable(t, current, other, request)
	})
	t.Run("device before color mode", func(t *testing.T) {
		request := New()
		request.SetDeviceType(DeviceTablet)
		request.SetColorMode(Dark)
		current := NewDefault()
		current.SetDeviceType(DeviceTablet)
		other := NewDefault()
		other.SetColorMode(Dark)
		suitable(t, current, other, request)
	})
	t.Run("color mode before input device", func(t *testing.T) {
		request := New()
		request.SetColorMode(Dark)
		request.SetInputDevice(PointingDevice)
		current := NewDefault()
		current.SetColorMode(Dark)
		other := NewDefault()
		other.SetInputDevice(PointingDevice)
		suitable(t, current, other, request)
	})
	t.Run("input device before density", func(t *testing.T) {
		request := New()
		request.SetInputDevice(PointingDevice)
		request.SetScreenDensityDpi(DensityXLDPI)
		current := NewDefault()
		current.SetInputDevice(PointingDevice)
		other := NewDefault()
		other.SetScreenDensityDpi(DensityXLDPI)
		suitable(t, current, other, request)
	})
}

func TestIsMoreSuitable_Density(t *testing.T) {
	at := func(d ScreenDensity) *Configuration {
		c := NewDefault()
		c.SetScreenDensityDpi(d)
		return c
	}
	request := New()
	request.SetScreenDensityDpi(DensityXLDPI)

	suitable(t, at(DensityXLDPI), at(DensityXXLDPI), request)
	suitable(t, at(DensityXXLDPI), at(DensityLDPI), request)
	suitable(t, at(DensityXXLDPI), at(DensityXXXLDPI), request)
	suitable(t, at(DensityLDPI), at(DensityMDPI), request)

	// Physical density overrides the request bucket.
	assert.True(t, at(DensityLDPI).IsMoreSuitable(at(DensityXXLDPI), request, 240))
	assert.False(t, at(DensityXXLDPI).IsMoreSuitable(at(DensityLDPI), request, 240))

	// Equal distance prefers the larger bucket.
	assert.True(t, at(DensityLDPI).IsMoreSuitable(at(DensityMDPI), request, 200))
	assert.False(t, at(DensityMDPI).IsMoreSuitable(at(DensityLDPI), request, 200))
}

func TestIsMoreSpecificThan(t *testing.T) {
	specific := NewDefault()
	specific.SetLocale(loc("zh", "", "CN"))
	general := NewDefault()
	general.SetLocale(loc("zh", "", ""))

	assert.True(t, specific.IsMoreSpecificThan(general, 0))
	assert.False(t, general.IsMoreSpecificThan(specific, 0))
	assert.True(t, general.IsMoreSpecificThan(nil, 0))
	assert.True(t, general.IsMoreSpecificThan(NewDefault(), 0))

	dark := NewDefault()
	dark.SetColorMode(Dark)
	assert.True(t, dark.IsMoreSpecificThan(NewDefault(), 0))
	assert.False(t, NewDefault().IsMoreSpecificThan(dark, 0))
}
