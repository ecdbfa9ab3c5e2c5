// Package resconfig models resource qualifiers: the configuration of one
// qualifier directory, and the configuration of the running device. It
// decides whether a qualifier directory applies to a device (Match) and
// which of two applicable directories fits a request better (IsMoreSuitable).
package resconfig

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// Configuration is the set of qualifier values of one qualifier directory or
// of the current device. A Configuration must not be copied after first use;
// use Clone.
type Configuration struct {
	locale *Locale
	// script is the script as declared, before completion. String renders
	// it so qualifier directories keep their on-disk names.
	script      string
	preferred   *Locale
	direction   Direction
	deviceType  DeviceType
	colorMode   ColorMode
	inputDevice InputDevice
	mcc         uint32
	mnc         uint32
	density     float32
	densityDpi  ScreenDensity

	appColorMode bool
	// appDarkRes is flipped by containers while the configuration is in use.
	appDarkRes atomic.Bool
}

// New returns a device configuration: every dimension unset except color
// mode, which defaults to Light.
func New() *Configuration {
	return &Configuration{
		direction:   DirectionNotSet,
		deviceType:  DeviceNotSet,
		colorMode:   Light,
		inputDevice: InputDeviceNotSet,
	}
}

// NewDefault returns a configuration with every dimension unset.
func NewDefault() *Configuration {
	c := New()
	c.colorMode = ColorModeNotSet
	return c
}

// Clone returns a deep copy. Locales are immutable and shared.
func (c *Configuration) Clone() *Configuration {
	n := &Configuration{
		locale:       c.locale,
		script:       c.script,
		preferred:    c.preferred,
		direction:    c.direction,
		deviceType:   c.deviceType,
		colorMode:    c.colorMode,
		inputDevice:  c.inputDevice,
		mcc:          c.mcc,
		mnc:          c.mnc,
		density:      c.density,
		densityDpi:   c.densityDpi,
		appColorMode: c.appColorMode,
	}
	n.appDarkRes.Store(c.appDarkRes.Load())
	return n
}

// SetLocale sets the base locale. A nil or language-less locale clears it.
func (c *Configuration) SetLocale(l *Locale) {
	if !hasLanguage(l) {
		c.setLocale(nil, "")
		return
	}
	c.setLocale(l.Normalize(), l.Script)
}

func (c *Configuration) setLocale(l *Locale, script string) {
	c.locale = l
	c.script = script
}

// SetLocaleString parses s with ParseLocale and sets it. An empty s clears
// the locale.
func (c *Configuration) SetLocaleString(s string) error {
	if strings.TrimSpace(s) == "" {
		c.setLocale(nil, "")
		return nil
	}
	l, err := ParseLocale(s)
	if err != nil {
		return err
	}
	c.setLocale(l, l.Script)
	return nil
}

// SetPreferredLocale sets the locale that replaces the base locale while
// matching. A nil locale clears it.
func (c *Configuration) SetPreferredLocale(l *Locale) {
	if !hasLanguage(l) {
		c.preferred = nil
		return
	}
	c.preferred = l.Normalize()
}

func (c *Configuration) SetDirection(d Direction)     { c.direction = d }
func (c *Configuration) SetDeviceType(d DeviceType)   { c.deviceType = d }
func (c *Configuration) SetColorMode(m ColorMode)     { c.colorMode = m }
func (c *Configuration) SetInputDevice(i InputDevice) { c.inputDevice = i }
func (c *Configuration) SetMCC(mcc uint32)            { c.mcc = mcc }
func (c *Configuration) SetMNC(mnc uint32)            { c.mnc = mnc }

// SetScreenDensity sets the density ratio and derives its bucket.
func (c *Configuration) SetScreenDensity(ratio float32) {
	c.density = ratio
	c.densityDpi = ConvertDensity(ratio)
}

// SetScreenDensityDpi sets the bucket and derives the ratio.
func (c *Configuration) SetScreenDensityDpi(d ScreenDensity) {
	c.density = float32(d) / DPIBase
	c.densityDpi = d
}

// SetAppColorMode records that the application pinned its color mode.
func (c *Configuration) SetAppColorMode(v bool) { c.appColorMode = v }

// SetAppDarkRes records that the application ships dark resources.
func (c *Configuration) SetAppDarkRes(v bool) { c.appDarkRes.Store(v) }

func (c *Configuration) Locale() *Locale                 { return c.locale }
func (c *Configuration) PreferredLocale() *Locale        { return c.preferred }
func (c *Configuration) Direction() Direction            { return c.direction }
func (c *Configuration) DeviceType() DeviceType          { return c.deviceType }
func (c *Configuration) ColorMode() ColorMode            { return c.colorMode }
func (c *Configuration) InputDevice() InputDevice        { return c.inputDevice }
func (c *Configuration) MCC() uint32                     { return c.mcc }
func (c *Configuration) MNC() uint32                     { return c.mnc }
func (c *Configuration) ScreenDensity() float32          { return c.density }
func (c *Configuration) ScreenDensityDpi() ScreenDensity { return c.densityDpi }
func (c *Configuration) AppColorMode() bool              { return c.appColorMode }
func (c *Configuration) AppDarkRes() bool                { return c.appDarkRes.Load() }

// HasLocale reports whether a base or preferred locale is set.
func (c *Configuration) HasLocale() bool {
	return c.locale != nil || c.preferred != nil
}

// String renders the qualifier directory name, for example
// "mcc460_mnc101-zh_Hans_CN-vertical-phone-dark-pointingdevice-xldpi".
// An empty configuration renders as "base".
func (c *Configuration) String() string {
	var b strings.Builder
	add := func(s, sep string) {
		if s == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s)
	}
	if c.mcc != MCCUndefined {
		add("mcc"+strconv.FormatUint(uint64(c.mcc), 10), "-")
		if c.mnc != MNCUndefined {
			add("mnc"+strconv.FormatUint(uint64(c.mnc), 10), "_")
		}
	}
	if c.locale != nil {
		add(c.locale.Language, "-")
		add(c.script, "_")
		add(c.locale.Region, "_")
	}
	add(c.direction.String(), "-")
	add(c.deviceType.String(), "-")
	add(c.colorMode.String(), "-")
	add(c.inputDevice.String(), "-")
	add(c.densityDpi.String(), "-")
	if b.Len() == 0 {
		return "base"
	}
	return b.String()
}
