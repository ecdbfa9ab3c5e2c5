package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/joshuapare/resindex/pkg/types"
	"github.com/joshuapare/resindex/resconfig"
)

// deviceSettings is the device configuration after flags, environment and
// config file are merged.
type deviceSettings struct {
	Locale          string   `mapstructure:"locale"`
	PreferredLocale string   `mapstructure:"preferred_locale"`
	Device          string   `mapstructure:"device"`
	ColorMode       string   `mapstructure:"color_mode"`
	Direction       string   `mapstructure:"direction"`
	Density         string   `mapstructure:"density"`
	MCC             uint32   `mapstructure:"mcc"`
	MNC             uint32   `mapstructure:"mnc"`
	Input           string   `mapstructure:"input"`
	Types           []string `mapstructure:"types"`
	LoadAll         bool     `mapstructure:"load_all"`
	System          bool     `mapstructure:"system"`
}

// flag name -> viper key
var deviceKeys = map[string]string{
	"locale":           "locale",
	"preferred-locale": "preferred_locale",
	"device":           "device",
	"color-mode":       "color_mode",
	"direction":        "direction",
	"density":          "density",
	"mcc":              "mcc",
	"mnc":              "mnc",
	"input":            "input",
	"types":            "types",
	"load-all":         "load_all",
	"system":           "system",
}

func addDeviceFlags(pf *pflag.FlagSet) {
	pf.String("locale", "", "Device locale, e.g. zh-Hans-CN")
	pf.String("preferred-locale", "", "Preferred locale that overrides the device locale")
	pf.String("device", "", "Device type: phone, tablet, car, pad, tv, wearable, 2in1")
	pf.String("color-mode", "light", "Color mode: light or dark")
	pf.String("direction", "", "Direction: vertical or horizontal")
	pf.String("density", "", "Density bucket (sdpi..xxxldpi) or ratio such as 2.0")
	pf.Uint32("mcc", 0, "Mobile country code")
	pf.Uint32("mnc", 0, "Mobile network code")
	pf.String("input", "", "Input device: pointingdevice")
	pf.StringSlice("types", nil, "Restrict decoding to these resource types (string, color, ...)")
	pf.Bool("load-all", false, "Decode every v1 qualifier directory")
	pf.Bool("system", false, "Load indexes as system resources")
}

// loadSettings merges, in increasing precedence: defaults, the --config
// file, RESCTL_* environment variables and flags set on the command line.
func loadSettings(cmd *cobra.Command) (*deviceSettings, error) {
	v := viper.New()
	v.SetDefault("color_mode", "light")
	v.SetEnvPrefix("RESCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		logger.Debug("config loaded", "file", v.ConfigFileUsed())
	}

	flags := cmd.Flags()
	for name, key := range deviceKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var s deviceSettings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return &s, nil
}

// configuration builds the device configuration.
func (s *deviceSettings) configuration() (*resconfig.Configuration, error) {
	c := resconfig.New()
	if s.Locale != "" {
		if err := c.SetLocaleString(s.Locale); err != nil {
			return nil, fmt.Errorf("locale: %w", err)
		}
	}
	if s.PreferredLocale != "" {
		l, err := resconfig.ParseLocale(s.PreferredLocale)
		if err != nil {
			return nil, fmt.Errorf("preferred locale: %w", err)
		}
		c.SetPreferredLocale(l)
	}
	if s.Device != "" {
		d, ok := resconfig.ParseDeviceType(s.Device)
		if !ok {
			return nil, fmt.Errorf("unknown device type %q", s.Device)
		}
		c.SetDeviceType(d)
	}
	switch strings.ToLower(s.ColorMode) {
	case "", "light":
		c.SetColorMode(resconfig.Light)
	case "dark":
		c.SetColorMode(resconfig.Dark)
	default:
		return nil, fmt.Errorf("unknown color mode %q", s.ColorMode)
	}
	switch strings.ToLower(s.Direction) {
	case "":
	case "vertical":
		c.SetDirection(resconfig.DirectionVertical)
	case "horizontal":
		c.SetDirection(resconfig.DirectionHorizontal)
	default:
		return nil, fmt.Errorf("unknown direction %q", s.Direction)
	}
	if s.Density != "" {
		if err := setDensity(c, s.Density); err != nil {
			return nil, err
		}
	}
	c.SetMCC(s.MCC)
	c.SetMNC(s.MNC)
	switch strings.ToLower(s.Input) {
	case "":
	case "pointingdevice":
		c.SetInputDevice(resconfig.PointingDevice)
	default:
		return nil, fmt.Errorf("unknown input device %q", s.Input)
	}
	return c, nil
}

func setDensity(c *resconfig.Configuration, s string) error {
	if d, ok := resconfig.ParseScreenDensity(strings.ToLower(s)); ok {
		c.SetScreenDensityDpi(d)
		return nil
	}
	var ratio float32
	if _, err := fmt.Sscanf(s, "%g", &ratio); err != nil || ratio <= 0 {
		return fmt.Errorf("unknown density %q", s)
	}
	c.SetScreenDensity(ratio)
	return nil
}

// selectMask converts --types into a selection mask. No types means all.
func (s *deviceSettings) selectMask() (types.SelectMask, error) {
	if len(s.Types) == 0 {
		return types.SelectAll, nil
	}
	var m types.SelectMask
	for _, name := range s.Types {
		t, ok := types.ParseResType(name)
		if !ok {
			return 0, fmt.Errorf("unknown resource type %q", name)
		}
		m |= types.SelectBit(t)
	}
	return m, nil
}
