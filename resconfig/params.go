package resconfig

// QualifierParam is one decoded qualifier dimension.
type QualifierParam struct {
	Kind  KeyType
	Value uint32
	Str   string
}

// NewQualifierParam decodes a raw (type, value) pair.
func NewQualifierParam(kind KeyType, value uint32) QualifierParam {
	return QualifierParam{Kind: kind, Value: value, Str: paramString(kind, value)}
}

// IsLocale reports whether the param carries a language, script or region.
func (p QualifierParam) IsLocale() bool {
	return p.Kind == KeyLanguages || p.Kind == KeyScript || p.Kind == KeyRegion
}

// DeviceTypeName returns the device name carried by a device type param, or
// "" for any other param.
func (p QualifierParam) DeviceTypeName() string {
	if p.Kind != KeyDeviceType {
		return ""
	}
	return DeviceType(p.Value).String()
}

func paramString(kind KeyType, value uint32) string {
	switch kind {
	case KeyLanguages, KeyRegion, KeyScript:
		return DecodeLocaleValue(value)
	case KeyDirection:
		return directionOf(value).String()
	case KeyDeviceType:
		return DeviceType(value).String()
	case KeyColorMode:
		return colorModeOf(value).String()
	case KeyInputDevice:
		return inputDeviceOf(value).String()
	case KeyMCC:
		return "mcc"
	case KeyMNC:
		return "mnc"
	case KeyScreenDensity:
		return densityOf(value).String()
	}
	return ""
}

// DecodeLocaleValue unpacks a language, script or region code. Characters are
// packed big-end first into the low bytes, so "en" is 'e'<<8 | 'n'.
func DecodeLocaleValue(v uint32) string {
	var out []byte
	for shift := 24; shift >= 0; shift -= 8 {
		if ch := byte(v >> shift); ch != 0 {
			out = append(out, ch)
		}
	}
	return string(out)
}

// EncodeLocaleValue packs up to four characters as DecodeLocaleValue expects.
func EncodeLocaleValue(s string) uint32 {
	var v uint32
	for i := 0; i < len(s) && i < 4; i++ {
		v = v<<8 | uint32(s[i])
	}
	return v
}

func directionOf(v uint32) Direction {
	if v == 0 {
		return DirectionVertical
	}
	return DirectionHorizontal
}

func colorModeOf(v uint32) ColorMode {
	if v == uint32(Dark) {
		return Dark
	}
	return Light
}

func inputDeviceOf(v uint32) InputDevice {
	if v == uint32(PointingDevice) {
		return PointingDevice
	}
	return InputDeviceNotSet
}

func deviceTypeOf(v uint32) DeviceType {
	if _, ok := deviceNames[DeviceType(v)]; ok {
		return DeviceType(v)
	}
	return DeviceNotSet
}

func densityOf(v uint32) ScreenDensity {
	if _, ok := densityNames[ScreenDensity(v)]; ok {
		return ScreenDensity(v)
	}
	return DensityNotSet
}

// FromParams builds the configuration of a qualifier directory. Dimensions
// without a param stay unset; no params at all is the "base" directory.
func FromParams(params []QualifierParam) *Configuration {
	c := NewDefault()
	if len(params) == 0 {
		return c
	}
	var lang, script, region string
	var density ScreenDensity
	for _, p := range params {
		switch p.Kind {
		case KeyLanguages:
			lang = p.Str
		case KeyRegion:
			region = p.Str
		case KeyScript:
			script = p.Str
		case KeyScreenDensity:
			density = densityOf(p.Value)
		case KeyDeviceType:
			c.deviceType = deviceTypeOf(p.Value)
		case KeyDirection:
			c.direction = directionOf(p.Value)
		case KeyInputDevice:
			c.inputDevice = inputDeviceOf(p.Value)
		case KeyColorMode:
			c.colorMode = colorModeOf(p.Value)
		case KeyMCC:
			c.mcc = p.Value
		case KeyMNC:
			c.mnc = p.Value
		}
	}
	c.SetScreenDensity(float32(density) / DPIBase)
	c.setLocale(NewLocale(lang, script, region), script)
	return c
}

// LocaleKey joins the locale params the way qualifier directories name them:
// language, then "-script", then "-region", in param order. ok is false when
// no param carries a language.
func LocaleKey(params []QualifierParam) (key string, ok bool) {
	for _, p := range params {
		switch p.Kind {
		case KeyLanguages:
			key = p.Str
			ok = true
		case KeyScript, KeyRegion:
			key += "-" + p.Str
		}
	}
	return key, ok
}
