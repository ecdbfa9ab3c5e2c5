package resconfig

// Match reports whether the qualifier directory configuration cand applies to
// this device configuration. Any dimension cand leaves unset matches.
//
// When checkDark is true and the device is in dark mode, dark directories
// only match once the application is dark aware (AppColorMode or
// AppDarkRes); until then only directories without a color mode match.
// Passing false skips that gate and compares color modes plainly.
func (c *Configuration) Match(cand *Configuration, checkDark bool) bool {
	if cand == nil {
		return false
	}
	if !c.mccMncMatch(cand.mcc, cand.mnc) {
		return false
	}
	if c.preferred != nil {
		if !matchLocale(c.preferred, cand.locale) {
			return false
		}
	} else if !matchLocale(c.locale, cand.locale) {
		return false
	}
	if c.direction != DirectionNotSet && cand.direction != DirectionNotSet && c.direction != cand.direction {
		return false
	}
	if c.deviceType != DeviceNotSet && cand.deviceType != DeviceNotSet && c.deviceType != cand.deviceType {
		return false
	}
	if !c.colorModeMatch(cand.colorMode, checkDark) {
		return false
	}
	return c.inputDeviceMatch(cand.inputDevice)
}

func (c *Configuration) mccMncMatch(mcc, mnc uint32) bool {
	if mcc == MCCUndefined && mnc == MNCUndefined {
		return true
	}
	return c.mcc == mcc && (mnc == MNCUndefined || c.mnc == mnc)
}

func (c *Configuration) colorModeMatch(mode ColorMode, checkDark bool) bool {
	if checkDark && c.colorMode == Dark && !c.appColorMode && !c.AppDarkRes() {
		return mode == ColorModeNotSet
	}
	return c.colorMode == ColorModeNotSet || mode == ColorModeNotSet || c.colorMode == mode
}

func (c *Configuration) inputDeviceMatch(in InputDevice) bool {
	if in == InputDeviceNotSet {
		return true
	}
	return c.inputDevice == in
}

// MatchLocale is the locale-only part of Match, used to decide whether a
// qualifier directory needs loading for this configuration. A candidate
// without locale always matches; a device without base locale matches none
// that have one.
func (c *Configuration) MatchLocale(cand *Configuration) bool {
	other := cand.preferred
	if other == nil {
		other = cand.locale
	}
	if other == nil {
		return true
	}
	if c.locale == nil {
		return false
	}
	if c.preferred != nil {
		return matchLocale(c.preferred, other)
	}
	return matchLocale(c.locale, other)
}

// IsMoreSuitable reports whether c fits request at least as well as other.
// Dimensions are compared in order and the first that separates the two
// decides: mcc/mnc, preferred locale, locale, direction, device type, color
// mode, input device, density. density is the physical density in dpi; zero
// means "use the request's bucket". Ties fall through to IsMoreSpecificThan.
func (c *Configuration) IsMoreSuitable(other, request *Configuration, density uint32) bool {
	if other != nil && request != nil {
		if r := c.mccMncMoreSuitable(other.mcc, other.mnc, request.mcc, request.mnc); r != 0 {
			return r > 0
		}
		if request.preferred != nil {
			if r := localeMoreSuitable(c.locale, other.locale, request.preferred); r != 0 {
				return r > 0
			}
		}
		if r := localeMoreSuitable(c.locale, other.locale, request.locale); r != 0 {
			return r > 0
		}
		if c.direction != other.direction && request.direction != DirectionNotSet {
			return c.direction != DirectionNotSet
		}
		if c.deviceType != other.deviceType && request.deviceType != DeviceNotSet {
			return c.deviceType != DeviceNotSet
		}
		if c.colorMode != other.colorMode && request.colorMode != ColorModeNotSet {
			return c.colorMode != ColorModeNotSet
		}
		if c.inputDevice != other.inputDevice && request.inputDevice != InputDeviceNotSet {
			return c.inputDevice != InputDeviceNotSet
		}
		if r := c.densityMoreSuitable(other.densityDpi, request.densityDpi, density); r != 0 {
			return r > 0
		}
	}
	return c.IsMoreSpecificThan(other, density)
}

func (c *Configuration) mccMncMoreSuitable(mcc, mnc, reqMcc, reqMnc uint32) int {
	defined := reqMcc != MCCUndefined && reqMnc != MNCUndefined
	mccOnly := reqMcc != MCCUndefined && reqMnc == MNCUndefined
	if (defined && (c.mcc != mcc || c.mnc != mnc)) || (mccOnly && c.mcc != mcc) {
		if weight(c.mcc, c.mnc) > weight(mcc, mnc) {
			return 1
		}
		return -1
	}
	return 0
}

func weight(mcc, mnc uint32) int {
	w := 0
	if mcc != MCCUndefined {
		w++
	}
	if mnc != MNCUndefined {
		w++
	}
	return w
}

func (c *Configuration) densityMoreSuitable(other, request ScreenDensity, density uint32) int {
	if c.densityDpi == other {
		return 0
	}
	target := int(density)
	if density == 0 {
		if request == DensityNotSet {
			return 0
		}
		target = int(request)
	}
	if densityCloser(int(c.densityDpi)-target, int(other)-target) {
		return 1
	}
	return -1
}

// densityCloser compares signed distances to the target density: among
// buckets at or above the target the nearer wins, a bucket above beats one
// below, and among buckets below the nearer wins.
func densityCloser(this, other int) bool {
	if this >= 0 && other >= 0 {
		return this <= other
	}
	if this > 0 {
		return true
	}
	if other > 0 {
		return false
	}
	return this >= other
}

// IsMoreSpecificThan breaks ties between two equally suitable
// configurations by preferring the one that sets more qualifiers.
func (c *Configuration) IsMoreSpecificThan(other *Configuration, density uint32) bool {
	if other == nil {
		return true
	}
	if c.mcc != MCCUndefined && c.mnc != MNCUndefined {
		if c.mcc != other.mcc || c.mnc != other.mnc {
			return false
		}
	} else if c.mcc != MCCUndefined && c.mcc != other.mcc {
		return true
	}
	if r := localeMoreSpecific(c.locale, other.locale); r != 0 {
		return r > 0
	}
	if c.direction != other.direction {
		return c.direction != DirectionNotSet
	}
	if c.deviceType != other.deviceType {
		return c.deviceType != DeviceNotSet
	}
	if c.colorMode != other.colorMode {
		return c.colorMode != ColorModeNotSet
	}
	if c.inputDevice != other.inputDevice {
		return c.inputDevice == InputDeviceNotSet
	}
	if r := c.densityMoreSpecific(other.densityDpi, density); r != 0 {
		return r > 0
	}
	return true
}

func (c *Configuration) densityMoreSpecific(other ScreenDensity, density uint32) int {
	if c.densityDpi == other {
		return 0
	}
	if density == 0 {
		if c.densityDpi != DensityNotSet {
			return 1
		}
		return -1
	}
	if densityCloser(int(c.densityDpi)-int(density), int(other)-int(density)) {
		return 1
	}
	return -1
}
