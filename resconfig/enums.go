package resconfig

import "strconv"

// KeyType identifies the qualifier dimension carried by a param.
type KeyType uint32

const (
	KeyLanguages     KeyType = 0
	KeyRegion        KeyType = 1
	KeyScreenDensity KeyType = 2
	KeyDirection     KeyType = 3
	KeyDeviceType    KeyType = 4
	KeyScript        KeyType = 5
	KeyColorMode     KeyType = 6
	KeyMCC           KeyType = 7
	KeyMNC           KeyType = 8
	KeyInputDevice   KeyType = 10
	KeyTypeMax       KeyType = 11
)

var keyTypeNames = map[KeyType]string{
	KeyLanguages:     "language",
	KeyRegion:        "region",
	KeyScreenDensity: "density",
	KeyDirection:     "direction",
	KeyDeviceType:    "device",
	KeyScript:        "script",
	KeyColorMode:     "colormode",
	KeyMCC:           "mcc",
	KeyMNC:           "mnc",
	KeyInputDevice:   "inputdevice",
}

func (k KeyType) String() string {
	if s, ok := keyTypeNames[k]; ok {
		return s
	}
	return "key(" + strconv.FormatUint(uint64(k), 10) + ")"
}

// Direction is the screen orientation qualifier.
type Direction int32

const (
	DirectionNotSet     Direction = -1
	DirectionVertical   Direction = 0
	DirectionHorizontal Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirectionVertical:
		return "vertical"
	case DirectionHorizontal:
		return "horizontal"
	}
	return ""
}

// DeviceType is the device class qualifier.
type DeviceType int32

const (
	DeviceNotSet   DeviceType = -1
	DevicePhone    DeviceType = 0
	DeviceTablet   DeviceType = 1
	DeviceCar      DeviceType = 2
	DevicePad      DeviceType = 3
	DeviceTV       DeviceType = 4
	DeviceWearable DeviceType = 6
	DeviceTwoInOne DeviceType = 7
)

var deviceNames = map[DeviceType]string{
	DevicePhone:    "phone",
	DeviceTablet:   "tablet",
	DeviceCar:      "car",
	DevicePad:      "pad",
	DeviceTV:       "tv",
	DeviceWearable: "wearable",
	DeviceTwoInOne: "2in1",
}

func (d DeviceType) String() string { return deviceNames[d] }

// ParseDeviceType resolves a device name such as "tablet" or "2in1".
func ParseDeviceType(s string) (DeviceType, bool) {
	for d, n := range deviceNames {
		if n == s {
			return d, true
		}
	}
	return DeviceNotSet, false
}

// ColorMode is the light/dark qualifier.
type ColorMode int32

const (
	ColorModeNotSet ColorMode = -1
	Dark            ColorMode = 0
	Light           ColorMode = 1
)

func (c ColorMode) String() string {
	switch c {
	case Dark:
		return "dark"
	case Light:
		return "light"
	}
	return ""
}

// InputDevice is the input device qualifier.
type InputDevice int32

const (
	InputDeviceNotSet InputDevice = -1
	PointingDevice    InputDevice = 0
)

func (i InputDevice) String() string {
	if i == PointingDevice {
		return "pointingdevice"
	}
	return ""
}

// ScreenDensity is a discrete density bucket, valued in dpi.
type ScreenDensity int32

const (
	DensityNotSet  ScreenDensity = 0
	DensitySDPI    ScreenDensity = 120
	DensityMDPI    ScreenDensity = 160
	DensityLDPI    ScreenDensity = 240
	DensityXLDPI   ScreenDensity = 320
	DensityXXLDPI  ScreenDensity = 480
	DensityXXXLDPI ScreenDensity = 640
)

// DPIBase is the dpi of a density ratio of 1.0.
const DPIBase = 160.0

var densityNames = map[ScreenDensity]string{
	DensitySDPI:    "sdpi",
	DensityMDPI:    "mdpi",
	DensityLDPI:    "ldpi",
	DensityXLDPI:   "xldpi",
	DensityXXLDPI:  "xxldpi",
	DensityXXXLDPI: "xxxldpi",
}

func (s ScreenDensity) String() string { return densityNames[s] }

// ParseScreenDensity resolves a bucket name such as "xldpi".
func ParseScreenDensity(s string) (ScreenDensity, bool) {
	for d, n := range densityNames {
		if n == s {
			return d, true
		}
	}
	return DensityNotSet, false
}

// densityBuckets is ordered by dpi, starting at the unset bucket.
var densityBuckets = []ScreenDensity{
	DensityNotSet, DensitySDPI, DensityMDPI, DensityLDPI, DensityXLDPI, DensityXXLDPI, DensityXXXLDPI,
}

// ConvertDensity maps a density ratio to the smallest bucket that covers it.
// Ratios beyond the largest bucket map to it; a zero ratio is unset.
func ConvertDensity(ratio float32) ScreenDensity {
	dpi := ratio * DPIBase
	res := DensityNotSet
	for _, b := range densityBuckets {
		res = b
		if dpi <= float32(b) {
			break
		}
	}
	return res
}

// MCC and MNC value zero means undefined.
const (
	MCCUndefined uint32 = 0
	MNCUndefined uint32 = 0
)
