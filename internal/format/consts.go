// Package format houses low-level decoders for the resource index file
// formats. Both layouts are little-endian and start with a 128-byte version
// string; the v2 layout adds a data block offset and stores values lazily.
package format

var (
	// KeysTag opens every qualifier record in both layouts.
	KeysTag = [4]byte{'K', 'E', 'Y', 'S'}

	// IdsTag opens the v1 per-key id list and the v2 ids block.
	IdsTag = [4]byte{'I', 'D', 'S', 'S'}
)

const (
	// VersionLen is the size of the version string that opens both headers.
	VersionLen = 128

	// HeaderV1Size is the size of the v1 header.
	//
	//	Offset  Size  Description
	//	------  ----  -------------------------
	//	 0x00   128   version string (NUL padded)
	//	 0x80     4   total length
	//	 0x84     4   key count
	HeaderV1Size = VersionLen + 8

	// HeaderV2Size is the size of the v2 header: the v1 fields followed by
	// the 4-byte offset of the data block.
	HeaderV2Size = VersionLen + 12

	// KeyHeaderSize covers tag, id-list offset (v1) or config id (v2), and param count.
	KeyHeaderSize = 12

	// KeyParamSize is one qualifier param: type then raw value.
	KeyParamSize = 8

	// IdsHeaderV1Size covers tag and id count.
	IdsHeaderV1Size = 8

	// IdParamSize is one v1 (id, item offset) pair.
	IdParamSize = 8

	// ItemHeaderSize covers size, type and id of a v1 item.
	ItemHeaderSize = 12

	// IdsHeaderV2Size covers tag, length, type count and id count.
	IdsHeaderV2Size = 16

	// TypeInfoSize covers type, length and count of one v2 type section.
	TypeInfoSize = 12

	// ResItemSize covers id, info offset and name length of one v2 entry.
	ResItemSize = 12

	// ResInfoSize covers id, length and value count at a v2 entry's offset.
	ResInfoSize = 12

	// ConfigItemSize is one v2 (config id, value offset) pair.
	ConfigItemSize = 8

	// StrLenSize is the width of every string and array length prefix.
	StrLenSize = 2
)

// Version identifies an index layout.
type Version int

const (
	V1 Version = 1
	V2 Version = 2
)

func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	}
	return "unknown"
}
