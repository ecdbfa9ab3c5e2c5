package types

import (
	"errors"
	"strconv"
	"strings"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindTruncated   ErrKind = iota // a read ran past the end of the buffer
	ErrKindTagMismatch                // a chunk signature ("KEYS", "IDSS") was wrong
	ErrKindEmptyIndex                 // zero keys or zero declared length
	ErrKindCorrupt                    // structurally inconsistent sizes, counts or ids
	ErrKindNotFound                   // missing path, id or name
	ErrKindPathInvalid                // caller supplied path does not resolve
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindTruncated:
		return "truncated"
	case ErrKindTagMismatch:
		return "tag mismatch"
	case ErrKindEmptyIndex:
		return "empty index"
	case ErrKindCorrupt:
		return "corrupt"
	case ErrKindNotFound:
		return "not found"
	case ErrKindPathInvalid:
		return "path invalid"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels commonly returned by implementations. Wrap them with fmt.Errorf
// and %w to add context; errors.Is keeps working on the wrapped chain.
var (
	// ErrTruncated indicates a bounds violation while decoding an index.
	ErrTruncated = &Error{Kind: ErrKindTruncated, Msg: "index truncated"}
	// ErrTagMismatch indicates a chunk carried an unexpected signature.
	ErrTagMismatch = &Error{Kind: ErrKindTagMismatch, Msg: "index tag mismatch"}
	// ErrEmptyIndex indicates the index declares nothing to load.
	ErrEmptyIndex = &Error{Kind: ErrKindEmptyIndex, Msg: "index is empty"}
	// ErrCorrupt indicates non-recoverable structural inconsistency.
	ErrCorrupt = &Error{Kind: ErrKindCorrupt, Msg: "corrupt index structure"}
	// ErrNotFound indicates a missing path, resource id or name.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrPathInvalid indicates a caller supplied path that cannot be used.
	ErrPathInvalid = &Error{Kind: ErrKindPathInvalid, Msg: "path invalid"}
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrKind, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return 0, false
}

// -----------------------------------------------------------------------------
// Resource types
// -----------------------------------------------------------------------------

// ResType enumerates the resource kinds stored in an index.
// The numbers match the on-disk encoding.
type ResType uint32

const (
	VALUES      ResType = 0
	ANIMATION   ResType = 1
	DRAWABLE    ResType = 2
	LAYOUT      ResType = 3
	MENU        ResType = 4
	MIPMAP      ResType = 5
	RAW         ResType = 6
	XML         ResType = 7
	INTEGER     ResType = 8
	STRING      ResType = 9
	STRINGARRAY ResType = 10
	INTARRAY    ResType = 11
	BOOLEAN     ResType = 12
	DIMEN       ResType = 13
	COLOR       ResType = 14
	ID          ResType = 15
	THEME       ResType = 16
	PLURALS     ResType = 17
	FLOAT       ResType = 18
	MEDIA       ResType = 19
	PROF        ResType = 20
	SVG         ResType = 21
	PATTERN     ResType = 22
	SYMBOL      ResType = 23
)

// ResTypeCount is the number of defined resource types. Types at or above it
// are rejected by the v2 parser.
const ResTypeCount = 24

var resTypeNames = [ResTypeCount]string{
	"values", "animation", "drawable", "layout", "menu", "mipmap", "raw", "xml",
	"integer", "string", "strarray", "intarray", "boolean", "dimen", "color", "id",
	"theme", "plural", "float", "media", "prof", "svg", "pattern", "symbol",
}

func (t ResType) String() string {
	if t < ResTypeCount {
		return resTypeNames[t]
	}
	return "restype(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// Valid reports whether t is a defined resource type.
func (t ResType) Valid() bool { return t < ResTypeCount }

// IsArray reports whether values of this type are stored as string lists.
func (t ResType) IsArray() bool {
	switch t {
	case STRINGARRAY, INTARRAY, THEME, PLURALS, PATTERN:
		return true
	}
	return false
}

// ParseResType resolves a type name as printed by String.
func ParseResType(s string) (ResType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range resTypeNames {
		if n == s {
			return ResType(i), true
		}
	}
	switch s {
	case "stringarray", "strings":
		return STRINGARRAY, true
	case "plurals":
		return PLURALS, true
	}
	return 0, false
}

// -----------------------------------------------------------------------------
// Type selection
// -----------------------------------------------------------------------------

// SelectMask restricts which resource types a parser decodes.
type SelectMask uint32

const (
	SelectInteger     SelectMask = 0x00000001
	SelectString      SelectMask = 0x00000002
	SelectStringArray SelectMask = 0x00000004
	SelectIntArray    SelectMask = 0x00000008
	SelectBoolean     SelectMask = 0x00000010
	SelectColor       SelectMask = 0x00000020
	SelectTheme       SelectMask = 0x00000040
	SelectPlurals     SelectMask = 0x00000080
	SelectFloat       SelectMask = 0x00000100
	SelectMedia       SelectMask = 0x00000200
	SelectProf        SelectMask = 0x00000400
	SelectPattern     SelectMask = 0x00000800
	SelectSymbol      SelectMask = 0x00001000
	SelectAll         SelectMask = 0xFFFFFFFF
)

// SelectBit returns the mask bit of t. Types without a dedicated bit map to
// SelectAll so they are never filtered out.
func SelectBit(t ResType) SelectMask {
	switch t {
	case INTEGER:
		return SelectInteger
	case STRING:
		return SelectString
	case STRINGARRAY:
		return SelectStringArray
	case INTARRAY:
		return SelectIntArray
	case BOOLEAN:
		return SelectBoolean
	case COLOR:
		return SelectColor
	case THEME:
		return SelectTheme
	case PLURALS:
		return SelectPlurals
	case FLOAT:
		return SelectFloat
	case MEDIA:
		return SelectMedia
	case PROF:
		return SelectProf
	case PATTERN:
		return SelectPattern
	case SYMBOL:
		return SelectSymbol
	}
	return SelectAll
}

// Selects reports whether the mask admits type t.
func (m SelectMask) Selects(t ResType) bool {
	return m == SelectAll || m&SelectBit(t) != 0
}

// -----------------------------------------------------------------------------
// References
// -----------------------------------------------------------------------------

// refTypes lists the type names accepted in "$type:id" references.
var refTypes = map[string]ResType{
	"string":  STRING,
	"boolean": BOOLEAN,
	"color":   COLOR,
	"float":   FLOAT,
	"integer": INTEGER,
	"pattern": PATTERN,
	"theme":   THEME,
	"media":   MEDIA,
	"symbol":  SYMBOL,
	"plural":  PLURALS,
}

// ParseRef decodes a resource reference such as "$string:16777225".
func ParseRef(value string) (ResType, uint32, bool) {
	if !strings.HasPrefix(value, "$") {
		return 0, 0, false
	}
	typ, id, ok := strings.Cut(value[1:], ":")
	if !ok || typ == "" {
		return 0, 0, false
	}
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return 0, 0, false
	}
	t, ok := refTypes[typ]
	if !ok {
		return 0, 0, false
	}
	return t, uint32(n), true
}
