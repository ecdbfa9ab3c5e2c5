package format

import "github.com/joshuapare/resindex/pkg/types"

// Decoders wrap these with context; they alias the public sentinels so
// errors.Is works across package boundaries.
var (
	ErrTruncated   = types.ErrTruncated
	ErrTagMismatch = types.ErrTagMismatch
	ErrEmptyIndex  = types.ErrEmptyIndex
	ErrCorrupt     = types.ErrCorrupt
)
