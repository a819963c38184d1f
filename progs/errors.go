package progs

import (
	"errors"
	"fmt"
)

// ErrTruncated indicates that the stream ended before a fixed-width read
// could complete. Errors returned by Load wrap it with the failing lump or
// record for context.
var ErrTruncated = errors.New("truncated input")

// InvalidEnumError indicates that a raw record field does not match any
// known discriminant: an unknown opcode, an unknown definition type, or a
// parameter count above MaxParms.
type InvalidEnumError struct {
	Kind  string // "opcode", "type" or "parameter count"
	Value int    // the offending raw value
	Index int    // record index within its lump
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("record %d: invalid %s value %d", e.Index, e.Kind, e.Value)
}

// BadOffsetError indicates that a string or global lookup offset falls
// outside its backing buffer. It is returned by lookups performed after
// construction and does not invalidate the aggregate.
type BadOffsetError struct {
	Section string // "strings" or "globals"
	Offset  int
	Size    int // backing buffer size
}

func (e *BadOffsetError) Error() string {
	return fmt.Sprintf("offset %d outside %s lump (%d bytes)", e.Offset, e.Section, e.Size)
}
