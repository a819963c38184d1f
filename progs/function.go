package progs

import "encoding/binary"

// MaxParms is the maximum number of parameters a function may declare.
const MaxParms = 8

// functionSize is the wire size of one function record: seven 32-bit fields
// followed by MaxParms parameter size bytes.
const functionSize = 28 + MaxParms

// Function is one compiled procedure. Name and source file are resolved
// through the owning aggregate with [Progs.FunctionName] and
// [Progs.FunctionFile].
type Function struct {
	// FirstStatement indexes into the statement list. Zero or negative
	// values identify a built-in function implemented by the engine.
	FirstStatement int32

	ParmStart uint32
	Locals    uint32

	// Profile is a decoder-internal counter slot with no meaning after
	// loading.
	Profile uint32

	// SName and SFile are offsets into the string table.
	SName uint32
	SFile uint32

	// ParmSizes holds one byte count per declared parameter.
	ParmSizes []uint8
}

// IsBuiltin reports whether the function is implemented by the engine rather
// than by statements in this file.
func (f Function) IsBuiltin() bool {
	return f.FirstStatement <= 0
}

// NumParms returns the declared parameter count.
func (f Function) NumParms() int {
	return len(f.ParmSizes)
}

// decodeFunction decodes one function record from b, which must hold at
// least functionSize bytes.
func decodeFunction(b []byte, index int) (Function, error) {
	numParms := binary.LittleEndian.Uint32(b[24:])
	if numParms > MaxParms {
		return Function{}, &InvalidEnumError{Kind: "parameter count", Value: int(numParms), Index: index}
	}
	parmSizes := make([]uint8, numParms)
	copy(parmSizes, b[28:28+numParms])
	return Function{
		FirstStatement: int32(binary.LittleEndian.Uint32(b[0:])),
		ParmStart:      binary.LittleEndian.Uint32(b[4:]),
		Locals:         binary.LittleEndian.Uint32(b[8:]),
		Profile:        binary.LittleEndian.Uint32(b[12:]),
		SName:          binary.LittleEndian.Uint32(b[16:]),
		SFile:          binary.LittleEndian.Uint32(b[20:]),
		ParmSizes:      parmSizes,
	}, nil
}
