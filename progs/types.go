package progs

import "fmt"

// Type identifies the declared value type of a definition and drives the
// interpretation of global pool storage. The numeric values are part of the
// progs.dat wire format.
type Type int8

const (
	TypeBad Type = iota - 1
	TypeVoid
	TypeString
	TypeFloat
	TypeVector
	TypeEntity
	TypeField
	TypeFunction
	TypePointer
)

var typeNames = [...]string{
	TypeVoid:     "void",
	TypeString:   "string",
	TypeFloat:    "float",
	TypeVector:   "vector",
	TypeEntity:   "entity",
	TypeField:    "field",
	TypeFunction: "function",
	TypePointer:  "pointer",
}

// typeFromUint16 converts a masked definition type field into a Type,
// reporting whether the value names a known type. TypeBad is a sentinel and
// never arises from the wire.
func typeFromUint16(raw uint16) (Type, bool) {
	if int(raw) >= len(typeNames) {
		return TypeBad, false
	}
	return Type(raw), true
}

// Valid reports whether the type is one of the known wire discriminants.
func (t Type) Valid() bool {
	return t >= TypeVoid && int(t) < len(typeNames)
}

// String returns the lowercase type name, e.g. "float".
func (t Type) String() string {
	if t == TypeBad {
		return "bad"
	}
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int8(t))
	}
	return typeNames[t]
}
