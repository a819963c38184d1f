package progs

import (
	"fmt"
	"strconv"
)

// Value is a decoded global pool entry. The concrete type depends on the
// declared type the entry was read with: [Text], [Float], [Vector],
// [Entity], [FunctionRef], or [Unrepresentable] when no concrete
// interpretation exists.
type Value interface {
	// Inspect returns a display representation of the value.
	Inspect() string
}

// Text is a string value, already resolved through the string table.
type Text string

func (t Text) Inspect() string {
	return strconv.Quote(string(t))
}

// Float is a 32-bit float value.
type Float float32

func (f Float) Inspect() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// Vector is a three-component float vector.
type Vector struct {
	X, Y, Z float32
}

func (v Vector) Inspect() string {
	return fmt.Sprintf("(%s, %s, %s)",
		strconv.FormatFloat(float64(v.X), 'g', -1, 32),
		strconv.FormatFloat(float64(v.Y), 'g', -1, 32),
		strconv.FormatFloat(float64(v.Z), 'g', -1, 32))
}

// Entity is a raw entity index. Entity state lives in the engine, not in
// progs.dat, so the index is not resolved further.
type Entity uint32

func (e Entity) Inspect() string {
	return fmt.Sprintf("entity %d", uint32(e))
}

// FunctionRef is a global holding a function table index that resolved to a
// function record. The record's name is resolved through the aggregate, not
// here.
type FunctionRef struct {
	Index    uint32
	Function Function
}

func (f FunctionRef) Inspect() string {
	return fmt.Sprintf("function #%d", f.Index)
}

// Unrepresentable is a display placeholder for a global that has no concrete
// interpretation: either the declared type carries no storage semantics
// here, or a function index points outside the function table. It is a
// value, not an error, so reports can enumerate every symbol.
type Unrepresentable struct {
	// Declared is the type the global was read with.
	Declared Type

	// Index is the out-of-range function table index, meaningful only when
	// Declared is TypeFunction.
	Index uint32
}

func (u Unrepresentable) Inspect() string {
	if u.Declared == TypeFunction {
		return fmt.Sprintf("invalid function %d", u.Index)
	}
	return fmt.Sprintf("unhandled type: %s", u.Declared)
}
