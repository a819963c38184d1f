// Package op defines the opcodes used by the QuakeC virtual machine as they
// appear in compiled progs.dat statements.
package op

import "fmt"

// Code is an integer opcode that selects a VM instruction's operation.
// The numeric values are part of the progs.dat wire format and must not be
// reordered.
type Code uint16

const (
	Done Code = iota

	// Arithmetic
	MulF
	MulV
	MulFV
	MulVF
	DivF
	AddF
	AddV
	SubF
	SubV

	// Comparison
	EqF
	EqV
	EqS
	EqE
	EqFnc
	NeF
	NeV
	NeS
	NeE
	NeFnc
	Le
	Ge
	Lt
	Gt

	// Load
	LoadF
	LoadV
	LoadS
	LoadEnt
	LoadFld
	LoadFnc
	Address

	// Store
	StoreF
	StoreV
	StoreS
	StoreEnt
	StoreFld
	StoreFnc
	StorepF
	StorepV
	StorepS
	StorepEnt
	StorepFld
	StorepFnc

	Return

	// Logical not
	NotF
	NotV
	NotS
	NotEnt
	NotFnc

	// Control flow
	If
	IfNot

	// Calls by argument count
	Call0
	Call1
	Call2
	Call3
	Call4
	Call5
	Call6
	Call7
	Call8

	State
	Goto

	// Logical and bitwise
	And
	Or
	BitAnd
	BitOr
)

// Count is the number of defined opcodes. Raw values at or above Count are
// invalid.
const Count = int(BitOr) + 1

var names = [Count]string{
	Done:      "DONE",
	MulF:      "MUL_F",
	MulV:      "MUL_V",
	MulFV:     "MUL_FV",
	MulVF:     "MUL_VF",
	DivF:      "DIV_F",
	AddF:      "ADD_F",
	AddV:      "ADD_V",
	SubF:      "SUB_F",
	SubV:      "SUB_V",
	EqF:       "EQ_F",
	EqV:       "EQ_V",
	EqS:       "EQ_S",
	EqE:       "EQ_E",
	EqFnc:     "EQ_FNC",
	NeF:       "NE_F",
	NeV:       "NE_V",
	NeS:       "NE_S",
	NeE:       "NE_E",
	NeFnc:     "NE_FNC",
	Le:        "LE",
	Ge:        "GE",
	Lt:        "LT",
	Gt:        "GT",
	LoadF:     "LOAD_F",
	LoadV:     "LOAD_V",
	LoadS:     "LOAD_S",
	LoadEnt:   "LOAD_ENT",
	LoadFld:   "LOAD_FLD",
	LoadFnc:   "LOAD_FNC",
	Address:   "ADDRESS",
	StoreF:    "STORE_F",
	StoreV:    "STORE_V",
	StoreS:    "STORE_S",
	StoreEnt:  "STORE_ENT",
	StoreFld:  "STORE_FLD",
	StoreFnc:  "STORE_FNC",
	StorepF:   "STOREP_F",
	StorepV:   "STOREP_V",
	StorepS:   "STOREP_S",
	StorepEnt: "STOREP_ENT",
	StorepFld: "STOREP_FLD",
	StorepFnc: "STOREP_FNC",
	Return:    "RETURN",
	NotF:      "NOT_F",
	NotV:      "NOT_V",
	NotS:      "NOT_S",
	NotEnt:    "NOT_ENT",
	NotFnc:    "NOT_FNC",
	If:        "IF",
	IfNot:     "IFNOT",
	Call0:     "CALL0",
	Call1:     "CALL1",
	Call2:     "CALL2",
	Call3:     "CALL3",
	Call4:     "CALL4",
	Call5:     "CALL5",
	Call6:     "CALL6",
	Call7:     "CALL7",
	Call8:     "CALL8",
	State:     "STATE",
	Goto:      "GOTO",
	And:       "AND",
	Or:        "OR",
	BitAnd:    "BITAND",
	BitOr:     "BITOR",
}

// FromUint16 converts a raw statement opcode into a Code, reporting whether
// the value names a defined opcode.
func FromUint16(raw uint16) (Code, bool) {
	if int(raw) >= Count {
		return 0, false
	}
	return Code(raw), true
}

// Valid reports whether the code is a defined opcode.
func (c Code) Valid() bool {
	return int(c) < Count
}

// String returns the opcode's mnemonic, e.g. "ADD_F".
func (c Code) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Code(%d)", uint16(c))
	}
	return names[c]
}

// IsCall reports whether the code is one of the CALL0-CALL8 opcodes.
func (c Code) IsCall() bool {
	return c >= Call0 && c <= Call8
}

// CallArgs returns the argument count encoded in a CALL0-CALL8 opcode.
// It returns -1 for any other opcode.
func (c Code) CallArgs() int {
	if !c.IsCall() {
		return -1
	}
	return int(c - Call0)
}
