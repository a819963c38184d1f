package progs

import (
	"encoding/binary"

	"github.com/quaketools/progs/op"
)

// statementSize is the wire size of one statement record.
const statementSize = 8

// Statement is one VM instruction: an opcode and three signed operands whose
// meaning is opcode-dependent (operand slot offsets, jump deltas, or call
// argument counts).
type Statement struct {
	Op op.Code
	A  int16
	B  int16
	C  int16
}

// decodeStatement decodes one statement record from b, which must hold at
// least statementSize bytes.
func decodeStatement(b []byte, index int) (Statement, error) {
	raw := binary.LittleEndian.Uint16(b[0:])
	code, ok := op.FromUint16(raw)
	if !ok {
		return Statement{}, &InvalidEnumError{Kind: "opcode", Value: int(raw), Index: index}
	}
	return Statement{
		Op: code,
		A:  int16(binary.LittleEndian.Uint16(b[2:])),
		B:  int16(binary.LittleEndian.Uint16(b[4:])),
		C:  int16(binary.LittleEndian.Uint16(b[6:])),
	}, nil
}
