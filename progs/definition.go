package progs

import "encoding/binary"

// definitionSize is the wire size of one definition record.
const definitionSize = 8

// saveGlobalBit is the top bit of the packed type field, flagging globals
// that the engine persists across level loads.
const saveGlobalBit = 1 << 15

// Definition is one symbol-table entry, mapping a name to a typed offset
// into the global pool (for global definitions) or the entity field layout
// (for field definitions). The name is resolved through the owning aggregate
// with [Progs.DefinitionName].
type Definition struct {
	Type       Type
	SaveGlobal bool

	// Offset is a byte offset into the relevant storage blob.
	Offset uint16

	// SName is a signed offset into the string table.
	SName int32
}

// decodeDefinition decodes one definition record from b, which must hold at
// least definitionSize bytes.
func decodeDefinition(b []byte, index int) (Definition, error) {
	packed := binary.LittleEndian.Uint16(b[0:])
	typ, ok := typeFromUint16(packed &^ saveGlobalBit)
	if !ok {
		return Definition{}, &InvalidEnumError{Kind: "type", Value: int(packed &^ saveGlobalBit), Index: index}
	}
	return Definition{
		Type:       typ,
		SaveGlobal: packed&saveGlobalBit != 0,
		Offset:     binary.LittleEndian.Uint16(b[2:]),
		SName:      int32(binary.LittleEndian.Uint32(b[4:])),
	}, nil
}
