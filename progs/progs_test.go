package progs

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/quaketools/progs/op"
	"github.com/stretchr/testify/require"
)

func encodeHeader(h header) []byte {
	b := make([]byte, 0, headerSize)
	b = binary.LittleEndian.AppendUint32(b, h.Version)
	b = binary.LittleEndian.AppendUint32(b, h.CRC)
	for _, lu := range []lump{h.Statements, h.GlobalDefs, h.FieldDefs, h.Functions, h.Strings, h.Globals} {
		b = binary.LittleEndian.AppendUint32(b, lu.Offset)
		b = binary.LittleEndian.AppendUint32(b, lu.Count)
	}
	return b
}

func encodeStatement(opcode uint16, a, b, c int16) []byte {
	buf := make([]byte, 0, statementSize)
	buf = binary.LittleEndian.AppendUint16(buf, opcode)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(a))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(b))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(c))
	return buf
}

func encodeDefinition(packed uint16, ofs uint16, sname int32) []byte {
	buf := make([]byte, 0, definitionSize)
	buf = binary.LittleEndian.AppendUint16(buf, packed)
	buf = binary.LittleEndian.AppendUint16(buf, ofs)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sname))
	return buf
}

func encodeFunction(firstStatement int32, sname, sfile, numParms uint32, parmSizes [MaxParms]uint8) []byte {
	buf := make([]byte, 0, functionSize)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(firstStatement))
	buf = binary.LittleEndian.AppendUint32(buf, 28) // parm_start
	buf = binary.LittleEndian.AppendUint32(buf, 2)  // locals
	buf = binary.LittleEndian.AppendUint32(buf, 0)  // profile
	buf = binary.LittleEndian.AppendUint32(buf, sname)
	buf = binary.LittleEndian.AppendUint32(buf, sfile)
	buf = binary.LittleEndian.AppendUint32(buf, numParms)
	buf = append(buf, parmSizes[:]...)
	return buf
}

// buildFile assembles a complete progs.dat image with the lumps laid out
// after the header in wire order.
func buildFile(statements, globalDefs, fieldDefs, functions, strs, globals []byte) []byte {
	h := header{Version: 6, CRC: 0xBEEF}
	pos := uint32(headerSize)
	place := func(data []byte, elemSize int) lump {
		lu := lump{Offset: pos, Count: uint32(len(data) / elemSize)}
		pos += uint32(len(data))
		return lu
	}
	h.Statements = place(statements, statementSize)
	h.GlobalDefs = place(globalDefs, definitionSize)
	h.FieldDefs = place(fieldDefs, definitionSize)
	h.Functions = place(functions, functionSize)
	h.Strings = place(strs, 1)
	h.Globals = place(globals, 1)

	var file []byte
	file = append(file, encodeHeader(h)...)
	file = append(file, statements...)
	file = append(file, globalDefs...)
	file = append(file, fieldDefs...)
	file = append(file, functions...)
	file = append(file, strs...)
	file = append(file, globals...)
	return file
}

func TestParseHeaderRoundTrip(t *testing.T) {
	in := header{
		Version:    6,
		CRC:        0x1234,
		Statements: lump{Offset: 56, Count: 3},
		GlobalDefs: lump{Offset: 80, Count: 2},
		FieldDefs:  lump{Offset: 96, Count: 1},
		Functions:  lump{Offset: 104, Count: 4},
		Strings:    lump{Offset: 248, Count: 17},
		Globals:    lump{Offset: 265, Count: 40},
	}
	out, err := parseHeader(bytes.NewReader(encodeHeader(in)))
	require.NoError(t, err)
	require.Equal(t, in, out)
	require.Equal(t, encodeHeader(in), encodeHeader(out))
}

func TestParseHeaderTruncated(t *testing.T) {
	_, err := parseHeader(bytes.NewReader(make([]byte, headerSize-1)))
	require.ErrorIs(t, err, ErrTruncated)
}

func TestLoad(t *testing.T) {
	// String table: "" at 0, "progs.dat" at 1, "main" at 11, "origin" at 16.
	strs := []byte("\x00progs.dat\x00main\x00origin\x00")

	statements := append(
		encodeStatement(uint16(op.AddF), 1, 2, 3),
		encodeStatement(uint16(op.Done), 0, 0, 0)...,
	)
	functions := append(
		encodeFunction(-2, 11, 1, 0, [MaxParms]uint8{}),
		encodeFunction(0, 11, 1, 3, [MaxParms]uint8{4, 4, 4})...,
	)
	globalDefs := append(
		encodeDefinition(0x8002, 0, 16), // save_global float at pool offset 0
		encodeDefinition(0x0003, 4, 16)...,
	)
	fieldDefs := encodeDefinition(0x0002, 8, 16)

	globals := make([]byte, 16)
	binary.LittleEndian.PutUint32(globals, 0x3F800000) // 1.0

	p, err := Load(bytes.NewReader(buildFile(statements, globalDefs, fieldDefs, functions, strs, globals)))
	require.NoError(t, err)

	require.Equal(t, uint32(6), p.Version())
	require.Equal(t, uint32(0xBEEF), p.CRC())
	require.Equal(t, len(strs), p.StringsSize())
	require.Equal(t, len(globals), p.GlobalsSize())

	require.Equal(t, 2, p.StatementCount())
	require.Equal(t, Statement{Op: op.AddF, A: 1, B: 2, C: 3}, p.StatementAt(0))
	require.Equal(t, Statement{Op: op.Done}, p.StatementAt(1))

	require.Equal(t, 2, p.FunctionCount())
	builtin := p.FunctionAt(0)
	require.True(t, builtin.IsBuiltin())
	require.Equal(t, int32(-2), builtin.FirstStatement)
	require.Equal(t, 0, builtin.NumParms())

	fn := p.FunctionAt(1)
	require.True(t, fn.IsBuiltin()) // first_statement of zero is builtin too
	require.Equal(t, []uint8{4, 4, 4}, fn.ParmSizes)
	name, err := p.FunctionName(fn)
	require.NoError(t, err)
	require.Equal(t, "main", name)
	file, err := p.FunctionFile(fn)
	require.NoError(t, err)
	require.Equal(t, "progs.dat", file)

	require.Equal(t, 2, p.GlobalDefCount())
	def := p.GlobalDefAt(0)
	require.Equal(t, TypeFloat, def.Type)
	require.True(t, def.SaveGlobal)
	require.Equal(t, uint16(0), def.Offset)
	defName, err := p.DefinitionName(def)
	require.NoError(t, err)
	require.Equal(t, "origin", defName)

	require.Equal(t, TypeVector, p.GlobalDefAt(1).Type)
	require.False(t, p.GlobalDefAt(1).SaveGlobal)

	require.Equal(t, 1, p.FieldDefCount())
	require.Equal(t, TypeFloat, p.FieldDefAt(0).Type)
}

func TestLoadTruncatedLump(t *testing.T) {
	// Statement lump claims one record past the end of the file.
	h := header{Version: 6, Statements: lump{Offset: 1 << 20, Count: 1}}
	_, err := Load(bytes.NewReader(encodeHeader(h)))
	require.ErrorIs(t, err, ErrTruncated)
	require.Contains(t, err.Error(), "statements")
}

func TestLoadAllOpcodes(t *testing.T) {
	var statements []byte
	for raw := 0; raw < op.Count; raw++ {
		statements = append(statements, encodeStatement(uint16(raw), 0, 0, 0)...)
	}
	p, err := Load(bytes.NewReader(buildFile(statements, nil, nil, nil, nil, nil)))
	require.NoError(t, err)
	require.Equal(t, op.Count, p.StatementCount())
	for i := 0; i < p.StatementCount(); i++ {
		require.Equal(t, op.Code(i), p.StatementAt(i).Op)
	}
}

func TestLoadInvalidOpcode(t *testing.T) {
	statements := encodeStatement(uint16(op.Count), 0, 0, 0)
	_, err := Load(bytes.NewReader(buildFile(statements, nil, nil, nil, nil, nil)))
	var enumErr *InvalidEnumError
	require.ErrorAs(t, err, &enumErr)
	require.Equal(t, "opcode", enumErr.Kind)
	require.Equal(t, op.Count, enumErr.Value)
	require.Equal(t, 0, enumErr.Index)
}

func TestLoadInvalidDefinitionType(t *testing.T) {
	for _, packed := range []uint16{0x0008, 0x7FFF, 0xFFFF} {
		defs := encodeDefinition(packed, 0, 0)
		_, err := Load(bytes.NewReader(buildFile(nil, defs, nil, nil, nil, nil)))
		var enumErr *InvalidEnumError
		require.ErrorAs(t, err, &enumErr, "packed type 0x%04X must not decode", packed)
		require.Equal(t, "type", enumErr.Kind)
	}
}

func TestLoadInvalidParmCount(t *testing.T) {
	functions := encodeFunction(1, 0, 0, MaxParms+1, [MaxParms]uint8{})
	_, err := Load(bytes.NewReader(buildFile(nil, nil, nil, functions, nil, nil)))
	var enumErr *InvalidEnumError
	require.ErrorAs(t, err, &enumErr)
	require.Equal(t, "parameter count", enumErr.Kind)
}

func TestLoadTolerantRecords(t *testing.T) {
	statements := append(
		encodeStatement(uint16(op.Count)+10, 0, 0, 0), // invalid, skipped
		encodeStatement(uint16(op.Goto), 5, 0, 0)...,
	)
	defs := append(
		encodeDefinition(0x0009, 0, 0), // invalid, skipped
		encodeDefinition(0x0002, 0, 0)...,
	)
	p, err := Load(bytes.NewReader(buildFile(statements, defs, nil, nil, nil, nil)), WithTolerantRecords())
	require.Error(t, err)
	require.NotNil(t, p)
	require.Equal(t, 1, p.StatementCount())
	require.Equal(t, op.Goto, p.StatementAt(0).Op)
	require.Equal(t, 1, p.GlobalDefCount())
	require.Equal(t, TypeFloat, p.GlobalDefAt(0).Type)

	var enumErr *InvalidEnumError
	require.ErrorAs(t, err, &enumErr)

	// Truncation is still fatal in tolerant mode.
	h := header{Globals: lump{Offset: 1 << 20, Count: 8}}
	_, err = Load(bytes.NewReader(encodeHeader(h)), WithTolerantRecords())
	require.ErrorIs(t, err, ErrTruncated)
}

func TestLoadEmptyFile(t *testing.T) {
	_, err := Load(bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrTruncated)
}
