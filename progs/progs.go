package progs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hashicorp/go-multierror"
)

// headerSize is the wire size of the header: version, crc, and six
// (offset, count) lump entries.
const headerSize = 8 + 6*8

// lump locates one region of the file. Count is a record count for record
// lumps and a byte count for the strings and globals lumps.
type lump struct {
	Offset uint32
	Count  uint32
}

type header struct {
	Version uint32
	CRC     uint32

	// Lump order is fixed by the wire format.
	Statements lump
	GlobalDefs lump
	FieldDefs  lump
	Functions  lump
	Strings    lump
	Globals    lump
}

// parseHeader reads the header at the current stream position. Offsets and
// counts are not validated here; a lump pointing beyond the stream surfaces
// as ErrTruncated when it is read.
func parseHeader(r io.Reader) (header, error) {
	var b [headerSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return header{}, fmt.Errorf("header: %w", ErrTruncated)
	}
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }
	lumpAt := func(off int) lump { return lump{Offset: u32(off), Count: u32(off + 4)} }
	return header{
		Version:    u32(0),
		CRC:        u32(4),
		Statements: lumpAt(8),
		GlobalDefs: lumpAt(16),
		FieldDefs:  lumpAt(24),
		Functions:  lumpAt(32),
		Strings:    lumpAt(40),
		Globals:    lumpAt(48),
	}, nil
}

// Progs is the decoded progs.dat aggregate. See the package documentation
// for the immutability and error contracts.
type Progs struct {
	version uint32
	crc     uint32

	strings []byte
	globals []byte

	functions  []Function
	statements []Statement
	globalDefs []Definition
	fieldDefs  []Definition
}

type config struct {
	tolerant bool
}

// Option configures a Load call.
type Option func(*config)

// WithTolerantRecords makes Load skip statement, definition and function
// records that fail validation instead of aborting the decode. The skipped
// records are reported through a combined error returned alongside the
// otherwise usable aggregate. Truncation still aborts the whole load.
func WithTolerantRecords() Option {
	return func(c *config) {
		c.tolerant = true
	}
}

// loader carries decode state shared across the record lumps.
type loader struct {
	r        io.ReadSeeker
	tolerant bool
	skipped  *multierror.Error
}

// readLump seeks to the lump and reads count*elemSize bytes in full.
func (l *loader) readLump(name string, lu lump, elemSize int) ([]byte, error) {
	size := int64(lu.Count) * int64(elemSize)
	if size == 0 {
		return nil, nil
	}
	if _, err := l.r.Seek(int64(lu.Offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("%s lump: seek to %d: %w", name, lu.Offset, err)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(l.r, buf); err != nil {
		return nil, fmt.Errorf("%s lump at offset %d: %w", name, lu.Offset, ErrTruncated)
	}
	return buf, nil
}

// decodeRecords reads a record lump and decodes its fixed-width records. In
// tolerant mode, records that fail validation are collected on the loader
// and skipped.
func decodeRecords[T any](l *loader, name string, lu lump, size int, decode func([]byte, int) (T, error)) ([]T, error) {
	buf, err := l.readLump(name, lu, size)
	if err != nil {
		return nil, err
	}
	records := make([]T, 0, lu.Count)
	for i := 0; i < int(lu.Count); i++ {
		rec, err := decode(buf[i*size:(i+1)*size], i)
		if err != nil {
			if l.tolerant {
				l.skipped = multierror.Append(l.skipped, fmt.Errorf("%s lump: %w", name, err))
				continue
			}
			return nil, fmt.Errorf("%s lump: %w", name, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Load decodes a complete progs.dat from r. The decode is a single linear
// pass driven by seeks into r; r is not retained.
//
// With [WithTolerantRecords], a non-nil aggregate may be returned together
// with a non-nil error describing the records that were skipped.
func Load(r io.ReadSeeker, opts ...Option) (*Progs, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	hdr, err := parseHeader(r)
	if err != nil {
		return nil, err
	}

	l := &loader{r: r, tolerant: cfg.tolerant}
	p := &Progs{version: hdr.Version, crc: hdr.CRC}

	if p.strings, err = l.readLump("strings", hdr.Strings, 1); err != nil {
		return nil, err
	}
	if p.globals, err = l.readLump("globals", hdr.Globals, 1); err != nil {
		return nil, err
	}
	if p.functions, err = decodeRecords(l, "functions", hdr.Functions, functionSize, decodeFunction); err != nil {
		return nil, err
	}
	if p.statements, err = decodeRecords(l, "statements", hdr.Statements, statementSize, decodeStatement); err != nil {
		return nil, err
	}
	if p.globalDefs, err = decodeRecords(l, "global_defs", hdr.GlobalDefs, definitionSize, decodeDefinition); err != nil {
		return nil, err
	}
	if p.fieldDefs, err = decodeRecords(l, "field_defs", hdr.FieldDefs, definitionSize, decodeDefinition); err != nil {
		return nil, err
	}

	return p, l.skipped.ErrorOrNil()
}

// Version returns the declared progs format version.
func (p *Progs) Version() uint32 { return p.version }

// CRC returns the source-definition checksum stored in the header. It is
// read but not verified.
func (p *Progs) CRC() uint32 { return p.crc }

// StringsSize returns the size of the string table in bytes.
func (p *Progs) StringsSize() int { return len(p.strings) }

// GlobalsSize returns the size of the global pool in bytes.
func (p *Progs) GlobalsSize() int { return len(p.globals) }

// FunctionCount returns the number of function records.
func (p *Progs) FunctionCount() int { return len(p.functions) }

// FunctionAt returns the function record at index i.
func (p *Progs) FunctionAt(i int) Function { return p.functions[i] }

// StatementCount returns the number of statement records.
func (p *Progs) StatementCount() int { return len(p.statements) }

// StatementAt returns the statement record at index i.
func (p *Progs) StatementAt(i int) Statement { return p.statements[i] }

// GlobalDefCount returns the number of global definition records.
func (p *Progs) GlobalDefCount() int { return len(p.globalDefs) }

// GlobalDefAt returns the global definition record at index i.
func (p *Progs) GlobalDefAt(i int) Definition { return p.globalDefs[i] }

// FieldDefCount returns the number of field definition records.
func (p *Progs) FieldDefCount() int { return len(p.fieldDefs) }

// FieldDefAt returns the field definition record at index i.
func (p *Progs) FieldDefAt(i int) Definition { return p.fieldDefs[i] }

// StringAt resolves a string table offset to the NUL-terminated text
// starting there. If no NUL follows the offset, the remainder of the table
// is returned. An offset outside the table is a *BadOffsetError.
func (p *Progs) StringAt(off int) (string, error) {
	if off < 0 || off >= len(p.strings) {
		return "", &BadOffsetError{Section: "strings", Offset: off, Size: len(p.strings)}
	}
	rest := p.strings[off:]
	if i := bytes.IndexByte(rest, 0); i >= 0 {
		rest = rest[:i]
	}
	return string(rest), nil
}

// FunctionName resolves the function's name through the string table.
func (p *Progs) FunctionName(fn Function) (string, error) {
	return p.StringAt(int(fn.SName))
}

// FunctionFile resolves the function's source file through the string table.
func (p *Progs) FunctionFile(fn Function) (string, error) {
	return p.StringAt(int(fn.SFile))
}

// DefinitionName resolves the definition's name through the string table.
func (p *Progs) DefinitionName(def Definition) (string, error) {
	return p.StringAt(int(def.SName))
}

// ReadGlobal interprets the global pool bytes at ofs according to the
// declared type. Declared types with no storage interpretation here, and
// function indices outside the function table, yield an [Unrepresentable]
// placeholder rather than an error. Reads beyond the pool are a
// *BadOffsetError.
func (p *Progs) ReadGlobal(ofs uint16, t Type) (Value, error) {
	switch t {
	case TypeString:
		raw, err := p.globalUint32(int(ofs))
		if err != nil {
			return nil, err
		}
		s, err := p.StringAt(int(raw))
		if err != nil {
			return nil, err
		}
		return Text(s), nil
	case TypeFloat:
		raw, err := p.globalUint32(int(ofs))
		if err != nil {
			return nil, err
		}
		return Float(math.Float32frombits(raw)), nil
	case TypeVector:
		var v Vector
		for i, dst := range []*float32{&v.X, &v.Y, &v.Z} {
			raw, err := p.globalUint32(int(ofs) + 4*i)
			if err != nil {
				return nil, err
			}
			*dst = math.Float32frombits(raw)
		}
		return v, nil
	case TypeEntity:
		raw, err := p.globalUint32(int(ofs))
		if err != nil {
			return nil, err
		}
		return Entity(raw), nil
	case TypeFunction:
		raw, err := p.globalUint32(int(ofs))
		if err != nil {
			return nil, err
		}
		if int64(raw) < int64(len(p.functions)) {
			return FunctionRef{Index: raw, Function: p.functions[raw]}, nil
		}
		return Unrepresentable{Declared: TypeFunction, Index: raw}, nil
	default:
		return Unrepresentable{Declared: t}, nil
	}
}

// globalUint32 reads a little-endian u32 from the global pool.
func (p *Progs) globalUint32(off int) (uint32, error) {
	if off < 0 || off+4 > len(p.globals) {
		return 0, &BadOffsetError{Section: "globals", Offset: off, Size: len(p.globals)}
	}
	return binary.LittleEndian.Uint32(p.globals[off:]), nil
}
