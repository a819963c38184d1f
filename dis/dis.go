// Package dis renders decoded progs.dat data as human-readable disassembly.
// This works with the opcodes defined in the `op` package and the records
// decoded by the `progs` package.
package dis

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/quaketools/progs/internal/table"
	"github.com/quaketools/progs/op"
	"github.com/quaketools/progs/progs"
)

// binaryOp describes how a two-operand opcode is rendered: the operator
// symbol plus the result, left and right value types.
type binaryOp struct {
	Symbol string
	Result progs.Type
	Left   progs.Type
	Right  progs.Type
}

// binaryOps maps the opcodes that read two operand slots and write a result
// slot. Opcodes not in this map (loads, stores, calls, jumps) have operand
// semantics beyond a binary expression and fall back to a raw dump.
var binaryOps = map[op.Code]binaryOp{
	op.AddF:   {"+", progs.TypeFloat, progs.TypeFloat, progs.TypeFloat},
	op.SubF:   {"-", progs.TypeFloat, progs.TypeFloat, progs.TypeFloat},
	op.MulF:   {"*", progs.TypeFloat, progs.TypeFloat, progs.TypeFloat},
	op.DivF:   {"/", progs.TypeFloat, progs.TypeFloat, progs.TypeFloat},
	op.AddV:   {"+", progs.TypeVector, progs.TypeVector, progs.TypeVector},
	op.SubV:   {"-", progs.TypeVector, progs.TypeVector, progs.TypeVector},
	op.MulV:   {"*", progs.TypeVector, progs.TypeVector, progs.TypeVector},
	op.MulVF:  {"*vf", progs.TypeVector, progs.TypeFloat, progs.TypeVector},
	op.MulFV:  {"*fv", progs.TypeVector, progs.TypeVector, progs.TypeFloat},
	op.BitAnd: {"&", progs.TypeFloat, progs.TypeFloat, progs.TypeFloat},
	op.BitOr:  {"|", progs.TypeFloat, progs.TypeFloat, progs.TypeFloat},
	op.Ge:     {">=", progs.TypeFloat, progs.TypeFloat, progs.TypeFloat},
	op.Le:     {"<=", progs.TypeFloat, progs.TypeFloat, progs.TypeFloat},
	op.Gt:     {">", progs.TypeFloat, progs.TypeFloat, progs.TypeFloat},
	op.Lt:     {"<", progs.TypeFloat, progs.TypeFloat, progs.TypeFloat},
	op.And:    {"&&", progs.TypeFloat, progs.TypeFloat, progs.TypeFloat},
	op.Or:     {"||", progs.TypeFloat, progs.TypeFloat, progs.TypeFloat},
	op.EqF:    {"==", progs.TypeFloat, progs.TypeFloat, progs.TypeFloat},
	op.EqV:    {"==", progs.TypeFloat, progs.TypeVector, progs.TypeVector},
	op.EqS:    {"==", progs.TypeFloat, progs.TypeString, progs.TypeString},
	op.EqE:    {"==", progs.TypeFloat, progs.TypeEntity, progs.TypeEntity},
	op.EqFnc:  {"==", progs.TypeFloat, progs.TypeFunction, progs.TypeFunction},
	op.NeF:    {"!=", progs.TypeFloat, progs.TypeFloat, progs.TypeFloat},
	op.NeV:    {"!=", progs.TypeFloat, progs.TypeVector, progs.TypeVector},
	op.NeS:    {"!=", progs.TypeFloat, progs.TypeString, progs.TypeString},
	op.NeE:    {"!=", progs.TypeFloat, progs.TypeEntity, progs.TypeEntity},
	op.NeFnc:  {"!=", progs.TypeFloat, progs.TypeFunction, progs.TypeFunction},
}

// Format renders a statement as a pseudo-assembly expression when its opcode
// is a recognized binary operator. The operands are symbol-table slot
// offsets, not resolved values. Anything unmapped renders as a raw dump of
// the opcode and operands.
func Format(st progs.Statement) string {
	if b, ok := binaryOps[st.Op]; ok {
		return fmt.Sprintf("*(%s *)%d = *(%s *)%d %s *(%s *)%d",
			b.Result, st.C, b.Left, st.A, b.Symbol, b.Right, st.B)
	}
	return fmt.Sprintf("(%s, %d, %d, %d)", st.Op, st.A, st.B, st.C)
}

// Instruction is one statement prepared for display.
type Instruction struct {
	Index     int
	Statement progs.Statement
	Text      string

	// Comment names the function whose body starts at this statement,
	// empty otherwise.
	Comment string
}

// Disassemble returns a display representation of every statement, with a
// comment attached to each statement that is a function's entry point.
// String lookup failures render as placeholders and never fail the
// disassembly.
func Disassemble(p *progs.Progs) []Instruction {
	entries := make(map[int32]int, p.FunctionCount())
	for i := 0; i < p.FunctionCount(); i++ {
		entries[p.FunctionAt(i).FirstStatement] = i
	}
	instructions := make([]Instruction, 0, p.StatementCount())
	for i := 0; i < p.StatementCount(); i++ {
		st := p.StatementAt(i)
		ins := Instruction{Index: i, Statement: st, Text: Format(st)}
		if fi, ok := entries[int32(i)]; ok {
			fn := p.FunctionAt(fi)
			ins.Comment = fmt.Sprintf("// %s : %s",
				stringOrPlaceholder(p, int(fn.SFile)),
				stringOrPlaceholder(p, int(fn.SName)))
		}
		instructions = append(instructions, ins)
	}
	return instructions
}

// Print writes the instructions to the writer, one statement per line, with
// function-entry comments on their own lines.
func Print(instructions []Instruction, w io.Writer) {
	for _, ins := range instructions {
		if ins.Comment != "" {
			fmt.Fprintln(w, color.GreenString("%s", ins.Comment))
		}
		fmt.Fprintln(w, ins.Text)
	}
}

// PrintFunctions writes a table of every function: name, source file, body
// location and parameter sizes.
func PrintFunctions(p *progs.Progs, w io.Writer) {
	var rows [][]string
	for i := 0; i < p.FunctionCount(); i++ {
		fn := p.FunctionAt(i)
		body := fmt.Sprintf("%d", fn.FirstStatement)
		if fn.IsBuiltin() {
			body = color.MagentaString("builtin %d", -fn.FirstStatement)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			color.New(color.Bold).Sprint(stringOrPlaceholder(p, int(fn.SName))),
			stringOrPlaceholder(p, int(fn.SFile)),
			body,
			fmt.Sprintf("%v", fn.ParmSizes),
		})
	}
	table.NewTable(w).
		WithHeader([]string{"INDEX", "NAME", "FILE", "BODY", "PARMS"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithRows(rows).
		Render()
}

// PrintGlobals writes a table of every named global definition with its
// declared type, pool offset and decoded value. Lookup failures render as
// placeholders for that one entry.
func PrintGlobals(p *progs.Progs, w io.Writer) {
	var rows [][]string
	for i := 0; i < p.GlobalDefCount(); i++ {
		def := p.GlobalDefAt(i)
		rows = append(rows, []string{
			def.Type.String(),
			color.New(color.Bold).Sprint(stringOrPlaceholder(p, int(def.SName))),
			fmt.Sprintf("%d", def.Offset),
			formatGlobal(p, def),
		})
	}
	table.NewTable(w).
		WithHeader([]string{"TYPE", "NAME", "OFS", "VALUE"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignLeft,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithRows(rows).
		Render()
}

// formatGlobal decodes and colors one global's value.
func formatGlobal(p *progs.Progs, def progs.Definition) string {
	v, err := p.ReadGlobal(def.Offset, def.Type)
	if err != nil {
		return color.RedString("<%s>", err)
	}
	switch v := v.(type) {
	case progs.Text:
		return color.GreenString("%s", v.Inspect())
	case progs.Float, progs.Vector, progs.Entity:
		return color.YellowString("%s", v.Inspect())
	case progs.FunctionRef:
		name, err := p.FunctionName(v.Function)
		if err != nil {
			return color.MagentaString("%s", v.Inspect())
		}
		return color.MagentaString("function %s", name)
	default:
		return v.Inspect()
	}
}

// stringOrPlaceholder resolves a string table offset, substituting a
// placeholder when the offset is out of range.
func stringOrPlaceholder(p *progs.Progs, off int) string {
	s, err := p.StringAt(off)
	if err != nil {
		return fmt.Sprintf("<bad string offset %d>", off)
	}
	return s
}
