// Package table renders rows of text as an ASCII table with aligned,
// padded columns. Cells may contain ANSI color sequences; alignment is
// computed on the visible width so colored cells do not break the layout.
package table

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Alignment controls how a cell is padded within its column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Table collects rows and renders them to a writer.
type Table struct {
	w           io.Writer
	header      []string
	rows        [][]string
	colAlign    []Alignment
	headerAlign []Alignment
}

// NewTable returns a table that renders to the given writer.
func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

// WithHeader sets the header row.
func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

// WithColumnAlignment sets the per-column alignment for body rows. Columns
// beyond the slice default to left alignment.
func (t *Table) WithColumnAlignment(align []Alignment) *Table {
	t.colAlign = align
	return t
}

// WithHeaderAlignment sets the per-column alignment for the header row.
// Columns beyond the slice default to center alignment.
func (t *Table) WithHeaderAlignment(align []Alignment) *Table {
	t.headerAlign = align
	return t
}

// WithRows replaces the body rows.
func (t *Table) WithRows(rows [][]string) *Table {
	t.rows = rows
	return t
}

// Append adds one body row.
func (t *Table) Append(row []string) *Table {
	t.rows = append(t.rows, row)
	return t
}

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

// stripAnsi removes ANSI escape sequences from s.
func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// visibleWidth returns the width of s excluding ANSI escape sequences.
func visibleWidth(s string) int {
	return len(stripAnsi(s))
}

// pad aligns s within width columns, preserving any ANSI sequences.
func pad(s string, width int, align Alignment) string {
	gap := width - visibleWidth(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

func alignFor(aligns []Alignment, col int, fallback Alignment) Alignment {
	if col < len(aligns) {
		return aligns[col]
	}
	return fallback
}

// Render writes the table. Every line, including the last, ends in a
// newline.
func (t *Table) Render() {
	cols := len(t.header)
	for _, row := range t.rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			if w := visibleWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString("+")
		sep.WriteString(strings.Repeat("-", w+2))
	}
	sep.WriteString("+\n")

	writeRow := func(row []string, aligns []Alignment, fallback Alignment) {
		var sb strings.Builder
		for i := 0; i < cols; i++ {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString("| ")
			sb.WriteString(pad(cell, widths[i], alignFor(aligns, i, fallback)))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
		fmt.Fprint(t.w, sb.String())
	}

	fmt.Fprint(t.w, sep.String())
	if len(t.header) > 0 {
		writeRow(t.header, t.headerAlign, AlignCenter)
		fmt.Fprint(t.w, sep.String())
	}
	for _, row := range t.rows {
		writeRow(row, t.colAlign, AlignLeft)
	}
	fmt.Fprint(t.w, sep.String())
}
