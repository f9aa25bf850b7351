package workbook

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the type of value a cell holds once read from a sheet.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindDate
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	}
	return "empty"
}

// Cell is a single typed spreadsheet value.
type Cell struct {
	Kind Kind

	// Text is the raw cell text. For number cells it is the stored
	// representation ("100.005"), not the displayed one.
	Text string

	// Number is set for KindNumber.
	Number float64

	// Time is set for KindDate.
	Time time.Time
}

// TextCell builds a text cell, or an empty cell when s is blank.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{Kind: KindEmpty, Text: s}
	}
	return Cell{Kind: KindText, Text: s}
}

// NumberCell builds a number cell.
func NumberCell(f float64) Cell {
	return Cell{Kind: KindNumber, Text: strconv.FormatFloat(f, 'f', -1, 64), Number: f}
}

// DateCell builds a date cell.
func DateCell(t time.Time) Cell {
	return Cell{Kind: KindDate, Text: t.Format(time.RFC3339), Time: t}
}

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == KindEmpty
}

// String returns the raw text of the cell.
func (c Cell) String() string {
	return c.Text
}

// inferCell types a value read as plain text: numbers become number cells,
// blanks become empty, everything else stays text.
func inferCell(s string) Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Cell{Kind: KindEmpty, Text: s}
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Cell{Kind: KindNumber, Text: trimmed, Number: f}
	}
	return Cell{Kind: KindText, Text: s}
}

// =============================================================================
// TABLE
// =============================================================================

// Table is one sheet read as a header row followed by data rows.
type Table struct {
	// Sheet is the name of the sheet the table was read from.
	Sheet string

	// Headers holds the first row verbatim.
	Headers []string

	// Rows holds every row after the header, in sheet order. Rows may be
	// shorter than Headers; missing cells read as empty.
	Rows [][]Cell
}

// Column returns the index of the header equal to name, or -1.
// Matching is exact and case-sensitive.
func (t *Table) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, col), or an empty cell when out of range.
func (t *Table) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return Cell{}
	}
	r := t.Rows[row]
	if col >= len(r) {
		return Cell{}
	}
	return r[col]
}
