// =============================================================================
// IN1888 Report Generator - Workbook Reader
// =============================================================================
//
// This module opens the transaction spreadsheet and reads one sheet into a
// Table of typed cells. Two container formats are supported:
//
//   | Extension           | Library            |
//   |---------------------|--------------------|
//   | .xlsx .xlsm .xltx   | xuri/excelize/v2   |
//   | .xls                | extrame/xls        |
//
// The first row of a sheet is the header row. Every following row is data,
// blank rows included, so row counts match what the user sees in Excel.
//
// =============================================================================

package workbook

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnsupportedFormat is returned for files that are neither .xlsx nor .xls.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

	// ErrNoSheets is returned when a workbook contains no sheets.
	ErrNoSheets = errors.New("workbook has no sheets")

	// ErrSheetNotFound is returned by Workbook.Table for an unknown sheet name.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrUnreadable is returned when a file has a spreadsheet extension or
	// signature but its contents cannot be parsed.
	ErrUnreadable = errors.New("spreadsheet cannot be read")
)

// =============================================================================
// FORMAT DETECTION
// =============================================================================

// Format is the container format of a workbook.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

var (
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// FormatFromName maps a file name to a Format by extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
}

// sniffFormat looks at the leading bytes of r and rewinds it.
func sniffFormat(r io.ReadSeeker) (Format, error) {
	head := make([]byte, len(ole2Magic))
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read file header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind input: %w", err)
	}

	head = head[:n]
	switch {
	case bytes.HasPrefix(head, zipMagic):
		return FormatXLSX, nil
	case bytes.HasPrefix(head, ole2Magic):
		return FormatXLS, nil
	}
	return "", ErrUnsupportedFormat
}

// =============================================================================
// WORKBOOK
// =============================================================================

// sheetSource is implemented once per container format.
type sheetSource interface {
	sheetNames() []string
	table(name string) (*Table, error)
	close() error
}

// Workbook is an opened spreadsheet.
type Workbook struct {
	// Name is the file name or path the workbook was opened from.
	Name string

	// Format is the detected container format.
	Format Format

	src    sheetSource
	sheets []string
}

// Open opens the spreadsheet at path. The format is chosen by extension.
//
// PARAMETERS:
//   - path: The path to a .xlsx/.xlsm or .xls file.
//
// RETURNS:
//   - The opened Workbook. The caller must Close it.
//   - ErrUnsupportedFormat for other extensions, ErrNoSheets for an empty
//     workbook, or the underlying open error.
func Open(path string) (*Workbook, error) {
	format, err := FormatFromName(path)
	if err != nil {
		return nil, err
	}

	var src sheetSource
	switch format {
	case FormatXLSX:
		f, err := excelize.OpenFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to open workbook: %w", err)
			}
			return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
		}
		src = &xlsxSource{file: f}
	case FormatXLS:
		fh, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		s, err := newXLSSource(fh, fh)
		if err != nil {
			fh.Close()
			return nil, err
		}
		src = s
	}

	return newWorkbook(path, format, src)
}

// OpenReader opens a spreadsheet from r, detecting the format from its
// leading bytes. name is only used for messages.
func OpenReader(r io.ReadSeeker, name string) (*Workbook, error) {
	format, err := sniffFormat(r)
	if err != nil {
		return nil, err
	}

	var src sheetSource
	switch format {
	case FormatXLSX:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
		}
		src = &xlsxSource{file: f}
	case FormatXLS:
		s, err := newXLSSource(r, nil)
		if err != nil {
			return nil, err
		}
		src = s
	}

	return newWorkbook(name, format, src)
}

func newWorkbook(name string, format Format, src sheetSource) (*Workbook, error) {
	sheets := src.sheetNames()
	if len(sheets) == 0 {
		src.close()
		return nil, ErrNoSheets
	}
	return &Workbook{Name: name, Format: format, src: src, sheets: sheets}, nil
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	out := make([]string, len(w.sheets))
	copy(out, w.sheets)
	return out
}

// Resolve picks a sheet for hint. See ResolveSheet.
func (w *Workbook) Resolve(hint string) string {
	name, _ := ResolveSheet(w.sheets, hint)
	return name
}

// Table reads the named sheet.
func (w *Workbook) Table(name string) (*Table, error) {
	found := false
	for _, s := range w.sheets {
		if s == name {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}

	t, err := w.src.table(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	return t, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.src.close()
}

// =============================================================================
// XLSX SOURCE
// =============================================================================

type xlsxSource struct {
	file *excelize.File
}

func (s *xlsxSource) sheetNames() []string {
	return s.file.GetSheetList()
}

func (s *xlsxSource) close() error {
	return s.file.Close()
}

func (s *xlsxSource) table(name string) (*Table, error) {
	rows, err := s.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	t := &Table{Sheet: name}
	if len(rows) == 0 {
		return t, nil
	}

	t.Headers = append([]string(nil), rows[0]...)
	t.Rows = make([][]Cell, 0, len(rows)-1)

	for i := 1; i < len(rows); i++ {
		cells := make([]Cell, len(rows[i]))
		for j, raw := range rows[i] {
			cell, err := s.cell(name, j, i, raw)
			if err != nil {
				return nil, err
			}
			cells[j] = cell
		}
		t.Rows = append(t.Rows, cells)
	}

	return t, nil
}

// cell types a raw xlsx value using the cell's stored type attribute.
func (s *xlsxSource) cell(sheet string, col, row int, raw string) (Cell, error) {
	if strings.TrimSpace(raw) == "" {
		return Cell{Kind: KindEmpty, Text: raw}, nil
	}

	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return Cell{}, fmt.Errorf("invalid cell coordinates: %w", err)
	}
	typ, err := s.file.GetCellType(sheet, ref)
	if err != nil {
		return Cell{}, fmt.Errorf("failed to read type of %s: %w", ref, err)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return Cell{Kind: KindText, Text: raw}, nil
	case excelize.CellTypeBool:
		return Cell{Kind: KindBool, Text: raw}, nil
	case excelize.CellTypeDate:
		if t, ok := parseISOTime(raw); ok {
			return Cell{Kind: KindDate, Text: raw, Time: t}, nil
		}
		return Cell{Kind: KindText, Text: raw}, nil
	}
	return inferCell(raw), nil
}

// parseISOTime parses the ISO 8601 form Excel uses for t="d" cells.
func parseISOTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// =============================================================================
// XLS SOURCE
// =============================================================================

type xlsSource struct {
	book   *xls.WorkBook
	closer io.Closer
	names  []string
	index  map[string]int
}

func newXLSSource(r io.ReadSeeker, closer io.Closer) (s *xlsSource, err error) {
	// extrame/xls indexes its records without bounds checks and panics on
	// malformed files.
	defer func() {
		if p := recover(); p != nil {
			s, err = nil, fmt.Errorf("%w: %v", ErrUnreadable, p)
		}
	}()

	book, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if book == nil {
		return nil, fmt.Errorf("%w: no Workbook stream", ErrUnreadable)
	}

	s = &xlsSource{book: book, closer: closer, index: map[string]int{}}
	for i := 0; i < book.NumSheets(); i++ {
		sheet := book.GetSheet(i)
		if sheet == nil {
			continue
		}
		s.names = append(s.names, sheet.Name)
		s.index[sheet.Name] = i
	}
	return s, nil
}

func (s *xlsSource) sheetNames() []string {
	return s.names
}

func (s *xlsSource) close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// table reads an .xls sheet. The library hands back display strings, so
// cell kinds are inferred from the text. Dates in custom formats come back
// as RFC 3339 text and become date cells.
func (s *xlsSource) table(name string) (*Table, error) {
	sheet := s.book.GetSheet(s.index[name])
	if sheet == nil {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}

	t := &Table{Sheet: name}
	maxRow := int(sheet.MaxRow)
	for i := 0; i <= maxRow; i++ {
		row := xlsRow(sheet, i)

		var values []string
		if row != nil {
			// Rows without a ROW record report no columns; read at least
			// as wide as the header.
			width := row.LastCol()
			if width < len(t.Headers) {
				width = len(t.Headers)
			}
			values = make([]string, width)
			for j := range values {
				values[j] = row.Col(j)
			}
		}

		if i == 0 {
			t.Headers = values
			continue
		}

		cells := make([]Cell, len(values))
		for j, v := range values {
			cells[j] = xlsCell(v)
		}
		t.Rows = append(t.Rows, cells)
	}

	// Trailing blank rows are padding, not data.
	for len(t.Rows) > 0 && rowIsEmpty(t.Rows[len(t.Rows)-1]) {
		t.Rows = t.Rows[:len(t.Rows)-1]
	}

	return t, nil
}

// xlsRow returns row i, or nil when the sheet has no record for it.
// WorkSheet.Row dereferences missing rows.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func xlsCell(v string) Cell {
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(v)); err == nil {
		return Cell{Kind: KindDate, Text: v, Time: t}
	}
	return inferCell(v)
}

func rowIsEmpty(cells []Cell) bool {
	for _, c := range cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

