package converter

import (
	"github.com/ginjaninja78/in1888-converter/internal/config"
	"github.com/ginjaninja78/in1888-converter/internal/workbook"
	"github.com/shopspring/decimal"
)

// RawRow is one data row with each field pulled out of its column. Optional
// columns that are absent from the sheet read as empty cells.
type RawRow struct {
	// Line is the 1-based sheet row number, header included.
	Line int

	Date       workbook.Cell
	Type       workbook.Cell
	Depositor  workbook.Cell
	Quantity   workbook.Cell
	TotalValue workbook.Cell
	FixedFee   workbook.Cell
	LocalFee   workbook.Cell
	Exchange   workbook.Cell
	Asset      workbook.Cell
}

// NormalizedRow is a RawRow after type coercion. Unparseable numbers are
// zero and unparseable dates keep their original text.
type NormalizedRow struct {
	Line      int
	Date      string
	Type      string
	Depositor string
	Exchange  string
	Asset     string
	Quantity  decimal.Decimal
	Value     decimal.Decimal
	Fee       decimal.Decimal
}

// columnIndex records where each field sits in the header row. -1 marks an
// absent optional column.
type columnIndex struct {
	date, typ, depositor, quantity, value, fee int
	localFee, exchange, asset                  int
}

// indexColumns locates the configured columns in t. Required columns must
// already have been validated.
func indexColumns(t *workbook.Table, cols config.Columns) columnIndex {
	optional := func(name string) int {
		if name == "" {
			return -1
		}
		return t.Column(name)
	}

	return columnIndex{
		date:      t.Column(cols.Date),
		typ:       t.Column(cols.Type),
		depositor: t.Column(cols.Depositor),
		quantity:  t.Column(cols.Quantity),
		value:     t.Column(cols.TotalValue),
		fee:       t.Column(cols.FixedFee),
		localFee:  optional(cols.LocalFee),
		exchange:  optional(cols.Exchange),
		asset:     optional(cols.Asset),
	}
}

// row extracts data row i of t.
func (ix columnIndex) row(t *workbook.Table, i int) RawRow {
	return RawRow{
		Line:       i + 2,
		Date:       t.Cell(i, ix.date),
		Type:       t.Cell(i, ix.typ),
		Depositor:  t.Cell(i, ix.depositor),
		Quantity:   t.Cell(i, ix.quantity),
		TotalValue: t.Cell(i, ix.value),
		FixedFee:   t.Cell(i, ix.fee),
		LocalFee:   t.Cell(i, ix.localFee),
		Exchange:   t.Cell(i, ix.exchange),
		Asset:      t.Cell(i, ix.asset),
	}
}
