// =============================================================================
// IN1888 Report Generator - Shared Types
// =============================================================================
//
// This package contains the report types shared across modules so that the
// converter, the text writer and the HTTP server do not import each other.
// Types defined here are used by:
//   - converter
//   - txtwriter
//   - server
//
// =============================================================================

package types

import "strings"

// =============================================================================
// REPORT CODES
// =============================================================================

// Code identifies which of the two reports a line belongs to.
type Code string

const (
	// CodePurchase is the purchase report (0110).
	CodePurchase Code = "0110"

	// CodeSale is the sale report (0120).
	CodeSale Code = "0120"
)

// Valid reports whether c is one of the two report codes.
func (c Code) Valid() bool {
	return c == CodePurchase || c == CodeSale
}

// FieldSeparator separates the fields of a report line.
const FieldSeparator = "|"

// =============================================================================
// REPORT LINE
// =============================================================================

// ReportLine is one fully formatted output record. All fields are already in
// their final textual form; a ReportLine is never mutated after it is built.
type ReportLine struct {
	Code     Code
	Date     string // DDMMYYYY, or the raw cell text when it could not be parsed
	Flag     string
	Value    string // two decimals, comma separator
	Fee      string // two decimals, comma separator
	Asset    string
	Quantity string // ten decimals, comma separator
	Exchange string
	URL      string
	Country  string
}

// String renders the line in output layout:
//
//	CODE|DDMMYYYY|FLAG|VALUE|FEE|ASSET|QUANTITY|EXCHANGE|URL|COUNTRY
func (l ReportLine) String() string {
	return strings.Join([]string{
		string(l.Code),
		l.Date,
		l.Flag,
		l.Value,
		l.Fee,
		l.Asset,
		l.Quantity,
		l.Exchange,
		l.URL,
		l.Country,
	}, FieldSeparator)
}

// =============================================================================
// REPORT
// =============================================================================

// Report holds the two partitions produced from one sheet, in input order.
type Report struct {
	// SheetName is the sheet the rows were read from.
	SheetName string

	// Purchases holds the 0110 lines.
	Purchases []ReportLine

	// Sales holds the 0120 lines.
	Sales []ReportLine

	// Ignored counts rows whose type did not map to a report code.
	Ignored int

	// RowsRead counts the data rows seen, header excluded.
	RowsRead int
}

// Lines returns the partition for code. Unknown codes yield nil.
func (r *Report) Lines(code Code) []ReportLine {
	switch code {
	case CodePurchase:
		return r.Purchases
	case CodeSale:
		return r.Sales
	}
	return nil
}

// Strings renders lines in order.
func Strings(lines []ReportLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}
