// =============================================================================
// IN1888 Report Generator - Row Transformation
// =============================================================================
//
// This module turns a RawRow into a NormalizedRow. Every field has its own
// conversion and its own fallback:
//
//   | Field        | Conversion                          | On failure        |
//   |--------------|-------------------------------------|-------------------|
//   | Date         | FormatDate                          | original text     |
//   | Type         | trim, upper-case                    | (never fails)     |
//   | Quantity     | parseDecimal                        | zero              |
//   | Total value  | parseDecimal                        | zero              |
//   | Fixed fee    | parseDecimal (local fee if enabled) | zero              |
//   | Exchange     | per-row column, else constant       | constant          |
//   | Asset        | per-row column, else constant       | constant          |
//
// Failures are logged at debug level and never stop the run.
//
// =============================================================================

package converter

import (
	"errors"
	"strings"

	"github.com/ginjaninja78/in1888-converter/internal/config"
	"github.com/ginjaninja78/in1888-converter/internal/logging"
	"github.com/ginjaninja78/in1888-converter/internal/types"
	"github.com/ginjaninja78/in1888-converter/internal/workbook"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer normalizes raw rows using the report settings.
type Transformer struct {
	report config.ReportConfig
	logger logrus.FieldLogger
}

// NewTransformer creates a Transformer for the given report settings.
func NewTransformer(report config.ReportConfig, logger logrus.FieldLogger) *Transformer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Transformer{report: report, logger: logger}
}

// NormalizeType trims and upper-cases a transaction type cell.
func NormalizeType(c workbook.Cell) string {
	return strings.ToUpper(strings.TrimSpace(c.Text))
}

// Transform converts every field of raw.
func (t *Transformer) Transform(raw RawRow) NormalizedRow {
	row := NormalizedRow{
		Line:      raw.Line,
		Date:      FormatDate(raw.Date),
		Type:      NormalizeType(raw.Type),
		Depositor: strings.TrimSpace(raw.Depositor.Text),
		Exchange:  t.report.Exchange,
		Asset:     t.report.Asset,
	}

	if !raw.Date.IsEmpty() && raw.Date.Kind != workbook.KindDate && row.Date == raw.Date.Text {
		t.logger.WithFields(logrus.Fields{
			logging.FieldRow:    raw.Line,
			logging.FieldColumn: "date",
			logging.FieldValue:  raw.Date.Text,
		}).Debug("Date not recognised, keeping original text")
	}

	row.Quantity = t.number(raw.Line, "quantity", raw.Quantity)
	row.Value = t.number(raw.Line, "total_value", raw.TotalValue)

	feeCell, feeColumn := raw.FixedFee, "fixed_fee"
	if t.report.FeeFallbackToLocal && raw.FixedFee.IsEmpty() {
		feeCell, feeColumn = raw.LocalFee, "local_fee"
	}
	row.Fee = t.number(raw.Line, feeColumn, feeCell)

	row.Exchange = t.override(raw.Line, "exchange", raw.Exchange, row.Exchange)
	row.Asset = t.override(raw.Line, "asset", raw.Asset, row.Asset)

	return row
}

// override returns the upper-cased cell text, or fallback when the cell is
// blank or holds the field separator.
func (t *Transformer) override(line int, column string, c workbook.Cell, fallback string) string {
	v := strings.ToUpper(strings.TrimSpace(c.Text))
	if v == "" {
		return fallback
	}
	if strings.Contains(v, types.FieldSeparator) {
		t.logger.WithFields(logrus.Fields{
			logging.FieldRow:    line,
			logging.FieldColumn: column,
			logging.FieldValue:  c.Text,
		}).Debug("Value contains the field separator, using the configured default")
		return fallback
	}
	return v
}

// number parses a numeric field, logging and zeroing it on failure. Blank
// cells are zero without a log entry.
func (t *Transformer) number(line int, column string, c workbook.Cell) decimal.Decimal {
	d, err := parseOr(c, parseDecimal, decimal.Zero)
	if err != nil && !errors.Is(err, errBlankCell) {
		t.logger.WithFields(logrus.Fields{
			logging.FieldRow:    line,
			logging.FieldColumn: column,
			logging.FieldValue:  c.Text,
		}).WithError(err).Debug("Numeric value not recognised, using zero")
	}
	return d
}
