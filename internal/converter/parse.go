package converter

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ginjaninja78/in1888-converter/internal/workbook"
	"github.com/shopspring/decimal"
)

var errBlankCell = errors.New("blank cell")

// parseOr applies parse to c and returns def when the cell is blank or parse
// fails. Each numeric field goes through it independently, so one bad cell
// only zeroes that field.
func parseOr[T any](c workbook.Cell, parse func(workbook.Cell) (T, error), def T) (T, error) {
	if c.IsEmpty() {
		return def, errBlankCell
	}
	v, err := parse(c)
	if err != nil {
		return def, err
	}
	return v, nil
}

// parseDecimal reads a number or numeric text cell.
//
// Number cells go through their float64 value, whose shortest representation
// is what the spreadsheet displays (0.1 stays 0.1). Text is parsed as a
// decimal literal with a '.' separator; surrounding spaces are ignored.
func parseDecimal(c workbook.Cell) (decimal.Decimal, error) {
	switch c.Kind {
	case workbook.KindNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return decimal.Zero, fmt.Errorf("not a finite number: %v", c.Number)
		}
		return decimal.NewFromFloat(c.Number), nil
	case workbook.KindText:
		d, err := decimal.NewFromString(strings.TrimSpace(c.Text))
		if err != nil {
			return decimal.Zero, fmt.Errorf("not a decimal: %q", c.Text)
		}
		return d, nil
	}
	return decimal.Zero, fmt.Errorf("%s cell is not numeric", c.Kind)
}
