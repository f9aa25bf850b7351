package converter

import (
	"strings"
	"time"

	"github.com/ginjaninja78/in1888-converter/internal/workbook"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// DECIMALS
// =============================================================================

// Output precisions.
const (
	MoneyDigits    int32 = 2
	QuantityDigits int32 = 10
)

// FormatDecimal renders v for a report line: null reads as zero, the value is
// rounded half away from zero to digits places, the sign is dropped, and the
// decimal point becomes a comma. The result always has exactly digits
// fractional digits.
//
//	FormatDecimal(2.345, 2)   -> "2,35"
//	FormatDecimal(-3.5, 2)    -> "3,50"
//	FormatDecimal(null, 10)   -> "0,0000000000"
func FormatDecimal(v decimal.NullDecimal, digits int32) string {
	d := decimal.Zero
	if v.Valid {
		d = v.Decimal
	}
	s := d.Round(digits).Abs().StringFixed(digits)
	return strings.Replace(s, ".", ",", 1)
}

// formatMoney and formatQuantity are the two precisions used on a line.
func formatMoney(d decimal.Decimal) string {
	return FormatDecimal(decimal.NewNullDecimal(d), MoneyDigits)
}

func formatQuantity(d decimal.Decimal) string {
	return FormatDecimal(decimal.NewNullDecimal(d), QuantityDigits)
}

// =============================================================================
// DATES
// =============================================================================

const outputDateLayout = "02012006"

// Largest serial Excel accepts (9999-12-31).
const maxExcelSerial = 2958465

var (
	timeSuffixes = []string{"", " 15:04", " 15:04:05"}

	dayFirstLayouts   = withTimes("2/1/2006", "2-1-2006", "2.1.2006", "2/1/06", "2-1-06", "2.1.06", "2 Jan 2006", "2-Jan-2006", "2-Jan-06")
	monthFirstLayouts = withTimes("1/2/2006", "1-2-2006", "1/2/06", "1-2-06", "Jan 2, 2006", "Jan 2 2006")
	isoLayouts        = append(withTimes("2006-1-2", "2006/1/2", "2006.1.2"),
		time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04")
)

func withTimes(dateLayouts ...string) []string {
	out := make([]string, 0, len(dateLayouts)*len(timeSuffixes))
	for _, d := range dateLayouts {
		for _, t := range timeSuffixes {
			out = append(out, d+t)
		}
	}
	return out
}

// FormatDate renders a DATE cell as DDMMYYYY.
//
// Date cells are formatted directly. Number cells are read as Excel serial
// dates. Text is tried day-first, then month-first, then as ISO
// year-month-day. Text that matches none of these is returned unchanged, so
// "N/A" stays "N/A". A blank cell yields "".
func FormatDate(c workbook.Cell) string {
	switch c.Kind {
	case workbook.KindEmpty:
		return ""
	case workbook.KindDate:
		return c.Time.Format(outputDateLayout)
	case workbook.KindNumber:
		if t, ok := serialToTime(c.Number); ok {
			return t.Format(outputDateLayout)
		}
		return c.Text
	case workbook.KindText:
		if t, ok := ParseDateText(c.Text); ok {
			return t.Format(outputDateLayout)
		}
	}
	return c.Text
}

// ParseDateText parses s with the day-first, month-first and ISO layouts,
// in that order. Two-digit years are read as 20YY.
func ParseDateText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, group := range [][]string{dayFirstLayouts, monthFirstLayouts, isoLayouts} {
		for _, layout := range group {
			t, err := time.Parse(layout, s)
			if err != nil {
				continue
			}
			if strings.Contains(layout, "06") && !strings.Contains(layout, "2006") && t.Year() < 2000 {
				t = t.AddDate(100, 0, 0)
			}
			return t, true
		}
	}
	return time.Time{}, false
}

// serialToTime converts an Excel serial (1900 date system) to a time.
func serialToTime(serial float64) (time.Time, bool) {
	if serial < 1 || serial > maxExcelSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
