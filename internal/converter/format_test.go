package converter

import (
	"testing"
	"time"

	"github.com/ginjaninja78/in1888-converter/internal/workbook"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		name   string
		value  decimal.NullDecimal
		digits int32
		want   string
	}{
		{"half up", decimal.NewNullDecimal(decimal.RequireFromString("2.345")), 2, "2,35"},
		{"below half", decimal.NewNullDecimal(decimal.RequireFromString("2.344")), 2, "2,34"},
		{"negative is absolute", decimal.NewNullDecimal(decimal.RequireFromString("-3.5")), 2, "3,50"},
		{"negative half away from zero", decimal.NewNullDecimal(decimal.RequireFromString("-2.345")), 2, "2,35"},
		{"tiny negative rounds to zero", decimal.NewNullDecimal(decimal.RequireFromString("-0.001")), 2, "0,00"},
		{"null money", decimal.NullDecimal{}, 2, "0,00"},
		{"null quantity", decimal.NullDecimal{}, 10, "0,0000000000"},
		{"quantity padding", decimal.NewNullDecimal(decimal.RequireFromString("1.5")), 10, "1,5000000000"},
		{"quantity rounding", decimal.NewNullDecimal(decimal.RequireFromString("0.00000000005")), 10, "0,0000000001"},
		{"large", decimal.NewNullDecimal(decimal.RequireFromString("1234567.891")), 2, "1234567,89"},
		{"integer", decimal.NewNullDecimal(decimal.NewFromInt(50)), 2, "50,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDecimal(tt.value, tt.digits))
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		cell workbook.Cell
		want string
	}{
		{"date cell", workbook.DateCell(time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)), "05032024"},
		{"excel serial", workbook.NumberCell(45356), "05032024"},
		{"excel serial with time", workbook.NumberCell(45356.75), "05032024"},
		{"day first", workbook.TextCell("05/03/2024"), "05032024"},
		{"day first unpadded", workbook.TextCell("5/3/2024"), "05032024"},
		{"day first with time", workbook.TextCell("05/03/2024 14:30"), "05032024"},
		{"day first dashes", workbook.TextCell("05-03-2024"), "05032024"},
		{"day first dots", workbook.TextCell("05.03.2024"), "05032024"},
		{"two digit year", workbook.TextCell("05/03/24"), "05032024"},
		{"two digit year above 68", workbook.TextCell("05/03/75"), "05032075"},
		{"month name", workbook.TextCell("5-Mar-2024"), "05032024"},
		{"month first fallback", workbook.TextCell("12/25/2024"), "25122024"},
		{"iso", workbook.TextCell("2024-03-05"), "05032024"},
		{"iso with time", workbook.TextCell("2024-03-05T10:00:00"), "05032024"},
		{"surrounding spaces", workbook.TextCell("  2024-03-05 "), "05032024"},
		{"unparseable", workbook.TextCell("N/A"), "N/A"},
		{"unparseable keeps text verbatim", workbook.TextCell(" soon "), " soon "},
		{"number outside serial range", workbook.NumberCell(20240305), "20240305"},
		{"empty", workbook.Cell{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.cell))
		})
	}
}

func TestParseDateTextRejectsImpossibleDates(t *testing.T) {
	_, ok := ParseDateText("31/02/2024")
	assert.False(t, ok)

	_, ok = ParseDateText("")
	assert.False(t, ok)
}
