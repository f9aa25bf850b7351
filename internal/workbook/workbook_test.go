package workbook

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFixture(t *testing.T) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Resumo"))
	_, err := f.NewSheet("Transações")
	require.NoError(t, err)

	rows := [][]interface{}{
		{"DATE", "TYPE", "DEPOSITOR", "QUANTITY", "TOTAL VALUE", "FIXED FEE"},
		{time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "COMPRA", "Ana", 1.5, 100.005, 0.0},
		{"05/03/2024", "VENDA", "Bruno", "2", 50, nil},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Transações", cell, &row))
	}
	require.NoError(t, f.SetCellBool("Transações", "G2", true))
	return f
}

func TestOpenXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.xlsx")
	f := writeFixture(t)
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, FormatXLSX, wb.Format)
	assert.Equal(t, []string{"Resumo", "Transações"}, wb.SheetNames())
	assert.Equal(t, "Transações", wb.Resolve("transacoes"))

	table, err := wb.Table("Transações")
	require.NoError(t, err)

	assert.Equal(t, "Transações", table.Sheet)
	assert.Equal(t, []string{"DATE", "TYPE", "DEPOSITOR", "QUANTITY", "TOTAL VALUE", "FIXED FEE"}, table.Headers)
	require.Len(t, table.Rows, 2)

	date := table.Cell(0, 0)
	switch date.Kind {
	case KindNumber:
		assert.InDelta(t, 45356, date.Number, 0.0001)
	case KindDate:
		assert.Equal(t, 2024, date.Time.Year())
	default:
		t.Fatalf("unexpected kind for date cell: %s", date.Kind)
	}

	assert.Equal(t, KindText, table.Cell(0, 1).Kind)
	assert.Equal(t, "COMPRA", table.Cell(0, 1).Text)

	value := table.Cell(0, 4)
	assert.Equal(t, KindNumber, value.Kind)
	assert.Equal(t, "100.005", value.Text)

	assert.Equal(t, KindBool, table.Cell(0, 6).Kind)

	assert.Equal(t, KindText, table.Cell(1, 0).Kind)
	assert.Equal(t, "05/03/2024", table.Cell(1, 0).Text)
	assert.Equal(t, KindText, table.Cell(1, 3).Kind, "numeric-looking strings stay text")
	assert.True(t, table.Cell(1, 5).IsEmpty())
	assert.True(t, table.Cell(1, 40).IsEmpty(), "out of range reads as empty")
	assert.True(t, table.Cell(9, 0).IsEmpty())
}

func TestOpenReaderSniffsXLSX(t *testing.T) {
	f := writeFixture(t)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	wb, err := OpenReader(bytes.NewReader(buf.Bytes()), "upload")
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, FormatXLSX, wb.Format)
	assert.Equal(t, "upload", wb.Name)
	assert.Len(t, wb.SheetNames(), 2)
}

// testdata/transactions.xls is a BIFF8 workbook with a "Resumo" sheet and a
// "Transações" sheet. Row 2 of the data is missing entirely, row 3 has cells
// but no ROW record, and two blank rows pad the end of the sheet.
const xlsFixture = "testdata/transactions.xls"

func TestOpenXLS(t *testing.T) {
	wb, err := Open(xlsFixture)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, FormatXLS, wb.Format)
	assert.Equal(t, []string{"Resumo", "Transações"}, wb.SheetNames())
	assert.Equal(t, "Transações", wb.Resolve("transacoes"))

	table, err := wb.Table("Transações")
	require.NoError(t, err)

	assert.Equal(t, []string{"DATE", "TYPE", "DEPOSITOR", "QUANTITY", "TOTAL VALUE", "FIXED FEE"}, table.Headers)
	require.Len(t, table.Rows, 4, "trailing blank rows are trimmed")

	date := table.Cell(0, 0)
	require.Equal(t, KindDate, date.Kind, "custom date formats read as dates")
	assert.Equal(t, "2024-03-05", date.Time.Format("2006-01-02"))

	assert.Equal(t, "COMPRA", table.Cell(0, 1).Text)
	assert.Equal(t, "Ana", table.Cell(0, 2).Text)

	value := table.Cell(0, 4)
	assert.Equal(t, KindNumber, value.Kind)
	assert.Equal(t, "100.005", value.Text)
	assert.Equal(t, 100.005, value.Number)
	assert.True(t, table.Cell(0, 5).IsEmpty())

	assert.Equal(t, KindText, table.Cell(1, 0).Kind)
	assert.Equal(t, "06/03/2024", table.Cell(1, 0).Text)
	assert.Equal(t, "VENDA", table.Cell(1, 1).Text)
	assert.Equal(t, 0.5, table.Cell(1, 3).Number)

	assert.True(t, rowIsEmpty(table.Rows[2]), "missing rows read as blank")

	assert.Equal(t, "TRANSFER", table.Cell(3, 1).Text)
	assert.Equal(t, "Caio", table.Cell(3, 2).Text)
	assert.Equal(t, KindNumber, table.Cell(3, 4).Kind)
	assert.Equal(t, 10.0, table.Cell(3, 4).Number)

	summary, err := wb.Table("Resumo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Notes"}, summary.Headers)
	assert.Empty(t, summary.Rows)
}

func TestOpenReaderSniffsXLS(t *testing.T) {
	data, err := os.ReadFile(xlsFixture)
	require.NoError(t, err)

	wb, err := OpenReader(bytes.NewReader(data), "upload")
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, FormatXLS, wb.Format)
	assert.Equal(t, "upload", wb.Name)

	table, err := wb.Table(wb.Resolve("transacoes"))
	require.NoError(t, err)
	assert.Equal(t, "Transações", table.Sheet)
	assert.Len(t, table.Rows, 4)
}

func TestOpenUnreadable(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated zip", []byte("PK\x03\x04 not really a zip")},
		{"bad ole2 header", append(append([]byte{}, ole2Magic...), bytes.Repeat([]byte{0x42}, 600)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenReader(bytes.NewReader(tt.data), "upload")
			assert.ErrorIs(t, err, ErrUnreadable)
		})
	}

	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04 not really a zip"), 0o644))
	_, err := Open(path)
	assert.ErrorIs(t, err, ErrUnreadable)

	_, err = Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnreadable)
}

func TestTableUnknownSheet(t *testing.T) {
	f := writeFixture(t)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	wb, err := OpenReader(bytes.NewReader(buf.Bytes()), "upload")
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Table("Nope")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "data.csv"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = OpenReader(strings.NewReader("DATE,TYPE\n"), "data.csv")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatFromName(t *testing.T) {
	for name, want := range map[string]Format{
		"a.xlsx": FormatXLSX,
		"a.XLSX": FormatXLSX,
		"a.xlsm": FormatXLSX,
		"a.xls":  FormatXLS,
	} {
		got, err := FormatFromName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestInferCell(t *testing.T) {
	assert.Equal(t, KindEmpty, inferCell("  ").Kind)
	assert.Equal(t, KindText, inferCell("COMPRA").Kind)
	assert.Equal(t, KindText, inferCell("1,50").Kind)
	assert.Equal(t, KindText, inferCell("NaN").Kind)
	assert.Equal(t, KindText, inferCell("Inf").Kind)

	n := inferCell(" 2.5 ")
	assert.Equal(t, KindNumber, n.Kind)
	assert.Equal(t, "2.5", n.Text)
	assert.Equal(t, 2.5, n.Number)
}

func TestTableColumn(t *testing.T) {
	table := &Table{Headers: []string{"DATE", "TYPE", "TOTAL VALUE"}}
	assert.Equal(t, 2, table.Column("TOTAL VALUE"))
	assert.Equal(t, -1, table.Column("total value"))
}
