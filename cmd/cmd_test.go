package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	generateFile, generateSheet, generateOutputDir = "", "", ""
	generateDocuments, generateDryRun = false, false
	validateFile, validateSheet = "", ""
	cfgFile, verbose = "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, quantityHeader string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"DATE", "TYPE", "DEPOSITOR", quantityHeader, "TOTAL VALUE", "FIXED FEE"},
		{"05/03/2024", "COMPRA", "Ana", 1, 100.005, nil},
		{"06/03/2024", "VENDA", "Bruno", 0.5, 50, 1},
		{"07/03/2024", "TRANSFER", "Caio", 3, 10, nil},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "trades.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestGenerateCommand(t *testing.T) {
	input := writeInput(t, "QUANTITY")
	outDir := filepath.Join(t.TempDir(), "reports")

	out, err := execute(t, "generate", input, "--output-dir", outDir)
	require.NoError(t, err)

	assert.Contains(t, out, "Purchases 0110:  1")
	assert.Contains(t, out, "Sales 0120:      1")
	assert.Contains(t, out, "Ignored:         1")

	sale, err := os.ReadFile(filepath.Join(outDir, "IN1888_0120_VENDA.txt"))
	require.NoError(t, err)
	assert.Equal(t, "0120|06032024|I|50,00|1,00|USDT|0,5000000000|BINANCE|https://www.binance.com/|KY\r\n", string(sale))
}

func TestGenerateCommandDryRun(t *testing.T) {
	input := writeInput(t, "QUANTITY")

	out, err := execute(t, "generate", "--file", input, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(input), "IN1888_0110_COMPRA.txt"))
}

func TestGenerateCommandMissingColumn(t *testing.T) {
	input := writeInput(t, "QTY")

	_, err := execute(t, "generate", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUANTITY")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(input), "IN1888_0110_COMPRA.txt"))
}

func TestGenerateCommandRequiresInput(t *testing.T) {
	_, err := execute(t, "generate")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "--file", writeInput(t, "QUANTITY"))
	require.NoError(t, err)
	assert.Contains(t, out, "classification:")
	assert.Contains(t, out, "All required columns present.")
	assert.Contains(t, out, "Data rows: 3")

	out, err = execute(t, "validate", "--file", writeInput(t, "Quantity"))
	assert.Error(t, err)
	assert.Contains(t, out, `"QUANTITY"`)
	assert.Contains(t, out, `found "Quantity"`)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    "+Version)
}
