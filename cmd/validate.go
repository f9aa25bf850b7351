// =============================================================================
// IN1888 Report Generator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It prints the effective
// configuration and, given a spreadsheet, checks its header row without
// generating anything.
//
// COMMAND USAGE:
//   in1888 validate [--file trades.xlsx] [--sheet Transactions]
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/ginjaninja78/in1888-converter/internal/validation"
	"github.com/ginjaninja78/in1888-converter/internal/workbook"
	"github.com/spf13/cobra"
)

var (
	validateFile  string
	validateSheet string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Print the effective configuration and check a spreadsheet's columns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFile, "file", "", "Spreadsheet whose header row should be checked")
	validateCmd.Flags().StringVar(&validateSheet, "sheet", "", "Preferred sheet name (overrides input.sheet)")
}

func runValidate(out io.Writer) error {
	fmt.Fprintln(out, "=== Effective Configuration ===")
	if err := appConfig.WriteYAML(out); err != nil {
		return err
	}

	if validateFile == "" {
		return nil
	}

	sheet := appConfig.Input.Sheet
	if validateSheet != "" {
		sheet = validateSheet
	}

	wb, err := workbook.Open(validateFile)
	if err != nil {
		return err
	}
	defer wb.Close()

	name := wb.Resolve(sheet)
	table, err := wb.Table(name)
	if err != nil {
		return err
	}

	cols := appConfig.Input.Columns
	report := validation.CheckColumns(table.Headers, cols.Required(), cols.Optional())

	fmt.Fprintf(out, "\n=== Columns (%s, sheet %q) ===\n", validateFile, name)
	for _, col := range report.Present {
		fmt.Fprintf(out, "  ✓ %s\n", col)
	}
	for _, col := range cols.Optional() {
		mark := "-"
		if report.Optional[col] {
			mark = "✓"
		}
		fmt.Fprintf(out, "  %s %s (optional)\n", mark, col)
	}
	fmt.Fprintf(out, "Data rows: %d\n\n", len(table.Rows))

	fmt.Fprint(out, validation.FormatMissing(report.Missing))
	if !report.Valid() {
		return errors.New("spreadsheet is missing required columns")
	}
	fmt.Fprintln(out)
	return nil
}
