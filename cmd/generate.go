// =============================================================================
// IN1888 Report Generator - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, which converts one spreadsheet
// into the two IN1888 reports.
//
// COMMAND USAGE:
//   in1888 generate <file.xlsx> [flags]
//
// FLAGS:
//   --file        : The spreadsheet, when not given as an argument
//   --sheet       : Preferred sheet name (accents and case are ignored)
//   --output-dir  : Where to write the reports (default: next to the input)
//   --documents   : Write to ~/Documents/in1888 instead
//   --dry-run     : Read and convert without writing any file
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ginjaninja78/in1888-converter/internal/converter"
	"github.com/ginjaninja78/in1888-converter/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	generateFile      string
	generateSheet     string
	generateOutputDir string
	generateDocuments bool
	generateDryRun    bool
)

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Generate the 0110 and 0120 reports from a spreadsheet",
	Long: `The generate command reads the transaction sheet of an .xlsx or .xls file and
writes IN1888_0110_COMPRA.txt and IN1888_0120_VENDA.txt.

The header row must contain DATE, TYPE, DEPOSITOR, QUANTITY, TOTAL VALUE and
FIXED FEE (exact, case-sensitive). A missing column stops the run before any
file is written. Cells that cannot be read are written as zero (numbers) or
kept verbatim (dates).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := generateFile
		if len(args) == 1 {
			input = args[0]
		}
		if input == "" {
			return errors.New("no input file: pass it as an argument or with --file")
		}
		return runGenerate(cmd.OutOrStdout(), input)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateFile, "file", "", "Path to the spreadsheet")
	generateCmd.Flags().StringVar(&generateSheet, "sheet", "", "Preferred sheet name (overrides input.sheet)")
	generateCmd.Flags().StringVar(&generateOutputDir, "output-dir", "", "Directory for the reports (default: the spreadsheet's directory)")
	generateCmd.Flags().BoolVar(&generateDocuments, "documents", false, "Write the reports to ~/Documents/in1888")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Convert without writing output files")

	generateCmd.MarkFlagsMutuallyExclusive("output-dir", "documents")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runGenerate(out io.Writer, input string) error {
	cfg := *appConfig
	if generateSheet != "" {
		cfg.Input.Sheet = generateSheet
	}
	if generateOutputDir != "" {
		cfg.Output.Dir = generateOutputDir
	}
	if generateDocuments {
		dir, err := utils.DocumentsDir("")
		if err != nil {
			return err
		}
		cfg.Output.Dir = dir
	}

	fmt.Fprintln(out, "=== IN1888 Report Generator ===")
	fmt.Fprintf(out, "Input: %s\n", input)

	conv := converter.New(input, &cfg, logger)
	conv.DryRun = generateDryRun

	result, err := conv.Run()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Sheet: %s\n", result.SheetName)
	if result.DryRun {
		fmt.Fprintln(out, "\nDry run, no files written.")
	} else {
		fmt.Fprintf(out, "\n  ✓ %s\n", filepath.Base(result.PurchasePath))
		fmt.Fprintf(out, "  ✓ %s\n", filepath.Base(result.SalePath))
		fmt.Fprintf(out, "Output directory: %s\n", filepath.Dir(result.PurchasePath))
	}

	fmt.Fprintln(out, "\n=== Generation Complete ===")
	fmt.Fprintf(out, "Rows read:       %d\n", result.Stats.RowsRead)
	fmt.Fprintf(out, "Purchases 0110:  %d\n", result.PurchaseCount)
	fmt.Fprintf(out, "Sales 0120:      %d\n", result.SaleCount)
	fmt.Fprintf(out, "Ignored:         %d\n", result.Ignored)
	fmt.Fprintf(out, "Time elapsed:    %s\n", result.Stats.ProcessingTime)

	return nil
}
