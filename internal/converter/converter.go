// =============================================================================
// IN1888 Report Generator - Converter Module
// =============================================================================
//
// This module contains the generation pipeline for one spreadsheet. It reads
// the transaction sheet and produces the purchase (0110) and sale (0120)
// reports.
//
// CONVERSION PIPELINE:
//   1. Check the input file exists
//   2. Open the workbook (.xlsx or .xls)
//   3. Resolve the sheet from the configured hint
//   4. Validate the header row (fatal, before any output)
//   5. Classify, normalize and format every row
//   6. Write both report files
//
// A run is synchronous and holds no shared state; concurrent runs on
// different inputs are independent. Output files are written purchase first;
// a failure on the sale report does not remove the purchase report.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/in1888-converter/internal/config"
	"github.com/ginjaninja78/in1888-converter/internal/logging"
	"github.com/ginjaninja78/in1888-converter/internal/txtwriter"
	"github.com/ginjaninja78/in1888-converter/internal/types"
	"github.com/ginjaninja78/in1888-converter/internal/workbook"
	"github.com/ginjaninja78/in1888-converter/pkg/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrInputNotFound is returned when the spreadsheet path does not exist.
var ErrInputNotFound = errors.New("input file not found")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result summarizes a generation run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// InputPath is the spreadsheet that was read.
	InputPath string

	// SheetName is the sheet the rows were read from.
	SheetName string

	// Ignored counts rows whose type did not map to a report.
	Ignored int

	// PurchaseCount and SaleCount are the line counts of each report.
	PurchaseCount int
	SaleCount     int

	// PurchasePath and SalePath are where the reports were (or, in a dry
	// run, would be) written.
	PurchasePath string
	SalePath     string

	// DryRun is set when nothing was written.
	DryRun bool

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsRead is the number of data rows in the sheet, header excluded.
	RowsRead int

	// ProcessingTime is the wall time of the run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter generates the reports for a single spreadsheet.
type Converter struct {
	// inputPath is the spreadsheet to read.
	inputPath string

	// cfg supplies columns, report constants and output names.
	cfg *config.Config

	// DryRun skips writing the report files.
	DryRun bool

	logger logrus.FieldLogger
}

// New creates a new Converter.
//
// PARAMETERS:
//   - inputPath: The path to the .xlsx or .xls file.
//   - cfg: The application configuration. Input.Sheet is the sheet hint and
//     Output.Dir the output directory override.
//   - logger: Where progress is logged. nil discards.
//
// RETURNS:
//   - A new Converter instance.
func New(inputPath string, cfg *config.Config, logger logrus.FieldLogger) *Converter {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Converter{
		inputPath: inputPath,
		cfg:       cfg,
		logger:    logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline and writes both report files.
//
// RETURNS:
//   - The run summary.
//   - ErrInputNotFound, workbook.ErrUnsupportedFormat, workbook.ErrNoSheets
//     or a validation.MissingColumnError for structural problems; nothing is
//     written in those cases.
//   - A txtwriter.OutputError or txtwriter.EncodingError if writing fails.
func (c *Converter) Run() (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := c.logger.WithFields(logrus.Fields{
		logging.FieldRunID:     runID,
		logging.FieldInputFile: c.inputPath,
	})

	// =========================================================================
	// STEP 1-5: READ AND BUILD
	// =========================================================================

	log.Info("Generating IN1888 reports")

	report, err := c.Build()
	if err != nil {
		log.WithError(err).Error("Generation failed")
		return nil, err
	}

	outDir := utils.ResolveOutputDir(c.cfg.Output.Dir, c.inputPath)
	result := &Result{
		RunID:         runID,
		InputPath:     c.inputPath,
		SheetName:     report.SheetName,
		Ignored:       report.Ignored,
		PurchaseCount: len(report.Purchases),
		SaleCount:     len(report.Sales),
		PurchasePath:  filepath.Join(outDir, c.cfg.Output.PurchaseFile),
		SalePath:      filepath.Join(outDir, c.cfg.Output.SaleFile),
		DryRun:        c.DryRun,
		Stats:         ProcessingStats{RowsRead: report.RowsRead},
	}

	log = log.WithField(logging.FieldSheet, report.SheetName)
	if report.Ignored > 0 {
		log.WithField(logging.FieldIgnored, report.Ignored).Warn("Rows ignored, type is not a purchase or a sale")
	}

	// =========================================================================
	// STEP 6: WRITE OUTPUT
	// =========================================================================

	if !c.DryRun {
		if err := utils.EnsureDir(outDir); err != nil {
			err = &txtwriter.OutputError{Op: "create directory", Path: outDir, Err: err}
			log.WithError(err).Error("Generation failed")
			return nil, err
		}

		outputs := []struct {
			code types.Code
			path string
		}{
			{types.CodePurchase, result.PurchasePath},
			{types.CodeSale, result.SalePath},
		}
		for _, out := range outputs {
			lines := report.Lines(out.code)
			if err := txtwriter.WriteFile(out.path, types.Strings(lines)); err != nil {
				log.WithError(err).WithField(logging.FieldOutputFile, out.path).Error("Failed to write report")
				return nil, err
			}
			log.WithFields(logrus.Fields{
				logging.FieldOutputFile: out.path,
				logging.FieldCode:       out.code,
				logging.FieldCount:      len(lines),
			}).Debug("Report written")
		}
	}

	result.Stats.ProcessingTime = time.Since(start)
	log.WithFields(logrus.Fields{
		"count_0110":          result.PurchaseCount,
		"count_0120":          result.SaleCount,
		logging.FieldIgnored:  result.Ignored,
		logging.FieldDuration: result.Stats.ProcessingTime.Milliseconds(),
	}).Info("Reports generated")

	return result, nil
}

// Build reads the spreadsheet and returns the report without writing it.
func (c *Converter) Build() (*types.Report, error) {
	if !utils.FileExists(c.inputPath) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, c.inputPath)
	}

	wb, err := workbook.Open(c.inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", c.inputPath, err)
	}
	defer wb.Close()

	return BuildReport(wb, c.cfg, c.cfg.Input.Sheet, c.logger)
}

// BuildReport resolves the sheet for hint in an opened workbook and builds
// its report.
func BuildReport(wb *workbook.Workbook, cfg *config.Config, hint string, logger logrus.FieldLogger) (*types.Report, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	sheet, matched := workbook.ResolveSheet(wb.SheetNames(), hint)
	if hint != "" && !matched {
		logger.WithFields(logrus.Fields{
			logging.FieldSheet: sheet,
			"requested":        hint,
		}).Warn("Requested sheet not found, using the first sheet")
	}

	table, err := wb.Table(sheet)
	if err != nil {
		return nil, err
	}

	return NewBuilder(cfg, logger).Build(table)
}
