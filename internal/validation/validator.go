// =============================================================================
// IN1888 Report Generator - Column Validation
// =============================================================================
//
// This module checks that a sheet's header row carries every column the report
// builder reads. It runs before any row is converted and before any output
// file is touched, so a structural problem never leaves partial reports.
//
// ERROR HANDLING:
//   - RequireColumns fails on the first missing column, in the order given
//   - CheckColumns collects every missing column (used by 'validate')
//   - Each missing column carries a closest-match suggestion taken from the
//     headers that are actually present
//
// Matching is exact and case-sensitive. "Total Value" does not satisfy
// "TOTAL VALUE"; the suggestion tells the user what was found instead.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/schollz/closestmatch"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrMissingColumn matches any *MissingColumnError via errors.Is.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError reports a required column absent from the header row.
type MissingColumnError struct {
	// Column is the required header that was not found.
	Column string

	// Suggestion is the closest header present in the sheet, if any.
	Suggestion string
}

// Error implements the error interface.
func (e *MissingColumnError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %q (found %q, headers are case-sensitive)", ErrMissingColumn, e.Column, e.Suggestion)
	}
	return fmt.Sprintf("%s: %q", ErrMissingColumn, e.Column)
}

// Unwrap lets errors.Is(err, ErrMissingColumn) succeed.
func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// =============================================================================
// COLUMN REPORT
// =============================================================================

// ColumnReport is the outcome of checking a header row.
type ColumnReport struct {
	// Present lists the required columns that were found.
	Present []string

	// Missing lists every required column that was not found.
	Missing []*MissingColumnError

	// Optional maps each optional column to whether it was found.
	Optional map[string]bool
}

// Valid reports whether all required columns are present.
func (r *ColumnReport) Valid() bool {
	return len(r.Missing) == 0
}

// Err returns the first missing column, or nil.
func (r *ColumnReport) Err() error {
	if len(r.Missing) == 0 {
		return nil
	}
	return r.Missing[0]
}

// =============================================================================
// CHECKS
// =============================================================================

// CheckColumns compares headers with the required and optional column names.
//
// PARAMETERS:
//   - headers: The sheet's header row, verbatim.
//   - required: Columns that must be present.
//   - optional: Columns that may be absent.
//
// RETURNS:
//   - A ColumnReport. It is never nil.
func CheckColumns(headers, required, optional []string) *ColumnReport {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	report := &ColumnReport{Optional: make(map[string]bool, len(optional))}
	var suggester *closestmatch.ClosestMatch

	for _, col := range required {
		if present[col] {
			report.Present = append(report.Present, col)
			continue
		}
		if suggester == nil {
			suggester = newSuggester(headers)
		}
		report.Missing = append(report.Missing, &MissingColumnError{
			Column:     col,
			Suggestion: suggest(suggester, headers, col),
		})
	}

	for _, col := range optional {
		report.Optional[col] = present[col]
	}

	return report
}

// RequireColumns returns a *MissingColumnError for the first required column
// absent from headers, or nil when all are present.
func RequireColumns(headers, required []string) error {
	return CheckColumns(headers, required, nil).Err()
}

// FormatMissing renders every missing column on its own line.
func FormatMissing(missing []*MissingColumnError) string {
	if len(missing) == 0 {
		return "All required columns present."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d required column(s) missing:\n", len(missing))
	for i, m := range missing {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m.Error())
	}
	return b.String()
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

func newSuggester(headers []string) *closestmatch.ClosestMatch {
	candidates := make([]string, 0, len(headers))
	for _, h := range headers {
		if strings.TrimSpace(h) != "" {
			candidates = append(candidates, h)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return closestmatch.New(candidates, []int{2, 3})
}

// suggest prefers a header that differs from col only by case or padding and
// falls back to the bag-of-ngrams match.
func suggest(cm *closestmatch.ClosestMatch, headers []string, col string) string {
	for _, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), col) {
			return h
		}
	}
	if cm == nil {
		return ""
	}
	return cm.Closest(col)
}
