// =============================================================================
// IN1888 Report Generator - Text Report Writer
// =============================================================================
//
// This module writes report lines to disk in the layout the tax authority
// import expects:
//
//   0110|05032024|I|100,01|0,00|USDT|1,0000000000|BINANCE|https://...|KY\r\n
//   0110|06032024|I|50,00|1,00|USDT|0,5000000000|BINANCE|https://...|KY\r\n
//
//   - Lines are joined with CRLF and the file ends with one CRLF. A report
//     with no lines is a single CRLF.
//   - Output is strict 7-bit ASCII. Any other character aborts the write
//     with an *EncodingError and the partial file is removed.
//
// =============================================================================

package txtwriter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/transform"
)

// LineSeparator terminates every report line.
const LineSeparator = "\r\n"

// =============================================================================
// ERRORS
// =============================================================================

// ErrOutput matches any *OutputError via errors.Is.
var ErrOutput = errors.New("output error")

// OutputError is a filesystem failure while producing a report.
type OutputError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *OutputError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *OutputError) Unwrap() error {
	return e.Err
}

// Is reports ErrOutput as a match.
func (e *OutputError) Is(target error) bool {
	return target == ErrOutput
}

// =============================================================================
// RENDERING
// =============================================================================

// Render joins lines with CRLF and appends a final CRLF.
func Render(lines []string) string {
	return strings.Join(lines, LineSeparator) + LineSeparator
}

// Encode writes the rendered lines to w as ASCII.
//
// RETURNS:
//   - An *EncodingError at the first non-ASCII character. Bytes before it
//     may already have reached w.
//   - Any error from w.
func Encode(w io.Writer, lines []string) error {
	tw := transform.NewWriter(w, newASCIIEncoder())
	if _, err := io.WriteString(tw, Render(lines)); err != nil {
		return err
	}
	return tw.Close()
}

// =============================================================================
// FILE OUTPUT
// =============================================================================

// WriteFile creates (or truncates) path and writes lines to it.
//
// PARAMETERS:
//   - path: The report file to write. Its directory must exist.
//   - lines: The rendered report lines, without separators.
//
// RETURNS:
//   - An *EncodingError (with Path set) if a line is not ASCII; the file is
//     removed.
//   - An *OutputError for create, write or close failures.
func WriteFile(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return &OutputError{Op: "create", Path: path, Err: err}
	}

	if err := Encode(f, lines); err != nil {
		f.Close()
		os.Remove(path)

		var encErr *EncodingError
		if errors.As(err, &encErr) {
			encErr.Path = path
			return encErr
		}
		return &OutputError{Op: "write", Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &OutputError{Op: "close", Path: path, Err: err}
	}
	return nil
}
