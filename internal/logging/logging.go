// Package logging builds the logrus logger shared by the CLI, the converter
// and the HTTP server, and defines the structured field names they use.
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Standard field names. Keeping them in one place keeps the text and JSON
// output consistent between the CLI and the server.
const (
	FieldRunID      = "run_id"
	FieldRequestID  = "request_id"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldSheet      = "sheet"
	FieldRow        = "row"
	FieldColumn     = "column"
	FieldValue      = "value"
	FieldCode       = "code"
	FieldCount      = "count"
	FieldIgnored    = "ignored"
	FieldDuration   = "duration_ms"
	FieldStatus     = "status"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldRemoteAddr = "remote_addr"
)

// New returns a logger writing to out at the given level and format
// ("text" or "json"). An unknown level falls back to info.
func New(level, format string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", level)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
