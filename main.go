// =============================================================================
// IN1888 Report Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the in1888 CLI. It delegates command
// execution to the cmd package.
//
// USAGE:
//   in1888 generate <file>   - Write the 0110/0120 reports for a spreadsheet
//   in1888 serve             - Serve the generator over HTTP
//   in1888 validate          - Show the configuration and check a spreadsheet
//   in1888 version           - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core logic (workbook reading, conversion, output, HTTP)
//   - pkg/           : Shared filesystem utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/in1888-converter/cmd"
)

func main() {
	cmd.Execute()
}
