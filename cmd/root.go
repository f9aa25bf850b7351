// =============================================================================
// IN1888 Report Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (in1888)
//   ├── generateCmd (in1888 generate)
//   ├── serveCmd    (in1888 serve)
//   ├── validateCmd (in1888 validate)
//   └── versionCmd  (in1888 version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads .env, the YAML config file and IN1888_* environment variables
//   2. Applies --verbose
//   3. Builds the logrus logger
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/in1888-converter/internal/config"
	"github.com/ginjaninja78/in1888-converter/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file. Empty means in1888.yaml
// in the working directory or ~/.in1888, if present.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig and logger are set by loadConfig before a subcommand runs.
var (
	appConfig *config.Config
	logger    *logrus.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "in1888",
	Short: "IN1888 Report Generator - Build the 0110/0120 crypto reports from a spreadsheet",
	Long: `in1888 reads a spreadsheet of crypto-asset purchases and sales and writes the
two pipe-delimited ASCII reports required by IN RFB 1888:

  IN1888_0110_COMPRA.txt   purchases (record 0110)
  IN1888_0120_VENDA.txt    sales (record 0120)

Rows whose TYPE is neither a purchase nor a sale are counted and skipped.

Example Usage:
  in1888 generate trades.xlsx                  # Reports next to the spreadsheet
  in1888 generate trades.xlsx --documents      # Reports in ~/Documents/in1888
  in1888 validate --file trades.xlsx           # Check the columns only
  in1888 serve --addr :8080                    # HTTP endpoint returning a ZIP`,

	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default is ./in1888.yaml if present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig reads the configuration and builds the logger. Logs go to
// stderr so that command output on stdout stays clean.
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	appConfig = cfg
	logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())

	for _, typ := range cfg.IgnoredTypes() {
		logger.WithFields(logrus.Fields{
			logging.FieldValue: typ,
			logging.FieldCode:  cfg.Report.Classification[typ],
		}).Warn("Classified type maps to neither report and will be ignored")
	}
	return nil
}
