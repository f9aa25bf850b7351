package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/in1888-converter/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd runs the HTTP endpoint until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report generator over HTTP",
	Long: `The serve command starts an HTTP server. POST a spreadsheet as the multipart
field "file" (and optionally "sheet") to /api/in1888 to receive IN1888.zip with
both reports and a JSON summary.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(appConfig, logger).ListenAndServe(ctx, serveAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}
