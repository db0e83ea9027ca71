package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"movieweek/internal/app"
	"movieweek/internal/infrastructure"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. Exports are analysed with POST /api/analysis
(multipart field "file") or GET /api/analysis/remote; Prometheus metrics are
served on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				opts.cfg.Server.Port = port
			}

			logger, err := infrastructure.InitializeLogger(opts.cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer infrastructure.CloseLogFile()

			application, err := app.NewApplication(opts.cfg, logger)
			if err != nil {
				return err
			}
			return application.Run(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")

	return cmd
}
