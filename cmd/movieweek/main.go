package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"movieweek/internal/config"
	"movieweek/pkg/contracts"
)

// rootOptions carries the persistent flags and the configuration they produce
type rootOptions struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "movieweek",
		Short: "Weekday analysis of KOBIS daily box-office exports",
		Long: `movieweek reads a daily box-office export from KOBIS (CSV or Excel),
cleans it and summarises attendance by day of the week: totals, means,
the best and worst performing title per day and, when the export has a
genre column, attendance per genre and weekday.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			opts.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: movieweek.yaml or configs/movieweek.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(analyzeCmd(opts))
	root.AddCommand(serveCmd(opts))
	root.AddCommand(versionCmd())

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
			return err
		},
	}
}
