package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"movieweek/internal/app"
	"movieweek/internal/config"
	"movieweek/internal/exporter"
	"movieweek/internal/infrastructure"
	"movieweek/internal/services"
	"movieweek/internal/validation"
	"movieweek/pkg/contracts/domain"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

type analyzeOptions struct {
	remote  bool
	format  string
	section string
	output  string
}

func analyzeCmd(opts *rootOptions) *cobra.Command {
	aopts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyse a daily box-office export",
		Long: `Analyse a KOBIS daily box-office export by weekday.

The file may be the delimited export (.csv, CP949) or the Excel export
(.xlsx). With --remote the configured source URL is fetched instead.`,
		Example: `  movieweek analyze daily.xlsx
  movieweek analyze daily.csv --format json
  movieweek analyze --remote --format csv --section category -o genre.csv`,
		Args: func(cmd *cobra.Command, args []string) error {
			if aopts.remote {
				return cobra.NoArgs(cmd, args)
			}
			if len(args) != 1 {
				return errors.New(config.MsgUploadPrompt)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, aopts, args)
		},
	}

	cmd.Flags().BoolVar(&aopts.remote, "remote", false, "analyse the configured remote source")
	cmd.Flags().StringVarP(&aopts.format, "format", "f", formatTable, "output format (table, json, csv)")
	cmd.Flags().StringVar(&aopts.section, "section", string(exporter.SectionWeekday), "csv table to write (weekday, category)")
	cmd.Flags().StringVarP(&aopts.output, "output", "o", "", "write csv to this file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *rootOptions, aopts *analyzeOptions, args []string) error {
	switch aopts.format {
	case formatTable, formatJSON, formatCSV:
	default:
		return fmt.Errorf("unsupported format %q (want table, json or csv)", aopts.format)
	}
	section, err := exporter.ParseSection(aopts.section)
	if err != nil {
		return err
	}

	ctx := infrastructure.EnsureTraceID(cmd.Context())

	// stdout carries the result, so logs go to stderr
	logger := infrastructure.NewLogger(cmd.ErrOrStderr(), opts.cfg.Logging)
	pipeline := app.NewPipeline(opts.cfg, logger, nil, infrastructure.NoopMetrics())
	svc := services.NewAnalysisService(pipeline, opts.cfg.Source.MaxUploadBytes, logger)

	if aopts.output != "" {
		if err := validation.NewFileValidator(logger).ValidateOutputDirectory(filepath.Dir(aopts.output)); err != nil {
			return err
		}
	}

	var analysis *domain.Analysis
	if aopts.remote {
		analysis, err = svc.AnalyzeRemote(ctx)
	} else {
		analysis, err = svc.AnalyzeFile(ctx, args[0])
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch aopts.format {
	case formatJSON:
		return writeJSON(out, analysis)
	case formatCSV:
		exp := exporter.NewAnalysisExporter(exporter.NewCSVWriter(logger))
		if aopts.output != "" {
			if err := exp.ExportFile(aopts.output, analysis, section); err != nil {
				return err
			}
			logger.InfoContext(ctx, "CSV written", slog.String("path", aopts.output), slog.String("section", string(section)))
			return nil
		}
		return exp.Export(out, analysis, section)
	default:
		return renderAnalysis(out, analysis)
	}
}

func writeJSON(w io.Writer, analysis *domain.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(analysis)
}
