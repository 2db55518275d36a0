package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dhcgn/exemption-log/cmd"
	"github.com/dhcgn/exemption-log/config"
	"github.com/dhcgn/exemption-log/diag"
	"github.com/dhcgn/exemption-log/eml"
	"github.com/dhcgn/exemption-log/progress"
	"github.com/dhcgn/exemption-log/prompt"
	"github.com/dhcgn/exemption-log/report"
	"github.com/dhcgn/exemption-log/runner"
	"github.com/dhcgn/exemption-log/stats"
	"github.com/dhcgn/exemption-log/usage"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "exemption-log",
		Short:         "Log sender, recipients, subject, date and page count of exported emails into Exemption Log.xlsx",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cmd)
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			sink, err := diag.Open(cfg.DiagnosticsLog, runID)
			if err != nil {
				return err
			}
			defer func() {
				_ = sink.Close()
			}()
			defer sink.Recover()

			logger, cleanup, err := setupLogger(cfg)
			if err != nil {
				sink.Report(err)
				return err
			}
			defer func() {
				_ = cleanup()
			}()

			logger = logger.With("run", runID)
			slog.SetDefault(logger)
			logger.Debug("starting exemption-log", "emlDir", cfg.EMLDir, "pdfDir", cfg.PDFDir, "outDir", cfg.OutDir, "fullScan", cfg.FullScan)

			if err := run(cfg, logger); err != nil {
				sink.Report(err)
				return err
			}
			return nil
		},
	}

	if err := config.RegisterFlags(rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register CLI flags: %v\n", err)
		os.Exit(1)
	}
	rootCmd.AddCommand(cmd.NewExplodeCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	if cfg.NeedsPrompt() {
		dirs, err := prompt.Directories(prompt.Dirs{EML: cfg.EMLDir, PDF: cfg.PDFDir, Out: cfg.OutDir})
		if err != nil {
			return err
		}
		cfg.EMLDir, cfg.PDFDir, cfg.OutDir = dirs.EML, dirs.PDF, dirs.Out
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	start := time.Now()
	bar := progress.New(cfg.LogLevel)

	strategy := eml.FastPath
	if cfg.FullScan {
		strategy = eml.FullScan
	}
	r := runner.New(runner.Options{
		Scan: eml.Options{Strategy: strategy, FoldCase: cfg.FoldCase},
	}, logger)
	reporter := stats.NewReporter(r, logger)
	r.Subscribe(bar.Update)

	records, emlTally, err := r.ProcessMessages(cfg.EMLDir)
	if err != nil {
		return err
	}
	bar.Note("%s", progress.PassSummary("EMLs", emlTally))

	var pdfTally stats.Tally
	withPages := cfg.PDFDir != ""
	if withPages {
		pdfTally, err = r.ProcessPDFs(cfg.PDFDir, records)
		if err != nil {
			return err
		}
		bar.Note("%s", progress.PassSummary("PDFs", pdfTally))
	}

	bar.Note("Saving spreadsheet")
	path, err := report.WriteXLSX(report.Build(records, withPages), cfg.OutDir)
	if err != nil {
		return err
	}
	logger.Info("spreadsheet saved", "path", path, "rows", len(records))

	entry := usage.Entry{
		Start:      start,
		RunTime:    time.Since(start),
		EMLsLogged: emlTally.Matched,
		PDFsLogged: pdfTally.Matched,
		EMLDir:     cfg.EMLDir,
		PDFDir:     cfg.PDFDir,
		LogDir:     cfg.OutDir,
	}
	if err := usage.Append(cfg.UsageLog, entry); err != nil {
		if !errors.Is(err, usage.ErrLogBusy) {
			return err
		}
		logger.Warn("usage not logged", "path", cfg.UsageLog, "err", err)
		bar.Warn("Usage not logged: %s is open", cfg.UsageLog)
	}

	reporter.Log()
	bar.Stop()
	return nil
}

func setupLogger(cfg config.Config) (*slog.Logger, func() error, error) {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)

	switch cfg.LogLevel {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	}

	opts := &slog.HandlerOptions{Level: level}
	cleanup := func() error { return nil }

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, cleanup, err
		}

		logFilePath := filepath.Join(cfg.LogDir, fmt.Sprintf("exemption-log-%s.log", time.Now().Format("20060102T150405")))
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, cleanup, err
		}

		handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, file), opts)
		cleanup = func() error {
			return file.Close()
		}
		return slog.New(handler), cleanup, nil
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler), cleanup, nil
}
