package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dhcgn/exemption-log/config"
	"github.com/dhcgn/exemption-log/report"
	"github.com/dhcgn/exemption-log/runner"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Config{
		EMLDir:         filepath.Join(root, "emls"),
		OutDir:         filepath.Join(root, "out"),
		UsageLog:       filepath.Join(root, "usage_log.csv"),
		DiagnosticsLog: filepath.Join(root, "exceptions.log"),
		LogLevel:       "error",
		NoPrompt:       true,
	}
	require.NoError(t, os.MkdirAll(cfg.EMLDir, 0o755))
	require.NoError(t, os.MkdirAll(cfg.OutDir, 0o755))
	return cfg
}

func TestRun_WritesReportAndUsage(t *testing.T) {
	cfg := testConfig(t)
	msg := "From: \"Jane Doe\" <jane@x.com>\nTo: \"Doe, Jane\" <jane@x.com>, \"Bob\" <b@x.com>\nSubject: one\nDate: Mon, 5 Jan 2024 10:00:00 +0000\n\nbody\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.EMLDir, "0001.eml"), []byte(msg), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.EMLDir, "readme.txt"), nil, 0o644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, run(cfg, logger))
	require.NoError(t, run(cfg, logger))

	f, err := excelize.OpenFile(filepath.Join(cfg.OutDir, report.FileName))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, report.Columns(false), rows[0])
	assert.Equal(t, []string{"0001", "Jan 5 2024 10:00:00", "Jane Doe", `"Doe, Jane", "Bob"`, "one"}, rows[1])

	usageLog, err := os.ReadFile(cfg.UsageLog)
	require.NoError(t, err)
	assert.Contains(t, string(usageLog), "Start Time,Run Time,EMLs Logged")
}

func TestRun_NoMessagesWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.EMLDir, "readme.txt"), nil, 0o644))

	err := run(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.True(t, errors.Is(err, runner.ErrNoMessages))

	_, err = os.Stat(filepath.Join(cfg.OutDir, report.FileName))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(cfg.UsageLog)
	assert.True(t, os.IsNotExist(err))
}
