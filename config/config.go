package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dhcgn/exemption-log/diag"
	"github.com/dhcgn/exemption-log/usage"
)

// EnvPrefix namespaces environment overrides, e.g. EXEMPTION_LOG_EML_DIR.
const EnvPrefix = "EXEMPTION_LOG"

var ErrMissingDirs = errors.New("message and output directories are required")

// Config captures all options of a logging run.
type Config struct {
	EMLDir         string
	PDFDir         string
	OutDir         string
	UsageLog       string
	DiagnosticsLog string
	LogLevel       string
	LogDir         string
	FullScan       bool
	FoldCase       bool
	NoPrompt       bool
}

// NeedsPrompt reports whether directories must still be asked for.
func (c Config) NeedsPrompt() bool {
	return c.EMLDir == "" || c.OutDir == ""
}

// RegisterFlags attaches all CLI flags to the provided command.
func RegisterFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	flags.String("eml-dir", "", "Folder that contains the .eml files")
	flags.String("pdf-dir", "", "Folder that contains the PDFs (optional; enables the Page Count column)")
	flags.String("out-dir", "", "Folder where Exemption Log.xlsx is written")
	flags.String("usage-log", usage.DefaultPath, "CSV file that records one line per run")
	flags.String("diagnostics-log", diag.DefaultPath, "File that records run failures")
	flags.String("log-level", "info", "Logging level: debug, info, warn, error")
	flags.String("log-dir", "", "Also write the run log to a timestamped file in this folder")
	flags.Bool("full-scan", false, "Read every message to the end instead of stopping once all fields are found")
	flags.Bool("fold-case", false, "Match header names case-insensitively (e.g. accept Cc: for CC:)")
	flags.Bool("no-prompt", false, "Fail instead of asking for missing directories")
	flags.String("config", "", "Optional YAML config file")
	return nil
}

// LoadConfig layers config file, environment and flags (highest wins) into
// a validated Config.
func LoadConfig(cmd *cobra.Command) (Config, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return Config{}, err
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	logLevel := strings.ToLower(v.GetString("log-level"))
	if logLevel == "warning" {
		logLevel = "warn"
	}

	cfg := Config{
		EMLDir:         cleanDir(v.GetString("eml-dir")),
		PDFDir:         cleanDir(v.GetString("pdf-dir")),
		OutDir:         cleanDir(v.GetString("out-dir")),
		UsageLog:       v.GetString("usage-log"),
		DiagnosticsLog: v.GetString("diagnostics-log"),
		LogLevel:       logLevel,
		LogDir:         v.GetString("log-dir"),
		FullScan:       v.GetBool("full-scan"),
		FoldCase:       v.GetBool("fold-case"),
		NoPrompt:       v.GetBool("no-prompt"),
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks a config whose directories are final.
func (c Config) Validate() error {
	if c.NeedsPrompt() {
		return ErrMissingDirs
	}
	return validateConfig(c)
}

func validateConfig(cfg Config) error {
	if cfg.NoPrompt && cfg.NeedsPrompt() {
		return fmt.Errorf("--eml-dir and --out-dir are required with --no-prompt: %w", ErrMissingDirs)
	}
	if cfg.UsageLog == "" {
		return fmt.Errorf("--usage-log must not be empty")
	}
	if cfg.DiagnosticsLog == "" {
		return fmt.Errorf("--diagnostics-log must not be empty")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid --log-level: %s", cfg.LogLevel)
	}
	return nil
}

func cleanDir(p string) string {
	p = strings.Trim(strings.TrimSpace(p), `"`)
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}
