package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/seclog/seclog/internal/config"
	"github.com/seclog/seclog/internal/database"
	"github.com/seclog/seclog/internal/logger"
	"github.com/seclog/seclog/internal/model"
	"github.com/seclog/seclog/internal/report"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <file>...",
		Short: "Scan files for suspicious content patterns",
		Long: `Scan inspects one or more files for suspicious content patterns:
- Keylogging and credential theft indicators
- Persistence mechanisms (startup entries, registry run keys)
- Antivirus and sandbox evasion markers
- Mail exfiltration and obfuscation techniques

Each inspection is written to the application log; files with matches
are additionally recorded in the security log. Results are stored in
the inspection history database for later drift comparison.

Examples:
  # Scan a single file
  seclog scan suspicious.py

  # Scan several files with a report written to disk
  seclog scan --markdown -o report.md src/*.py

  # Scan with custom detection rules
  seclog scan -r myrules.yaml payload.bin

  # Scan without touching the history database
  seclog scan --no-history /tmp/upload.dat`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScanCmd,
	}

	// Logging flags
	cmd.Flags().StringP("log-dir", "l", "",
		"Directory for application.log and security.log (default: current directory)")
	cmd.Flags().String("min-level", "",
		"Application log threshold (debug, info, warning, error, critical)")

	// Detection flags
	cmd.Flags().StringP("rules", "r", "",
		"YAML file with additional detection rules")
	cmd.Flags().Bool("no-builtin-rules", false,
		"Disable the built-in detection rule set")
	cmd.Flags().String("digest", "",
		`Content digest algorithm: "sha256" or "sha3-256"`)
	cmd.Flags().IntP("concurrency", "b", 0,
		"Number of concurrent file inspections")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seclog.yaml in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not record inspections in the history database")
	cmd.Flags().String("db-dir", "",
		"Directory for the history database (default: XDG data directory)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildScanConfig(cmd)
	if err != nil {
		return err
	}

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	l, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = l.Close() //nolint:errcheck // Best effort cleanup
	}()

	scanReport, err := l.ScanFiles(ctx, args)
	if err != nil {
		return fmt.Errorf("scan aborted: %w", err)
	}

	if cfg.History.Enabled {
		if err := saveInspections(ctx, cfg, scanReport); err != nil {
			// History is an enhancement; the scan itself succeeded.
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to save inspection history: %v\n", err)
		}
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	mdOut, _ := cmd.Flags().GetBool("markdown")
	outFile, _ := cmd.Flags().GetString("output")
	if err := outputReport(cmd.OutOrStdout(), scanReport, jsonOut, mdOut, outFile, cfg.Verbose); err != nil {
		return err
	}

	if scanReport.SuspiciousCount() > 0 {
		return fmt.Errorf("suspicious content detected in %d file(s)", scanReport.SuspiciousCount())
	}
	return nil
}

// buildScanConfig creates a Config from defaults, the optional
// configuration file, and flags, in increasing precedence.
func buildScanConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	// Load the configuration file first so flags can override it.
	// If the user explicitly specified a path, error if not found.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	found := config.FindConfigFile(configPath)
	if found != "" {
		cf, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		if err := cf.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", found, err)
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	if logDir, _ := cmd.Flags().GetString("log-dir"); logDir != "" {
		cfg.LogDir = logDir
	}
	if levelName, _ := cmd.Flags().GetString("min-level"); levelName != "" {
		level, err := model.ParseLevel(levelName)
		if err != nil {
			return nil, err
		}
		cfg.MinLevel = level
	}
	if rulesFile, _ := cmd.Flags().GetString("rules"); rulesFile != "" {
		cfg.RulesFile = rulesFile
	}
	if noBuiltin, _ := cmd.Flags().GetBool("no-builtin-rules"); noBuiltin {
		cfg.DisableBuiltinRules = true
	}
	if digest, _ := cmd.Flags().GetString("digest"); digest != "" {
		cfg.DigestAlgorithm = digest
	}
	if concurrency, _ := cmd.Flags().GetInt("concurrency"); concurrency > 0 {
		cfg.Concurrency = concurrency
	}
	if dbDir, _ := cmd.Flags().GetString("db-dir"); dbDir != "" {
		cfg.History.DBDir = dbDir
	}

	// History is on by default for scans so compare has data to work
	// with; --no-history opts out.
	cfg.History.Enabled = true
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		cfg.History.Enabled = false
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	mdOut, _ := cmd.Flags().GetBool("markdown")
	if jsonOut && mdOut {
		return nil, errors.New("conflicting report formats: --json and --markdown cannot be used together")
	}

	return cfg, nil
}

// saveInspections stores every successful inspection in the history
// database.
func saveInspections(ctx context.Context, cfg *config.Config, scanReport *model.ScanReport) error {
	if len(scanReport.Inspections) == 0 {
		return nil
	}

	db, err := database.Open(cfg.HistoryDBDir(), database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	for _, insp := range scanReport.Inspections {
		if _, err := db.InsertInspection(ctx, insp); err != nil {
			return err
		}
	}
	return nil
}

// outputReport writes the scan report in the requested format to stdout
// or the given file.
func outputReport(stdout io.Writer, scanReport *model.ScanReport, jsonOut, mdOut bool, outFile string, verbose bool) error {
	out := stdout
	if outFile != "" {
		dir := filepath.Dir(outFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may name sensitive files; keep them owner-readable.
		f, err := os.OpenFile(outFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var w report.Writer
	switch {
	case jsonOut:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case mdOut:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(verbose))
	}

	_, err := w.Write(scanReport)
	return err
}
