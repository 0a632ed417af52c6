package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/seclog/seclog/internal/config"
	"github.com/seclog/seclog/internal/database"
	"github.com/spf13/cobra"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <file>",
		Short: "Compare the two most recent inspections of a file",
		Long: `Compare checks a file for drift between its two most recent recorded
inspections: whether the content digest changed and which suspicious
pattern categories appeared that were not present before.

The file needs at least two recorded inspections; run "seclog scan" to
record them.

Examples:
  # Compare the latest two inspections
  seclog compare /opt/app/plugin.py

  # List every file with recorded history
  seclog compare --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Directory for the history database (default: XDG data directory)")
	cmd.Flags().Bool("list", false,
		"List all files with recorded inspection history")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// mode=rw: comparing never creates a database.
	opts := database.Options{CreateIfNotExists: false, EnableWAL: true}
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("no inspection history available (run \"seclog scan\" first): %w", err)
	}
	defer db.Close()

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if list {
		return listHistory(cmd, db)
	}

	if len(args) != 1 {
		return errors.New("specify the file to compare, or use --list")
	}
	return compareFile(cmd, db, args[0])
}

// listHistory prints every path with recorded inspections.
func listHistory(cmd *cobra.Command, db *database.HistoryDB) error {
	paths, err := db.ListPaths(cmd.Context())
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No inspection history recorded.")
		return nil
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

// compareFile prints the drift between the latest two inspections.
func compareFile(cmd *cobra.Command, db *database.HistoryDB, path string) error {
	drift, err := db.CompareLatest(cmd.Context(), path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\n\n", path)
	fmt.Fprintf(out, "Previous inspection: %s\n", drift.Previous.InspectedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "  digest:  %s:%s\n", drift.Previous.DigestAlgorithm, drift.Previous.Digest)
	fmt.Fprintf(out, "  matches: %s\n", formatMatches(drift.Previous.Matches))
	fmt.Fprintf(out, "Latest inspection:   %s\n", drift.Latest.InspectedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "  digest:  %s:%s\n", drift.Latest.DigestAlgorithm, drift.Latest.Digest)
	fmt.Fprintf(out, "  matches: %s\n\n", formatMatches(drift.Latest.Matches))

	if !drift.Changed && len(drift.NewMatches) == 0 {
		fmt.Fprintln(out, "No drift: content unchanged.")
		return nil
	}

	if drift.Changed {
		fmt.Fprintln(out, "Content changed between inspections.")
	}
	if len(drift.NewMatches) > 0 {
		fmt.Fprintf(out, "New suspicious categories: %s\n", strings.Join(drift.NewMatches, ", "))
		return fmt.Errorf("drift introduced %d new suspicious categories", len(drift.NewMatches))
	}
	return nil
}

// formatMatches renders a match list for terminal output.
func formatMatches(matches []string) string {
	if len(matches) == 0 {
		return "(none)"
	}
	return strings.Join(matches, ", ")
}
