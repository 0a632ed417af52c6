package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/seclog/seclog/internal/rules"
	"github.com/spf13/cobra"
)

// NewRulesCmd creates the rules command.
func NewRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active detection rules",
		Long: `Rules prints the detection rule set that scans use: the built-in
rules plus any custom rules loaded from a rules file.

Examples:
  # List the built-in rules
  seclog rules

  # Include custom rules
  seclog rules -r myrules.yaml

  # Only custom rules
  seclog rules -r myrules.yaml --no-builtin-rules`,
		Args: cobra.NoArgs,
		RunE: runRulesCmd,
	}

	cmd.Flags().StringP("rules", "r", "",
		"YAML file with additional detection rules")
	cmd.Flags().Bool("no-builtin-rules", false,
		"Disable the built-in detection rule set")

	return cmd
}

// runRulesCmd executes the rules command.
func runRulesCmd(cmd *cobra.Command, _ []string) error {
	var ruleSet []rules.Rule

	noBuiltin, err := cmd.Flags().GetBool("no-builtin-rules")
	if err != nil {
		return err
	}
	if !noBuiltin {
		ruleSet = rules.Builtin()
	}

	rulesFile, err := cmd.Flags().GetString("rules")
	if err != nil {
		return err
	}
	if rulesFile != "" {
		custom, err := rules.LoadFile(rulesFile)
		if err != nil {
			return err
		}
		ruleSet = append(ruleSet, custom...)
	}

	if len(ruleSet) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No detection rules active.")
		return nil
	}

	// Compile to catch invalid custom patterns before printing.
	if _, err := rules.NewMatcher(ruleSet); err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tSEVERITY\tPATTERN\tDESCRIPTION")
	for _, r := range ruleSet {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Category, r.Severity, r.Pattern, r.Description)
	}
	return w.Flush()
}
