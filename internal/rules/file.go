package rules

import (
	"fmt"
	"os"

	"github.com/seclog/seclog/internal/model"
	"gopkg.in/yaml.v3"
)

// fileRule mirrors a single rule in the YAML rules file. Severity is a
// level name ("warning", "critical") and is parsed during conversion.
type fileRule struct {
	Category    string `yaml:"category"`
	Description string `yaml:"description,omitempty"`
	Severity    string `yaml:"severity"`
	Pattern     string `yaml:"pattern"`
}

type rulesFile struct {
	Rules []fileRule `yaml:"rules"`
}

// LoadFile reads additional detection rules from a YAML file. The
// returned rules are not yet compiled; pass them to NewMatcher together
// with the built-in set.
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided rules path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	rules := make([]Rule, 0, len(rf.Rules))
	for i, fr := range rf.Rules {
		severity, err := model.ParseLevel(fr.Severity)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, fr.Category, err)
		}
		rules = append(rules, Rule{
			Category:    fr.Category,
			Description: fr.Description,
			Severity:    severity,
			Pattern:     fr.Pattern,
		})
	}
	return rules, nil
}
