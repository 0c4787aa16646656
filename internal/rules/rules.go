// Package rules is the pattern catalog: the built-in rule set plus any
// workspace rule file, validated and filtered for a run.
package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/accrava/patrol/internal/types"
)

// RulesFileName is the workspace rule file loaded after the built-ins.
const RulesFileName = "patrol.rules.yaml"

// LoadFile parses a YAML rule file: a top-level `rules:` list.
func LoadFile(path string) ([]types.PatternRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Rules []types.PatternRule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}
	return doc.Rules, nil
}

// Load assembles the catalog for a workspace: built-ins first, then the
// workspace rule file (which may shadow a built-in by name), then the
// enable/disable filters, then validation. Order is preserved throughout;
// rule order is part of the run's contract.
func Load(root, enable, disable string) ([]types.PatternRule, error) {
	catalog := Builtin()
	extra, err := LoadFile(filepath.Join(root, RulesFileName))
	switch {
	case err == nil:
		catalog = merge(catalog, extra)
	case errors.Is(err, fs.ErrNotExist):
		// no workspace rule file; built-ins alone
	default:
		return nil, fmt.Errorf("workspace rules: %w", err)
	}
	catalog = filter(catalog, enable, disable)
	if err := Validate(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Validate rejects catalogs with duplicate names, unknown scanner kinds,
// unknown severities, or empty patterns.
func Validate(rules []types.PatternRule) error {
	seen := map[string]bool{}
	for _, r := range rules {
		if r.Name == "" {
			return fmt.Errorf("rule with empty name")
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate rule name %q", r.Name)
		}
		seen[r.Name] = true
		if !r.Kind.Valid() {
			return fmt.Errorf("rule %q: unknown scanner kind %q", r.Name, r.Kind)
		}
		if _, ok := types.ParseSeverity(string(r.Severity)); !ok {
			return fmt.Errorf("rule %q: unknown severity %q", r.Name, r.Severity)
		}
		if strings.TrimSpace(r.Pattern) == "" {
			return fmt.Errorf("rule %q: empty pattern", r.Name)
		}
	}
	return nil
}

// Names lists rule names in catalog order.
func Names(rules []types.PatternRule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Name
	}
	return out
}

func merge(base, extra []types.PatternRule) []types.PatternRule {
	byName := map[string]int{}
	for i, r := range base {
		byName[r.Name] = i
	}
	for _, r := range extra {
		if i, ok := byName[r.Name]; ok {
			base[i] = r
			continue
		}
		byName[r.Name] = len(base)
		base = append(base, r)
	}
	return base
}

func filter(rules []types.PatternRule, enable, disable string) []types.PatternRule {
	if enable != "" {
		want := csvSet(enable)
		var kept []types.PatternRule
		for _, r := range rules {
			if want[r.Name] {
				kept = append(kept, r)
			}
		}
		return kept
	}
	if disable != "" {
		drop := csvSet(disable)
		var kept []types.PatternRule
		for _, r := range rules {
			if !drop[r.Name] {
				kept = append(kept, r)
			}
		}
		return kept
	}
	return rules
}

func csvSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			set[part] = true
		}
	}
	return set
}
