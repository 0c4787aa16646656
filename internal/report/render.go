// Package report renders run results and decides CI exit behavior.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/accrava/patrol/internal/types"
)

type PrintOptions struct {
	NoColor    bool
	Duration   time.Duration
	Suppressed int
	Skipped    int
}

// PrintTable writes the human-readable findings list, sorted by path then
// line. Finding order across rules is not otherwise guaranteed.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Path == findings[j].Path {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].Path < findings[j].Path
	})
	if len(findings) == 0 {
		fmt.Fprintln(w, "No findings.")
		printFooter(w, opts)
		return
	}
	fmt.Fprintf(w, "Findings: %d\n", len(findings))
	for _, f := range findings {
		fmt.Fprintf(w, "%-8s %-24s %s:%d  %s  [%s]\n",
			severityLabel(f.Severity, opts.NoColor), f.RuleName, f.Path, f.Line, f.Match, f.Fingerprint)
	}
	printFooter(w, opts)
}

func printFooter(w io.Writer, opts PrintOptions) {
	if opts.Suppressed > 0 {
		fmt.Fprintf(w, "(%d suppressed)\n", opts.Suppressed)
	}
	if opts.Skipped > 0 {
		fmt.Fprintf(w, "(%d rules skipped; run with --debug for details)\n", opts.Skipped)
	}
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scanned in %s\n", opts.Duration.Round(time.Millisecond))
	}
}

func severityLabel(s types.Severity, noColor bool) string {
	if noColor {
		return string(s)
	}
	switch s {
	case types.SevCritical:
		return color.New(color.FgRed, color.Bold).Sprint(s)
	case types.SevMedium:
		return color.New(color.FgRed).Sprint(s)
	case types.SevWarning:
		return color.New(color.FgYellow).Sprint(s)
	case types.SevInfo:
		return color.New(color.FgCyan).Sprint(s)
	}
	return string(s)
}

// PrintJSON writes the findings as a JSON array; an empty run is `[]`,
// never `null`.
func PrintJSON(w io.Writer, findings []types.Finding) error {
	if findings == nil {
		findings = []types.Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

// PrintJSONValue writes any value as indented JSON.
func PrintJSONValue(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ShouldFail reports whether any finding reaches the threshold severity.
// An unknown threshold defaults to medium.
func ShouldFail(findings []types.Finding, failOn string) bool {
	th, ok := types.ParseSeverity(failOn)
	if !ok {
		th = types.SevMedium
	}
	for _, f := range findings {
		if f.Severity.Rank() >= th.Rank() {
			return true
		}
	}
	return false
}
