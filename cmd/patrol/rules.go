package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/accrava/patrol/internal/report"
	"github.com/accrava/patrol/internal/rules"
	"github.com/accrava/patrol/internal/workspace"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalog for this workspace",
		RunE:  runRules,
	}
	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path inside the workspace")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(cmd)
}

func runRules(_ *cobra.Command, _ []string) error {
	root, err := workspace.Resolve(flagPath)
	if err != nil {
		return err
	}
	catalog, err := rules.Load(root, flagEnable, flagDisable)
	if err != nil {
		return err
	}
	if flagJSON {
		return report.PrintJSONValue(os.Stdout, catalog)
	}
	for _, r := range catalog {
		fts := "*"
		if len(r.FileTypes) > 0 {
			fts = strings.Join(r.FileTypes, ",")
		}
		fmt.Printf("%-28s %-8s %-9s %-12s %s\n", r.Name, r.Kind, r.Severity, fts, r.Description)
	}
	return nil
}
