package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/accrava/patrol/internal/scanner"
	"github.com/accrava/patrol/internal/types"
)

func init() {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the external scanners respond",
		RunE:  runDoctor,
	}
	cmd.Flags().StringVar(&flagRgPath, "rg-path", "", "ripgrep executable (default: rg on PATH)")
	cmd.Flags().StringVar(&flagWeggliPath, "weggli-path", "", "weggli executable (default: weggli on PATH)")
	rootCmd.AddCommand(cmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	adapters := []scanner.Adapter{
		&scanner.Ripgrep{Path: flagRgPath},
		&scanner.Weggli{Path: flagWeggliPath},
	}
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed).SprintFunc()

	healthy := true
	for _, ad := range adapters {
		name := kindLabel(ad.Kind())
		if err := ad.Probe(ctx); err != nil {
			healthy = false
			fmt.Fprintf(os.Stdout, "%s %s: %v\n", bad("✗"), name, err)
			continue
		}
		fmt.Fprintf(os.Stdout, "%s %s\n", ok("✓"), name)
	}
	if !healthy {
		fmt.Fprintln(os.Stdout, "rules for unavailable scanners are dropped from runs")
	}
	return nil
}

func kindLabel(k types.ScannerKind) string {
	switch k {
	case types.KindRipgrep:
		return "ripgrep (line search)"
	case types.KindWeggli:
		return "weggli (structural query)"
	}
	return string(k)
}
