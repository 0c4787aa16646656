package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/accrava/patrol/internal/types"
)

func init() {
	ignoreCmd := &cobra.Command{
		Use:   "ignore <fingerprint>",
		Short: "Dismiss a finding so future scans hide it",
		Long: "Re-runs the analysis, locates the finding with the given fingerprint\n" +
			"and records it in the workspace suppression list.",
		Args: cobra.ExactArgs(1),
		RunE: runIgnore,
	}
	ignoreCmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path inside the workspace")

	unignoreCmd := &cobra.Command{
		Use:   "unignore <fingerprint>",
		Short: "Remove a suppression so the finding reappears",
		Args:  cobra.ExactArgs(1),
		RunE:  runUnignore,
	}
	unignoreCmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path inside the workspace")

	listCmd := &cobra.Command{
		Use:   "suppressions",
		Short: "List the workspace's suppression records",
		RunE:  runSuppressions,
	}
	listCmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path inside the workspace")

	rootCmd.AddCommand(ignoreCmd, unignoreCmd, listCmd)
}

func runIgnore(_ *cobra.Command, args []string) error {
	fp := args[0]
	sess, err := newSession("")
	if err != nil {
		return err
	}
	defer sess.log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	res, err := sess.engine.Run(ctx)
	if err != nil {
		return err
	}
	var target *types.Finding
	for i := range res.Findings {
		if res.Findings[i].Fingerprint == fp {
			target = &res.Findings[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no current finding with fingerprint %s (already suppressed, or stale id)", fp)
	}

	added, err := sess.store.Add(types.SuppressionRecord{
		Fingerprint:  target.Fingerprint,
		SessionID:    target.SessionID,
		RuleName:     target.RuleName,
		Path:         target.Path,
		Line:         target.Line,
		Match:        target.Match,
		SuppressedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if !added {
		fmt.Fprintf(os.Stderr, "%s was already suppressed\n", fp)
		return nil
	}
	fmt.Fprintf(os.Stderr, "suppressed %s (%s at %s:%d)\n", fp, target.RuleName, target.Path, target.Line)
	return nil
}

func runUnignore(_ *cobra.Command, args []string) error {
	sess, err := newSession("")
	if err != nil {
		return err
	}
	defer sess.log.Sync()

	removed, err := sess.store.Remove(args[0])
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("no suppression record with fingerprint %s", args[0])
	}
	fmt.Fprintf(os.Stderr, "removed suppression %s\n", args[0])
	return nil
}

func runSuppressions(_ *cobra.Command, _ []string) error {
	sess, err := newSession("")
	if err != nil {
		return err
	}
	defer sess.log.Sync()

	recs := sess.store.Records()
	if len(recs) == 0 {
		fmt.Println("No suppressions.")
		return nil
	}
	for _, r := range recs {
		fmt.Printf("%s  %-24s %s:%d  suppressed %s\n",
			r.Fingerprint, r.RuleName, r.Path, r.Line, r.SuppressedAt.Format("2006-01-02"))
	}
	return nil
}
