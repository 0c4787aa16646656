package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/accrava/patrol/internal/audit"
	"github.com/accrava/patrol/internal/config"
	"github.com/accrava/patrol/internal/engine"
	"github.com/accrava/patrol/internal/report"
	"github.com/accrava/patrol/internal/rules"
	"github.com/accrava/patrol/internal/scanner"
	"github.com/accrava/patrol/internal/suppress"
	"github.com/accrava/patrol/internal/types"
	"github.com/accrava/patrol/internal/workspace"
)

var (
	flagPath        string
	flagFile        string
	flagJSON        bool
	flagFailOn      string
	flagRadius      int
	flagParallelism int
	flagTimeout     time.Duration
	flagEnable      string
	flagDisable     string
	flagNoColor     bool
	flagRgPath      string
	flagWeggliPath  string
	flagNoAudit     bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run all applicable pattern rules and report unsuppressed findings",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path used to locate the workspace; the scan covers the whole workspace")
	cmd.Flags().StringVar(&flagFile, "file", "", "scan a single file instead of the whole tree")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "emit JSON")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "medium", "lowest severity that fails the run (info|warning|medium|critical)")
	cmd.Flags().IntVar(&flagRadius, "radius", 0, "context lines around each match (0 = default)")
	cmd.Flags().IntVar(&flagParallelism, "parallelism", 0, "concurrent rule executions (0 = serial)")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "per-scanner-invocation timeout (0 = default)")
	cmd.Flags().StringVar(&flagEnable, "enable", "", "only run these rules (comma-separated names)")
	cmd.Flags().StringVar(&flagDisable, "disable", "", "disable these rules (comma-separated names)")
	cmd.Flags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	cmd.Flags().StringVar(&flagRgPath, "rg-path", "", "ripgrep executable (default: rg on PATH)")
	cmd.Flags().StringVar(&flagWeggliPath, "weggli-path", "", "weggli executable (default: weggli on PATH)")
	cmd.Flags().BoolVar(&flagNoAudit, "no-audit", false, "skip writing the audit history record")
}

// session bundles everything one analysis run needs; built once per
// command invocation.
type session struct {
	root    string
	store   *suppress.Store
	engine  *engine.Engine
	log     *zap.SugaredLogger
	noColor bool
	failOn  string
}

// newSession resolves the workspace and wires store, catalog and engine.
// file, when non-empty, selects single-file mode.
func newSession(file string) (*session, error) {
	root, err := workspace.Resolve(flagPath)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}
	target := ""
	if file != "" {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, err
		}
		target = workspace.Rel(root, abs)
	}

	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(root); err == nil {
		lcfg = c
	}

	catalog, err := rules.Load(root,
		config.PickString(flagEnable, lcfg.Enable, gcfg.Enable),
		config.PickString(flagDisable, lcfg.Disable, gcfg.Disable))
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	store, err := suppress.Open(root)
	if err != nil {
		return nil, err
	}

	timeout := flagTimeout
	if timeout == 0 {
		if s := config.PickString("", lcfg.Timeout, gcfg.Timeout); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				timeout = d
			}
		}
	}

	rg := &scanner.Ripgrep{
		Path:    config.PickString(flagRgPath, lcfg.RipgrepPath, gcfg.RipgrepPath),
		Timeout: timeout,
	}
	wg := &scanner.Weggli{
		Path:    config.PickString(flagWeggliPath, lcfg.WeggliPath, gcfg.WeggliPath),
		Timeout: timeout,
	}
	adapters := map[types.ScannerKind]scanner.Adapter{
		types.KindRipgrep: rg,
		types.KindWeggli:  wg,
	}

	log := newLogger()
	cfg := engine.Config{
		Root:        root,
		Target:      target,
		Rules:       catalog,
		Radius:      config.PickInt(flagRadius, lcfg.Radius, gcfg.Radius),
		Parallelism: config.PickInt(flagParallelism, lcfg.Parallelism, gcfg.Parallelism),
		Timeout:     timeout,
	}
	return &session{
		root:    root,
		store:   store,
		engine:  engine.New(cfg, adapters, rg, store, log),
		log:     log,
		noColor: config.PickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor),
		failOn:  config.PickString(flagFailOn, lcfg.FailOn, gcfg.FailOn),
	}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runScan(_ *cobra.Command, _ []string) error {
	sess, err := newSession(flagFile)
	if err != nil {
		return err
	}
	defer sess.log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	res, err := sess.engine.Run(ctx)
	if err != nil {
		if errors.Is(err, scanner.ErrToolNotFound) {
			return fmt.Errorf("%w\ninstall the scanner or point patrol at it with --rg-path/--weggli-path", err)
		}
		return err
	}

	if flagJSON {
		if err := report.PrintJSON(os.Stdout, res.Findings); err != nil {
			return err
		}
	} else {
		report.PrintTable(os.Stdout, res.Findings, report.PrintOptions{
			NoColor:    sess.noColor,
			Duration:   res.Duration,
			Suppressed: res.Suppressed,
			Skipped:    len(res.Skipped),
		})
	}

	if !flagNoAudit {
		if err := writeAudit(sess.root, res); err != nil {
			sess.log.Debugw("audit record not written", "error", err)
		}
	}

	if report.ShouldFail(res.Findings, sess.failOn) {
		os.Exit(1)
	}
	return nil
}

func writeAudit(root string, res *engine.Result) error {
	counts := map[string]int{}
	for _, f := range res.Findings {
		counts[string(f.Severity)]++
	}
	skipped := make([]string, 0, len(res.Skipped))
	for _, s := range res.Skipped {
		skipped = append(skipped, s.Rule)
	}
	return audit.NewLog(root).Append(audit.RunRecord{
		Timestamp:      time.Now().UTC(),
		SessionID:      res.SessionID,
		Root:           root,
		TotalFindings:  len(res.Findings) + res.Suppressed,
		Suppressed:     res.Suppressed,
		SkippedRules:   skipped,
		SeverityCounts: counts,
		Duration:       res.Duration.String(),
	})
}
