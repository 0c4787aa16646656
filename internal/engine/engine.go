// Package engine runs one analysis: applicable rules are executed against
// external scanners, their output parsed, each match enriched with context
// and a fingerprint, and suppressed findings dropped.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/accrava/patrol/internal/excerpt"
	"github.com/accrava/patrol/internal/fingerprint"
	"github.com/accrava/patrol/internal/ignore"
	"github.com/accrava/patrol/internal/parser"
	"github.com/accrava/patrol/internal/scanner"
	"github.com/accrava/patrol/internal/suppress"
	"github.com/accrava/patrol/internal/types"
)

// FileLister enumerates workspace files by extension set. The structural
// scanner cannot traverse directories, so its per-file invocations are
// fed from the line-search tool's file walker.
type FileLister interface {
	ListFiles(ctx context.Context, root string, exts []string) ([]string, error)
}

type Config struct {
	// Root is the absolute workspace root.
	Root string
	// Target is a single workspace-relative file for single-file mode, or
	// empty for a whole-tree scan.
	Target string
	Rules  []types.PatternRule
	// Radius is the context window size; zero means excerpt.DefaultRadius.
	Radius int
	// Parallelism bounds concurrent rule execution; zero means serial.
	Parallelism int
	// Timeout bounds each scanner subprocess.
	Timeout time.Duration
}

// SkippedRule records a rule dropped from a run and why; the run result
// stays best-effort rather than failing outright.
type SkippedRule struct {
	Rule   string
	Reason string
}

type Result struct {
	SessionID  string
	Findings   []types.Finding
	Suppressed int
	Skipped    []SkippedRule
	Duration   time.Duration
}

type Engine struct {
	cfg      Config
	adapters map[types.ScannerKind]scanner.Adapter
	lister   FileLister
	store    *suppress.Store
	log      *zap.SugaredLogger
}

func New(cfg Config, adapters map[types.ScannerKind]scanner.Adapter, lister FileLister, store *suppress.Store, log *zap.SugaredLogger) *Engine {
	return &Engine{cfg: cfg, adapters: adapters, lister: lister, store: store, log: log}
}

// Run executes the pipeline: availability filter, file-type filter,
// per-rule execution, parse, enrich, suppress. A rule that fails is
// logged and skipped; a missing executable aborts the whole run with
// scanner.ErrToolNotFound.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	res := &Result{SessionID: uuid.NewString()}

	runnable := e.filterRules(ctx, res)
	matches, err := e.execute(ctx, runnable, res)
	if err != nil {
		return nil, err
	}

	ign, err := ignore.Load(e.cfg.Root)
	if err != nil {
		return nil, err
	}
	findings := e.enrich(matches, ign, res.SessionID)

	matcher := suppress.NewMatcher(e.store.Records())
	kept := findings[:0]
	for _, f := range findings {
		if rec := matcher.Match(f); rec != nil {
			res.Suppressed++
			e.log.Debugw("finding suppressed",
				"fingerprint", f.Fingerprint, "by", rec.Fingerprint, "path", f.Path, "line", f.Line)
			continue
		}
		kept = append(kept, f)
	}
	res.Findings = kept
	res.Duration = time.Since(started)
	return res, nil
}

// filterRules drops rules whose scanner is unavailable, and in
// single-file mode rules that do not apply to the target. The structural
// scanner additionally only ever sees its fixed language set.
func (e *Engine) filterRules(ctx context.Context, res *Result) []types.PatternRule {
	probed := map[types.ScannerKind]error{}
	var runnable []types.PatternRule
	for _, rule := range e.cfg.Rules {
		ad, ok := e.adapters[rule.Kind]
		if !ok {
			res.Skipped = append(res.Skipped, SkippedRule{Rule: rule.Name, Reason: fmt.Sprintf("no adapter for scanner %q", rule.Kind)})
			continue
		}
		perr, done := probed[rule.Kind]
		if !done {
			perr = ad.Probe(ctx)
			probed[rule.Kind] = perr
		}
		if perr != nil {
			res.Skipped = append(res.Skipped, SkippedRule{Rule: rule.Name, Reason: fmt.Sprintf("scanner unavailable: %v", perr)})
			e.log.Warnw("rule dropped, scanner unavailable", "rule", rule.Name, "scanner", rule.Kind, "error", perr)
			continue
		}
		if e.cfg.Target != "" && !e.applies(rule, e.cfg.Target) {
			res.Skipped = append(res.Skipped, SkippedRule{Rule: rule.Name, Reason: "file type not supported"})
			continue
		}
		runnable = append(runnable, rule)
	}
	return runnable
}

// applies combines the rule's own file-type set with the per-kind
// hard restriction.
func (e *Engine) applies(rule types.PatternRule, target string) bool {
	switch rule.Kind {
	case types.KindRipgrep:
		return rule.AppliesTo(target)
	case types.KindWeggli:
		return rule.AppliesTo(target) && scanner.StructuralSupports(target)
	}
	return false
}

// ruleMatch ties a raw match back to the rule that produced it until
// enrichment folds both into a finding.
type ruleMatch struct {
	rule types.PatternRule
	m    types.RawMatch
}

// execute runs every rule, in parallel when configured. Collected matches
// are appended under a mutex; result order across rules is not
// significant. ErrToolNotFound cancels the group and aborts the run.
func (e *Engine) execute(ctx context.Context, rules []types.PatternRule, res *Result) ([]ruleMatch, error) {
	var (
		mu      sync.Mutex
		matches []ruleMatch
	)
	collect := func(rule types.PatternRule, ms []types.RawMatch) {
		mu.Lock()
		for _, m := range ms {
			matches = append(matches, ruleMatch{rule: rule, m: m})
		}
		mu.Unlock()
	}
	skip := func(rule types.PatternRule, reason string) {
		mu.Lock()
		res.Skipped = append(res.Skipped, SkippedRule{Rule: rule.Name, Reason: reason})
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	if e.cfg.Parallelism > 1 {
		g.SetLimit(e.cfg.Parallelism)
	} else {
		g.SetLimit(1)
	}
	for _, rule := range rules {
		rule := rule
		g.Go(func() error {
			ms, err := e.runRule(gctx, rule)
			if err != nil {
				if errors.Is(err, scanner.ErrToolNotFound) || gctx.Err() != nil {
					return err
				}
				e.log.Warnw("rule failed", "rule", rule.Name, "error", err)
				skip(rule, err.Error())
				return nil
			}
			collect(rule, ms)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matches, nil
}

// runRule dispatches on the scanner kind. The switch is exhaustive over
// types.ScannerKind.
func (e *Engine) runRule(ctx context.Context, rule types.PatternRule) ([]types.RawMatch, error) {
	ad := e.adapters[rule.Kind]
	switch rule.Kind {
	case types.KindRipgrep:
		target := e.cfg.Target
		if target == "" {
			target = "."
		}
		return e.scanOne(ctx, ad, rule, target, parser.ParseRipgrep)
	case types.KindWeggli:
		return e.runStructural(ctx, ad, rule)
	}
	return nil, fmt.Errorf("unknown scanner kind %q", rule.Kind)
}

// runStructural feeds the per-file structural scanner from the file
// lister in tree mode, checking cancellation between files.
func (e *Engine) runStructural(ctx context.Context, ad scanner.Adapter, rule types.PatternRule) ([]types.RawMatch, error) {
	var files []string
	if e.cfg.Target != "" {
		files = []string{e.cfg.Target}
	} else {
		if e.lister == nil {
			return nil, fmt.Errorf("structural scan needs a file lister")
		}
		listed, err := e.lister.ListFiles(ctx, e.cfg.Root, scanner.StructuralExtensions)
		if err != nil {
			return nil, fmt.Errorf("enumerate structural targets: %w", err)
		}
		for _, f := range listed {
			if rule.AppliesTo(f) {
				files = append(files, f)
			}
		}
	}
	var all []types.RawMatch
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ms, err := e.scanOne(ctx, ad, rule, file, parser.ParseWeggli)
		if err != nil {
			return nil, err
		}
		// weggli reports the path it was handed; pin it to the invoked file
		for i := range ms {
			ms[i].Path = filepath.ToSlash(file)
		}
		all = append(all, ms...)
	}
	return all, nil
}

func (e *Engine) scanOne(ctx context.Context, ad scanner.Adapter, rule types.PatternRule, target string, parse func([]byte) ([]types.RawMatch, int)) ([]types.RawMatch, error) {
	res, err := ad.Scan(ctx, rule, e.cfg.Root, target)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		if res.NoMatches() {
			return nil, nil
		}
		return nil, &scanner.ExecError{
			Tool:     string(rule.Kind),
			ExitCode: res.ExitCode,
			Stderr:   string(bytes.TrimSpace(res.Stderr)),
		}
	}
	matches, skipped := parse(res.Stdout)
	if skipped > 0 {
		e.log.Warnw("malformed scanner output units skipped", "rule", rule.Name, "count", skipped)
	}
	return matches, nil
}

// enrich turns raw matches into findings: ignore filtering, context
// window, fingerprint. The excerpt cache lives exactly as long as this
// run.
func (e *Engine) enrich(matches []ruleMatch, ign ignore.Matcher, sessionID string) []types.Finding {
	radius := e.cfg.Radius
	if radius <= 0 {
		radius = excerpt.DefaultRadius
	}
	cache := excerpt.NewCache()
	now := time.Now().UTC()

	var findings []types.Finding
	for _, rm := range matches {
		m, rule := rm.m, rm.rule
		if ign.Match(m.Path) {
			continue
		}
		f := types.Finding{
			Path:            m.Path,
			Line:            m.Line,
			Match:           m.Text,
			RuleName:        rule.Name,
			RuleDescription: rule.Description,
			Kind:            rule.Kind,
			Severity:        rule.Severity,
			SessionID:       sessionID,
			Fingerprint:     fingerprint.Generate(rule.Name, m.Path, m.Text),
			CreatedAt:       now,
		}
		if w, ok := cache.Extract(filepath.Join(e.cfg.Root, filepath.FromSlash(m.Path)), m.Line, radius); ok {
			f.Context = w.Text
			f.ContextStart = w.StartLine
			f.ContextEnd = w.EndLine
		}
		findings = append(findings, f)
	}
	return findings
}
