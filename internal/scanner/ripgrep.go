package scanner

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/accrava/patrol/internal/types"
)

// Ripgrep is the line-search adapter. One invocation covers a whole tree
// or a single file; rg does its own traversal.
type Ripgrep struct {
	// Path is the executable; empty means "rg" on PATH.
	Path    string
	Timeout time.Duration
}

func (r *Ripgrep) Kind() types.ScannerKind { return types.KindRipgrep }

func (r *Ripgrep) tool() string {
	if r.Path != "" {
		return r.Path
	}
	return "rg"
}

func (r *Ripgrep) Probe(ctx context.Context) error {
	return probe(ctx, r.tool(), "--version")
}

func (r *Ripgrep) Scan(ctx context.Context, rule types.PatternRule, root, target string) (Result, error) {
	// --with-filename keeps the path:line:content shape even for a
	// single-file target, where rg would otherwise omit the path.
	args := []string{"--line-number", "--no-heading", "--with-filename", "--color", "never"}
	args = append(args, rule.Options...)
	for _, g := range fileTypeGlobs(rule) {
		args = append(args, "-g", g)
	}
	args = append(args, "-e", rule.Pattern, target)
	return run(ctx, root, r.tool(), r.Timeout, args...)
}

// ListFiles enumerates files under root matching the extension set,
// workspace-relative. The structural scanner cannot traverse directories,
// so its per-file invocations are fed from here.
func (r *Ripgrep) ListFiles(ctx context.Context, root string, exts []string) ([]string, error) {
	args := []string{"--files"}
	for _, ext := range exts {
		args = append(args, "-g", "*"+ext)
	}
	res, err := run(ctx, root, r.tool(), r.Timeout, args...)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		if res.NoMatches() {
			return nil, nil
		}
		return nil, &ExecError{Tool: r.tool(), ExitCode: res.ExitCode, Stderr: string(bytes.TrimSpace(res.Stderr))}
	}
	var files []string
	sc := bufio.NewScanner(bytes.NewReader(res.Stdout))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			files = append(files, line)
		}
	}
	return files, sc.Err()
}

// fileTypeGlobs converts a rule's extension set to rg -g filters. The
// wildcard (or an empty set) means no filtering.
func fileTypeGlobs(rule types.PatternRule) []string {
	if len(rule.FileTypes) == 0 {
		return nil
	}
	var globs []string
	for _, ft := range rule.FileTypes {
		if ft == types.WildcardFileType {
			return nil
		}
		ext := strings.TrimPrefix(ft, ".")
		globs = append(globs, "*."+ext)
	}
	return globs
}
