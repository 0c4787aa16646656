// Package scanner invokes the external search executables and classifies
// how their invocations ended.
package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/accrava/patrol/internal/types"
)

// ErrToolNotFound means the configured executable does not exist. It is
// the one scanner failure that aborts a whole run; the caller surfaces it
// as an actionable error (install the tool or fix its path).
var ErrToolNotFound = errors.New("scanner executable not found")

// ExecError is a nonzero exit with a non-empty error stream: the tool ran
// and failed. Logged and the rule skipped; never fatal to the run.
type ExecError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s exited %d: %s", e.Tool, e.ExitCode, e.Stderr)
}

// Result is one invocation's raw outcome before parsing.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// NoMatches reports the distinguished "nothing found" exit: the specific
// nonzero code with an empty error stream. It is an empty result, not an
// error.
func (r Result) NoMatches() bool {
	return r.ExitCode == 1 && len(bytes.TrimSpace(r.Stderr)) == 0
}

// DefaultTimeout bounds one subprocess so a hung tool cannot stall a run.
const DefaultTimeout = 2 * time.Minute

// Adapter runs one scanner kind. Implementations are stateless; every
// invocation is an independent subprocess.
type Adapter interface {
	Kind() types.ScannerKind
	// Probe checks the executable responds to its version flag. A nil
	// error means available; anything else, including not-found, means
	// the kind's rules are dropped for the run.
	Probe(ctx context.Context) error
	// Scan runs the rule against target, which is interpreted relative to
	// root ("." for the whole tree, or a single file path). The raw result
	// is returned even on nonzero exit; only spawn-level failures are
	// errors.
	Scan(ctx context.Context, rule types.PatternRule, root, target string) (Result, error)
}

// run spawns the tool in dir with a bounded timeout and classifies the
// outcome. A missing executable maps to ErrToolNotFound; any exit code is
// reported through Result, not as an error.
func run(ctx context.Context, dir, tool string, timeout time.Duration, args ...string) (Result, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return res, fmt.Errorf("%s timed out after %s: %w", tool, timeout, ctx.Err())
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return res, fmt.Errorf("%w: %s", ErrToolNotFound, tool)
	}
	return res, fmt.Errorf("run %s: %w", tool, err)
}

// probe invokes the tool's version flag. Zero exit means available; any
// failure, including not-found, means unavailable.
func probe(ctx context.Context, tool, versionFlag string) error {
	res, err := run(ctx, "", tool, 10*time.Second, versionFlag)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &ExecError{Tool: tool, ExitCode: res.ExitCode, Stderr: string(bytes.TrimSpace(res.Stderr))}
	}
	return nil
}
