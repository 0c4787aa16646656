package scanner

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/accrava/patrol/internal/types"
)

// StructuralExtensions is the fixed language set the structural scanner
// can parse. It applies regardless of a rule's configured file types.
var StructuralExtensions = []string{".c", ".h", ".cc", ".cpp", ".cxx", ".hpp", ".hh"}

// StructuralSupports reports whether the structural scanner can parse path.
func StructuralSupports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range StructuralExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Weggli is the structural-query adapter. It is invoked once per file;
// it does not traverse directories itself.
type Weggli struct {
	// Path is the executable; empty means "weggli" on PATH.
	Path    string
	Timeout time.Duration
}

func (w *Weggli) Kind() types.ScannerKind { return types.KindWeggli }

func (w *Weggli) tool() string {
	if w.Path != "" {
		return w.Path
	}
	return "weggli"
}

func (w *Weggli) Probe(ctx context.Context) error {
	return probe(ctx, w.tool(), "--version")
}

// Scan runs the query against a single file. Target must be one file path
// the structural scanner supports; the engine enforces both.
func (w *Weggli) Scan(ctx context.Context, rule types.PatternRule, root, target string) (Result, error) {
	args := append([]string{}, rule.Options...)
	args = append(args, rule.Pattern, target)
	return run(ctx, root, w.tool(), w.Timeout, args...)
}
