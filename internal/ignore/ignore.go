// Package ignore filters scan results through the workspace's
// .patrolignore file (gitignore syntax).
package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const FileName = ".patrolignore"

// always-excluded paths: our own metadata and the git object store
var builtin = []string{".patrol", ".git"}

type Matcher struct{ ps []gitignore.Pattern }

// Load builds the matcher for the workspace rooted at root. A missing
// .patrolignore leaves only the built-in exclusions; any other read
// failure is an error, since it would silently widen scan output.
func Load(root string) (Matcher, error) {
	var ps []gitignore.Pattern
	for _, line := range builtin {
		ps = append(ps, gitignore.ParsePattern(line, nil))
	}
	data, err := os.ReadFile(filepath.Join(root, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Matcher{ps: ps}, nil
	}
	if err != nil {
		return Matcher{}, fmt.Errorf("read %s: %w", FileName, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, nil))
	}
	return Matcher{ps: ps}, nil
}

// Match reports whether the workspace-relative slash path is excluded.
func (m Matcher) Match(p string) bool {
	for _, pat := range m.ps {
		if pat.Match(strings.Split(p, "/"), false) == gitignore.Exclude {
			return true
		}
	}
	return false
}
