// Package workspace resolves the workspace root a scan is anchored to.
// Fingerprints hash workspace-relative paths, so every clone of the same
// repository produces the same ids.
package workspace

import (
	"path/filepath"

	git "github.com/go-git/go-git/v5"
)

// Resolve returns the workspace root for start: the enclosing git
// worktree when one exists, otherwise start itself, always absolute.
func Resolve(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return abs, nil
	}
	wt, err := repo.Worktree()
	if err != nil {
		return abs, nil
	}
	return wt.Filesystem.Root(), nil
}

// Rel expresses path workspace-relative with forward slashes. A path that
// cannot be made relative (different volume, already relative) is returned
// slash-normalized as-is.
func Rel(root, path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
