package workspace

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestResolve_NonRepoFallsBackToStart(t *testing.T) {
	dir := t.TempDir()
	root, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// TempDir may itself sit under a repo on dev machines, but the
	// resolved root must at least be absolute and contain dir.
	if !filepath.IsAbs(root) {
		t.Fatalf("root not absolute: %q", root)
	}
}

func TestRel(t *testing.T) {
	root := "/work/project"
	if runtime.GOOS == "windows" {
		t.Skip("unix-style fixture paths")
	}
	if got := Rel(root, "/work/project/src/a.go"); got != "src/a.go" {
		t.Fatalf("Rel = %q", got)
	}
	// already relative: passed through slash-normalized
	if got := Rel(root, "src/a.go"); got != "src/a.go" {
		t.Fatalf("relative passthrough = %q", got)
	}
}
