package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/accrava/patrol/internal/types"
)

func TestBuiltin_IsValid(t *testing.T) {
	if err := Validate(Builtin()); err != nil {
		t.Fatalf("built-in catalog invalid: %v", err)
	}
}

func TestLoad_WorkspaceFileExtendsAndShadows(t *testing.T) {
	root := t.TempDir()
	body := `rules:
  - name: hardcoded-credentials
    description: shadowed
    scanner: ripgrep
    pattern: 'custom-pattern'
    severity: medium
  - name: team-rule
    description: project-specific
    scanner: ripgrep
    pattern: 'forbidden_call\('
    severity: warning
    fileTypes: [go]
`
	if err := os.WriteFile(filepath.Join(root, RulesFileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	catalog, err := Load(root, "", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	byName := map[string]types.PatternRule{}
	for _, r := range catalog {
		byName[r.Name] = r
	}
	if byName["hardcoded-credentials"].Pattern != "custom-pattern" {
		t.Fatalf("workspace rule did not shadow built-in: %+v", byName["hardcoded-credentials"])
	}
	if byName["hardcoded-credentials"].Severity != types.SevMedium {
		t.Fatal("shadowed severity not applied")
	}
	if _, ok := byName["team-rule"]; !ok {
		t.Fatal("workspace rule missing from catalog")
	}
	// shadowing must not change catalog position
	if catalog[0].Name != "hardcoded-credentials" {
		t.Fatalf("catalog order changed: first is %q", catalog[0].Name)
	}
}

func TestLoad_MalformedWorkspaceFileIsAnError(t *testing.T) {
	root := t.TempDir()
	body := "rules:\n  - name: [unclosed\n"
	if err := os.WriteFile(filepath.Join(root, RulesFileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(root, "", ""); err == nil {
		t.Fatal("broken workspace rule file must fail the load, not fall back to built-ins")
	}
}

func TestLoad_UnreadableWorkspaceFileIsAnError(t *testing.T) {
	root := t.TempDir()
	// a directory in place of the rule file makes ReadFile fail with
	// something other than not-exist
	if err := os.Mkdir(filepath.Join(root, RulesFileName), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(root, "", ""); err == nil {
		t.Fatal("unreadable workspace rule file must surface, not be skipped")
	}
}

func TestLoad_EnableDisableFilters(t *testing.T) {
	root := t.TempDir()
	catalog, err := Load(root, "todo-marker,unchecked-malloc", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("enable filter: expected 2 rules, got %v", Names(catalog))
	}

	catalog, err = Load(root, "", "todo-marker")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, r := range catalog {
		if r.Name == "todo-marker" {
			t.Fatal("disabled rule still present")
		}
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name string
		rule types.PatternRule
	}{
		{"empty name", types.PatternRule{Kind: types.KindRipgrep, Pattern: "x", Severity: types.SevInfo}},
		{"bad kind", types.PatternRule{Name: "r", Kind: "semgrep", Pattern: "x", Severity: types.SevInfo}},
		{"bad severity", types.PatternRule{Name: "r", Kind: types.KindRipgrep, Pattern: "x", Severity: "fatal"}},
		{"empty pattern", types.PatternRule{Name: "r", Kind: types.KindRipgrep, Pattern: " ", Severity: types.SevInfo}},
	}
	for _, tc := range cases {
		if err := Validate([]types.PatternRule{tc.rule}); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
	dup := types.PatternRule{Name: "r", Kind: types.KindRipgrep, Pattern: "x", Severity: types.SevInfo}
	if err := Validate([]types.PatternRule{dup, dup}); err == nil {
		t.Fatal("duplicate names: expected validation error")
	}
}

func TestAppliesTo(t *testing.T) {
	wild := types.PatternRule{FileTypes: []string{types.WildcardFileType}}
	if !wild.AppliesTo("anything.xyz") {
		t.Fatal("wildcard must apply to everything")
	}
	goOnly := types.PatternRule{FileTypes: []string{"go"}}
	if !goOnly.AppliesTo("cmd/main.go") || goOnly.AppliesTo("main.py") {
		t.Fatal("extension filter wrong")
	}
	dotted := types.PatternRule{FileTypes: []string{".C"}}
	if !dotted.AppliesTo("src/old.c") {
		t.Fatal("extension matching must be case-insensitive and dot-tolerant")
	}
}
