package fingerprint

import "testing"

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate("hardcoded-credentials", "src/auth.go", `password = "abc12345"`)
	b := Generate("hardcoded-credentials", "src/auth.go", `password = "abc12345"`)
	if a != b {
		t.Fatalf("same inputs produced %q and %q", a, b)
	}
	if len(a) != Length {
		t.Fatalf("expected %d hex chars, got %d (%q)", Length, len(a), a)
	}
}

func TestGenerate_SensitiveToEachInput(t *testing.T) {
	base := Generate("rule-a", "a/b.c", "match text")
	variants := []string{
		Generate("rule-b", "a/b.c", "match text"),
		Generate("rule-a", "a/x.c", "match text"),
		Generate("rule-a", "a/b.c", "match text!"),
	}
	seen := map[string]bool{base: true}
	for i, v := range variants {
		if seen[v] {
			t.Fatalf("variant %d collided: %q", i, v)
		}
		seen[v] = true
	}
}

func TestGenerate_NoCollisionsSmallCorpus(t *testing.T) {
	rules := []string{"hardcoded-credentials", "unchecked-malloc", "todo-marker"}
	paths := []string{"a.go", "src/a.go", "src/b.go", "deep/nested/dir/a.go"}
	texts := []string{"x = 1", "x = 2", `key := "s3cr3t"`, "malloc(n)"}
	seen := map[string]string{}
	for _, r := range rules {
		for _, p := range paths {
			for _, m := range texts {
				fp := Generate(r, p, m)
				key := r + "|" + p + "|" + m
				if prev, ok := seen[fp]; ok {
					t.Fatalf("collision between %q and %q: %s", prev, key, fp)
				}
				seen[fp] = key
			}
		}
	}
}
