package parser

import "testing"

func TestParseRipgrep_Basic(t *testing.T) {
	out := []byte("src/auth.go:10:password = \"abc12345\"\nsrc/db.go:3:  token := os.Getenv(\"TOKEN\")\n")
	matches, skipped := ParseRipgrep(out)
	if skipped != 0 {
		t.Fatalf("skipped %d lines", skipped)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Path != "src/auth.go" || matches[0].Line != 10 {
		t.Fatalf("first match: %+v", matches[0])
	}
	if matches[1].Text != `token := os.Getenv("TOKEN")` {
		t.Fatalf("content not trimmed: %q", matches[1].Text)
	}
}

func TestParseRipgrep_ContentMayContainColons(t *testing.T) {
	matches, _ := ParseRipgrep([]byte("a.go:7:url := \"https://example.com:8080\"\n"))
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Text != `url := "https://example.com:8080"` {
		t.Fatalf("content mangled: %q", matches[0].Text)
	}
}

func TestParseRipgrep_SkipsMalformedLines(t *testing.T) {
	out := []byte("garbage line\nsrc/a.go:notanumber:x\nsrc/a.go:-4:x\nsrc/a.go:5:fine\n")
	matches, skipped := ParseRipgrep(out)
	if len(matches) != 1 || matches[0].Line != 5 {
		t.Fatalf("expected the one well-formed match, got %+v", matches)
	}
	if skipped != 3 {
		t.Fatalf("expected 3 skipped, got %d", skipped)
	}
}

func TestParseRipgrep_Empty(t *testing.T) {
	matches, skipped := ParseRipgrep(nil)
	if len(matches) != 0 || skipped != 0 {
		t.Fatalf("empty input: matches=%d skipped=%d", len(matches), skipped)
	}
}

func TestParseRipgrep_StripsDotSlash(t *testing.T) {
	matches, _ := ParseRipgrep([]byte("./src/a.go:1:x\n"))
	if len(matches) != 1 || matches[0].Path != "src/a.go" {
		t.Fatalf("dot-slash prefix kept: %+v", matches)
	}
}
