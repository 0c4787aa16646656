package rules

import "github.com/accrava/patrol/internal/types"

// Builtin is the default rule set shipped with patrol. Workspace rule
// files may shadow any of these by name.
func Builtin() []types.PatternRule {
	return []types.PatternRule{
		{
			Name:        "hardcoded-credentials",
			Description: "Password or secret assigned from a string literal",
			Kind:        types.KindRipgrep,
			Pattern:     `(?i)(password|passwd|secret|api_?key)\s*[:=]\s*["'][^"']{4,}["']`,
			Severity:    types.SevCritical,
			FileTypes:   []string{types.WildcardFileType},
		},
		{
			Name:        "private-key-material",
			Description: "Inline PEM private key block",
			Kind:        types.KindRipgrep,
			Pattern:     `-----BEGIN (RSA |EC |OPENSSH )?PRIVATE KEY-----`,
			Severity:    types.SevCritical,
			FileTypes:   []string{types.WildcardFileType},
		},
		{
			Name:        "insecure-http-url",
			Description: "Plain-HTTP URL in source",
			Kind:        types.KindRipgrep,
			Pattern:     `http://[a-zA-Z0-9.-]+`,
			Options:     []string{"--pcre2"},
			Severity:    types.SevWarning,
			FileTypes:   []string{"go", "py", "js", "ts", "java", "c", "cpp", "h"},
		},
		{
			Name:        "todo-marker",
			Description: "Leftover TODO/FIXME marker",
			Kind:        types.KindRipgrep,
			Pattern:     `(TODO|FIXME|XXX)\b`,
			Severity:    types.SevInfo,
			FileTypes:   []string{types.WildcardFileType},
		},
		{
			Name:        "unchecked-malloc",
			Description: "malloc result used without a null check",
			Kind:        types.KindWeggli,
			Pattern:     `{ _* $p = malloc(_); $p; not: if (_($p)) _; }`,
			Severity:    types.SevMedium,
			FileTypes:   []string{"c", "h", "cc", "cpp"},
		},
		{
			Name:        "memcpy-into-stack-buffer",
			Description: "memcpy into a fixed-size stack buffer",
			Kind:        types.KindWeggli,
			Pattern:     `{ _ $buf[_]; memcpy($buf, _, _); }`,
			Severity:    types.SevMedium,
			FileTypes:   []string{"c", "cc", "cpp"},
		},
	}
}
