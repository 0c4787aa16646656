package suppress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accrava/patrol/internal/types"
)

func record(rule, path string, line int, match string) types.SuppressionRecord {
	return types.SuppressionRecord{
		Fingerprint:  "fp-" + rule + "-" + path,
		RuleName:     rule,
		Path:         path,
		Line:         line,
		Match:        match,
		SuppressedAt: time.Now(),
	}
}

func finding(rule, path string, line int, match string) types.Finding {
	return types.Finding{
		RuleName:    rule,
		Path:        path,
		Line:        line,
		Match:       match,
		Fingerprint: "fresh-fingerprint",
	}
}

func TestMatch_ExactFingerprintWins(t *testing.T) {
	rec := record("creds", "src/auth.go", 10, `password = "abc12345"`)
	m := NewMatcher([]types.SuppressionRecord{rec})

	f := finding("creds", "src/auth.go", 10, `password = "abc12345"`)
	f.Fingerprint = rec.Fingerprint
	got := m.Match(f)
	require.NotNil(t, got)
	assert.Equal(t, rec.Fingerprint, got.Fingerprint)
}

func TestMatch_FuzzyToleratesLineDrift(t *testing.T) {
	rec := record("creds", "src/auth.go", 10, `password = "abc12345"`)
	m := NewMatcher([]types.SuppressionRecord{rec})

	// five blank lines inserted above: same text, line 15
	got := m.Match(finding("creds", "src/auth.go", 15, `password = "abc12345"`))
	require.NotNil(t, got, "drift of 5 within threshold must re-identify")

	// drift of exactly the threshold still matches
	require.NotNil(t, m.Match(finding("creds", "src/auth.go", 25, `password = "abc12345"`)))

	// drift of 16 exceeds the threshold
	assert.Nil(t, m.Match(finding("creds", "src/auth.go", 26, `password = "abc12345"`)))
}

func TestMatch_FuzzySimilarityBoundary(t *testing.T) {
	rec := record("creds", "src/auth.go", 10, `password = "abc12345"`)
	m := NewMatcher([]types.SuppressionRecord{rec})

	// rewritten value, similarity well below 0.70
	assert.Nil(t, m.Match(finding("creds", "src/auth.go", 10, `password = "zzzzzzzzzz"`)))

	// one-character edit stays above the floor
	require.NotNil(t, m.Match(finding("creds", "src/auth.go", 10, `password = "abc12346"`)))
}

func TestMatch_FuzzyRequiresSameRule(t *testing.T) {
	rec := record("creds", "src/auth.go", 10, `password = "abc12345"`)
	m := NewMatcher([]types.SuppressionRecord{rec})
	assert.Nil(t, m.Match(finding("other-rule", "src/auth.go", 10, `password = "abc12345"`)))
}

func TestMatch_MovedFileBasenameHeuristic(t *testing.T) {
	rec := record("creds", "src/auth.go", 10, `password = "abc12345"`)
	m := NewMatcher([]types.SuppressionRecord{rec})

	// file moved to another directory, same basename
	require.NotNil(t, m.Match(finding("creds", "internal/legacy/auth.go", 10, `password = "abc12345"`)))

	// different basename never fuzzy-matches
	assert.Nil(t, m.Match(finding("creds", "src/session.go", 10, `password = "abc12345"`)))
}

func TestMatch_FirstFitInRecordOrder(t *testing.T) {
	first := record("creds", "src/auth.go", 10, `password = "abc12345"`)
	second := record("creds", "src/auth.go", 11, `password = "abc12345"`)
	second.Fingerprint = "fp-second"
	m := NewMatcher([]types.SuppressionRecord{first, second})

	// both records satisfy the fuzzy predicate; list order decides
	got := m.Match(finding("creds", "src/auth.go", 12, `password = "abc12345"`))
	require.NotNil(t, got)
	assert.Equal(t, first.Fingerprint, got.Fingerprint)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 0.0, similarity("", "anything"))
	assert.Equal(t, 0.0, similarity("anything", ""))
	assert.Equal(t, 1.0, similarity("same", "same"))
	assert.InDelta(t, 0.8, similarity("abcde", "abcdX"), 1e-9)
}
