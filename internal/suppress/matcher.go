package suppress

import (
	"path"
	"path/filepath"

	"github.com/agnivade/levenshtein"

	"github.com/accrava/patrol/internal/types"
)

const (
	// maxLineDrift is how far a suppressed match may move before the fuzzy
	// tier no longer recognizes it.
	maxLineDrift = 15
	// minSimilarity is the normalized edit-distance floor for the fuzzy tier.
	minSimilarity = 0.70
)

// Matcher decides whether a new finding corresponds to an already
// dismissed one. Built once per run from a store snapshot; read-only.
type Matcher struct {
	records []types.SuppressionRecord
	exact   map[string]int
}

func NewMatcher(records []types.SuppressionRecord) *Matcher {
	m := &Matcher{records: records, exact: make(map[string]int, len(records))}
	for i, r := range records {
		if _, ok := m.exact[r.Fingerprint]; !ok {
			m.exact[r.Fingerprint] = i
		}
	}
	return m
}

// Match returns the suppression record covering f, or nil.
//
// Tier 1 is an exact fingerprint lookup. Tier 2 re-identifies a finding
// whose fingerprint drifted: same rule, same file (or same basename, to
// tolerate moves), line within maxLineDrift, and matched text at least
// minSimilarity similar. The first record in stored order that satisfies
// all four predicates wins; there is no best-match ranking.
func (m *Matcher) Match(f types.Finding) *types.SuppressionRecord {
	if i, ok := m.exact[f.Fingerprint]; ok {
		return &m.records[i]
	}
	for i := range m.records {
		r := &m.records[i]
		if r.RuleName != f.RuleName {
			continue
		}
		if !sameFile(r.Path, f.Path) {
			continue
		}
		if delta := r.Line - f.Line; delta > maxLineDrift || delta < -maxLineDrift {
			continue
		}
		if similarity(r.Match, f.Match) < minSimilarity {
			continue
		}
		return r
	}
	return nil
}

// sameFile accepts identical paths, or any two paths with the same
// trailing segment so a moved file keeps its suppressions. Same-named
// files in unrelated directories therefore alias each other.
func sameFile(a, b string) bool {
	if a == b {
		return true
	}
	return path.Base(filepath.ToSlash(a)) == path.Base(filepath.ToSlash(b))
}

// similarity is 1 - editDistance/maxLen over runes. Either input empty
// yields 0, so a blanked-out match never fuzzily equals anything.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	max := la
	if lb > max {
		max = lb
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(max)
}
