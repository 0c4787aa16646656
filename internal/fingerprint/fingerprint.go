// Package fingerprint derives the persistent identity hash of a finding.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// Length is the truncated hex length. Truncation trades a small,
// explicit collision probability for readable ids.
const Length = 16

// Generate hashes ruleName + ":" + workspace-relative path + ":" + matched
// text. The path is normalized to forward slashes so fingerprints are
// portable between clones of the same repository on any platform.
func Generate(ruleName, relPath, matchText string) string {
	sum := sha256.Sum256([]byte(ruleName + ":" + filepath.ToSlash(relPath) + ":" + matchText))
	return hex.EncodeToString(sum[:])[:Length]
}
