// Package parser converts raw scanner output into matches. One parser per
// scanner kind; a malformed line or block is skipped, never fatal.
package parser

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/accrava/patrol/internal/types"
)

// ParseRipgrep reads `path:lineNumber:content` lines. Returns the matches
// plus how many lines were skipped as malformed.
func ParseRipgrep(out []byte) ([]types.RawMatch, int) {
	var matches []types.RawMatch
	skipped := 0
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		m, ok := parseRipgrepLine(line)
		if !ok {
			skipped++
			continue
		}
		matches = append(matches, m)
	}
	return matches, skipped
}

func parseRipgrepLine(line string) (types.RawMatch, bool) {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) != 3 {
		return types.RawMatch{}, false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || n < 1 {
		return types.RawMatch{}, false
	}
	p := filepath.ToSlash(strings.TrimPrefix(parts[0], "./"))
	if p == "" {
		return types.RawMatch{}, false
	}
	return types.RawMatch{Path: p, Line: n, Text: strings.TrimSpace(parts[2])}, true
}
