package parser

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/accrava/patrol/internal/types"
)

const blockDelimiter = "===="

// ParseWeggli reads `====`-delimited match blocks. Each block carries a
// `File: <path>` line and a `Line: <start>[-<end>]` line followed by the
// matched source. Blocks missing either header are skipped and counted.
func ParseWeggli(out []byte) ([]types.RawMatch, int) {
	var matches []types.RawMatch
	skipped := 0
	for _, block := range splitBlocks(string(out)) {
		m, ok := parseWeggliBlock(block)
		if !ok {
			skipped++
			continue
		}
		matches = append(matches, m)
	}
	return matches, skipped
}

func splitBlocks(out string) []string {
	var blocks []string
	var cur []string
	flush := func() {
		joined := strings.TrimSpace(strings.Join(cur, "\n"))
		if joined != "" {
			blocks = append(blocks, joined)
		}
		cur = cur[:0]
	}
	for _, line := range strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), blockDelimiter) {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return blocks
}

func parseWeggliBlock(block string) (types.RawMatch, bool) {
	lines := strings.Split(block, "\n")
	var path string
	var start int
	headerEnd := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "File:"):
			path = filepath.ToSlash(strings.TrimSpace(strings.TrimPrefix(trimmed, "File:")))
		case strings.HasPrefix(trimmed, "Line:"):
			start = parseLineRange(strings.TrimSpace(strings.TrimPrefix(trimmed, "Line:")))
			headerEnd = i
		}
		if path != "" && start > 0 {
			break
		}
	}
	if path == "" || start < 1 || headerEnd < 0 {
		return types.RawMatch{}, false
	}
	text := ""
	for i := headerEnd + 1; i < len(lines); i++ {
		if t := strings.TrimSpace(lines[i]); t != "" {
			text = t
			break
		}
	}
	if text == "" {
		return types.RawMatch{}, false
	}
	return types.RawMatch{Path: strings.TrimPrefix(path, "./"), Line: start, Text: text}, true
}

// parseLineRange accepts "12" or "12-20" and returns the start, 0 when
// malformed.
func parseLineRange(s string) int {
	if i := strings.IndexByte(s, '-'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0
	}
	return n
}
