// Package excerpt reads small windows of source lines around a match,
// for fingerprint display context.
package excerpt

import (
	"os"
	"strings"
)

// DefaultRadius is the number of lines taken on each side of a match.
const DefaultRadius = 3

// Window is an inclusive 1-based line range and its joined text.
type Window struct {
	Text      string
	StartLine int
	EndLine   int
}

// Extract returns the window of radius lines around line (1-based) in the
// file at path. Any failure (missing file, unreadable file, line out of
// range) returns ok=false; callers degrade to a context-less finding
// rather than aborting.
func Extract(path string, line, radius int) (Window, bool) {
	lines, err := readLines(path)
	if err != nil {
		return Window{}, false
	}
	return window(lines, line, radius)
}

// Cache caches file line splits for the duration of one analysis run so a
// file with many matches is read once. It is owned by the engine and
// discarded at run end; it is not safe for concurrent use.
type Cache struct {
	files map[string][]string
	bad   map[string]bool
}

func NewCache() *Cache {
	return &Cache{files: map[string][]string{}, bad: map[string]bool{}}
}

func (c *Cache) Extract(path string, line, radius int) (Window, bool) {
	if c.bad[path] {
		return Window{}, false
	}
	lines, ok := c.files[path]
	if !ok {
		var err error
		lines, err = readLines(path)
		if err != nil {
			c.bad[path] = true
			return Window{}, false
		}
		c.files[path] = lines
	}
	return window(lines, line, radius)
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	// a trailing newline does not add a last line
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines, nil
}

func window(lines []string, line, radius int) (Window, bool) {
	if line < 1 || line > len(lines) || radius < 0 {
		return Window{}, false
	}
	start := line - radius
	if start < 1 {
		start = 1
	}
	end := line + radius
	if end > len(lines) {
		end = len(lines)
	}
	return Window{
		Text:      strings.Join(lines[start-1:end], "\n"),
		StartLine: start,
		EndLine:   end,
	}, true
}
