// Package audit keeps a per-workspace JSONL history of analysis runs.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunRecord summarizes one analysis run. Matched text is never stored
// here; only counts and locations of skipped rules.
type RunRecord struct {
	Timestamp      time.Time      `json:"timestamp"`
	SessionID      string         `json:"session_id"`
	Root           string         `json:"root"`
	TotalFindings  int            `json:"total_findings"`
	Suppressed     int            `json:"suppressed"`
	SkippedRules   []string       `json:"skipped_rules,omitempty"`
	SeverityCounts map[string]int `json:"severity_counts,omitempty"`
	Duration       string         `json:"duration"`
}

type Log struct {
	path string
}

// NewLog places the history inside .git when the workspace is a
// repository, keeping it out of the working tree; otherwise it lives in
// the .patrol metadata directory.
func NewLog(root string) *Log {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return &Log{path: filepath.Join(gitDir, "patrol_audit.jsonl")}
	}
	return &Log{path: filepath.Join(root, ".patrol", "audit.jsonl")}
}

// Append writes one record. Owner-only permissions; the log names files
// that matched security rules.
func (l *Log) Append(rec RunRecord) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create audit directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

// History returns records newest-first. Unparseable lines are skipped.
func (l *Log) History() ([]RunRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var records []RunRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec RunRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}
