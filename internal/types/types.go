package types

import (
	"path/filepath"
	"strings"
	"time"
)

type Severity string

const (
	SevInfo     Severity = "info"
	SevWarning  Severity = "warning"
	SevMedium   Severity = "medium"
	SevCritical Severity = "critical"
)

// Rank orders severities for threshold checks; unknown values rank lowest.
func (s Severity) Rank() int {
	switch s {
	case SevInfo:
		return 1
	case SevWarning:
		return 2
	case SevMedium:
		return 3
	case SevCritical:
		return 4
	}
	return 0
}

func ParseSeverity(s string) (Severity, bool) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SevInfo:
		return SevInfo, true
	case SevWarning:
		return SevWarning, true
	case SevMedium:
		return SevMedium, true
	case SevCritical:
		return SevCritical, true
	}
	return "", false
}

// ScannerKind is a closed enum. Every dispatch on it switches
// exhaustively, so adding a scanner is a compile-visible change.
type ScannerKind string

const (
	KindRipgrep ScannerKind = "ripgrep"
	KindWeggli  ScannerKind = "weggli"
)

func (k ScannerKind) Valid() bool {
	switch k {
	case KindRipgrep, KindWeggli:
		return true
	}
	return false
}

// WildcardFileType in a rule's FileTypes means "all extensions".
const WildcardFileType = "*"

// PatternRule is one user-defined search rule. Immutable once loaded
// for a run.
type PatternRule struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Kind        ScannerKind `yaml:"scanner" json:"scannerKind"`
	Pattern     string      `yaml:"pattern" json:"pattern"`
	Options     []string    `yaml:"options,omitempty" json:"options,omitempty"`
	Severity    Severity    `yaml:"severity" json:"severity"`
	FileTypes   []string    `yaml:"fileTypes,omitempty" json:"supportedFileTypes,omitempty"`
}

// AppliesTo reports whether the rule's file-type set admits path.
// An empty set is treated as the wildcard.
func (r PatternRule) AppliesTo(path string) bool {
	if len(r.FileTypes) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, ft := range r.FileTypes {
		if ft == WildcardFileType {
			return true
		}
		ft = strings.ToLower(ft)
		if !strings.HasPrefix(ft, ".") {
			ft = "." + ft
		}
		if ft == ext {
			return true
		}
	}
	return false
}

// RawMatch is the minimal scanner output before enrichment. Path is
// workspace-relative and slash-separated; Line is 1-based.
type RawMatch struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Finding is one enriched match. SessionID is random per run and never
// persisted as identity; Fingerprint is the persistent identity key.
// Context fields are zero when extraction failed.
type Finding struct {
	Path            string      `json:"path"`
	Line            int         `json:"line"`
	Match           string      `json:"match"`
	RuleName        string      `json:"rule"`
	RuleDescription string      `json:"description,omitempty"`
	Kind            ScannerKind `json:"scannerKind"`
	Severity        Severity    `json:"severity"`
	SessionID       string      `json:"sessionId"`
	Fingerprint     string      `json:"fingerprint"`
	Context         string      `json:"context,omitempty"`
	ContextStart    int         `json:"contextStart,omitempty"`
	ContextEnd      int         `json:"contextEnd,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// HasContext reports whether context extraction succeeded.
func (f Finding) HasContext() bool { return f.ContextStart > 0 }

// SuppressionRecord is one dismissed finding. Created only by an explicit
// ignore action, deleted only by an explicit un-ignore.
type SuppressionRecord struct {
	Fingerprint  string    `json:"fingerprint"`
	SessionID    string    `json:"sessionId"`
	RuleName     string    `json:"rule"`
	Path         string    `json:"path"`
	Line         int       `json:"line"`
	Match        string    `json:"match"`
	SuppressedAt time.Time `json:"suppressedAt"`
}
