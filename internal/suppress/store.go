// Package suppress persists dismissed findings and re-identifies them on
// later scans, exactly or fuzzily.
package suppress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/accrava/patrol/internal/types"
)

const (
	storeDir  = ".patrol"
	storeFile = "suppressions.json"
)

// Store is the per-workspace suppression list. All mutation goes through a
// single mutex so concurrent ignore actions and analysis reads cannot lose
// updates on the read-modify-write persistence cycle.
type Store struct {
	mu      sync.Mutex
	path    string
	records []types.SuppressionRecord
	known   map[string]struct{}
}

// StorePath returns where the workspace rooted at root keeps its records.
func StorePath(root string) string {
	return filepath.Join(root, storeDir, storeFile)
}

// Open loads the workspace's suppression list. A missing file is an empty
// store, not an error.
func Open(root string) (*Store, error) {
	s := &Store{path: StorePath(root), known: map[string]struct{}{}}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read suppression store: %w", err)
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("parse suppression store %s: %w", s.path, err)
	}
	for _, r := range s.records {
		s.known[r.Fingerprint] = struct{}{}
	}
	return s, nil
}

// Records returns a snapshot of the list in stored order.
func (s *Store) Records() []types.SuppressionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.SuppressionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Contains reports whether a record with the fingerprint exists.
func (s *Store) Contains(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.known[fingerprint]
	return ok
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Add appends a record and persists immediately. Adding a fingerprint that
// is already present is a no-op and returns false.
func (s *Store) Add(rec types.SuppressionRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.known[rec.Fingerprint]; ok {
		return false, nil
	}
	s.records = append(s.records, rec)
	s.known[rec.Fingerprint] = struct{}{}
	if err := s.save(); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the record with the fingerprint and persists. Returns
// false when no such record exists.
func (s *Store) Remove(fingerprint string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.known[fingerprint]; !ok {
		return false, nil
	}
	kept := s.records[:0]
	for _, r := range s.records {
		if r.Fingerprint != fingerprint {
			kept = append(kept, r)
		}
	}
	s.records = kept
	delete(s.known, fingerprint)
	if err := s.save(); err != nil {
		return false, err
	}
	return true, nil
}

// save writes the full list atomically: temp file in the same directory,
// then rename over the target.
func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	buf, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, storeFile+"-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write suppression store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace suppression store: %w", err)
	}
	return nil
}
