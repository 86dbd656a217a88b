// Package journal persists the append-only history of classified
// change-sets as a human-diffable JSON array.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/starford/shelfmark/internal/apperr"
	"github.com/starford/shelfmark/internal/models"
)

// Store owns the journal file. It is the sole authority for loading
// and appending entries; every append rewrites the whole file.
type Store struct {
	path   string
	logger *slog.Logger

	// mu serializes the load-append-save cycle so concurrent callers
	// within one process cannot drop each other's entries.
	mu sync.Mutex
}

// New returns a store backed by the file at path. The file does not
// need to exist yet.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the location of the journal file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted entry sequence. A missing file is a normal
// empty history. An unparsable file yields an empty sequence and an
// error wrapping apperr.ErrStorageCorrupt so the caller can warn
// without halting.
func (s *Store) Load() ([]models.JournalEntry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("journal: read %s: %w", s.path, err)
	}

	var entries []models.JournalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("journal: parse %s: %w: %w", s.path, apperr.ErrStorageCorrupt, err)
	}
	return entries, nil
}

// Append adds one entry to the history and persists the full sequence.
// Safe for concurrent use within one process. Corrupt existing storage
// is logged and treated as empty history so a broken file never blocks
// new records.
func (s *Store) Append(entry models.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.Load()
	if err != nil {
		if !errors.Is(err, apperr.ErrStorageCorrupt) {
			return err
		}
		s.logger.Warn("journal: existing storage corrupt, starting fresh",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		entries = nil
	}

	entries = append(entries, entry)
	return s.save(entries)
}

// save serializes the sequence and writes it atomically:
// tmp file → fsync → rename. A crash mid-write never replaces the
// prior valid file.
func (s *Store) save(entries []models.JournalEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("journal: marshal: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("journal: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".shelfmark-journal-*")
	if err != nil {
		return fmt.Errorf("journal: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("journal: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("journal: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("journal: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("journal: rename: %w", err)
	}
	success = true
	return nil
}

// Stats holds aggregates derived from the full entry sequence.
type Stats struct {
	Entries           int
	Bought            int
	AddedToWanted     int
	AddedToOwned      int
	RemovedFromWanted int
	RemovedFromOwned  int
	Returned          int
	First             time.Time
	Last              time.Time
}

// Aggregate derives statistics from entries. No caching: callers pass
// a freshly loaded sequence.
func Aggregate(entries []models.JournalEntry) Stats {
	st := Stats{Entries: len(entries)}
	for i, e := range entries {
		st.Bought += len(e.Changes.Bought)
		st.AddedToWanted += len(e.Changes.AddedToWanted)
		st.AddedToOwned += len(e.Changes.AddedToOwned)
		st.RemovedFromWanted += len(e.Changes.RemovedFromWanted)
		st.RemovedFromOwned += len(e.Changes.RemovedFromOwned)
		st.Returned += len(e.Changes.Returned)
		if i == 0 || e.Timestamp.Before(st.First) {
			st.First = e.Timestamp
		}
		if i == 0 || e.Timestamp.After(st.Last) {
			st.Last = e.Timestamp
		}
	}
	return st
}
