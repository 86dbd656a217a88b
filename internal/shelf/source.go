// Package shelf supplies the current and previous snapshots of the
// book document.
package shelf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/shelfmark/internal/apperr"
	"github.com/starford/shelfmark/internal/checksum"
	"github.com/starford/shelfmark/internal/models"
	"github.com/starford/shelfmark/internal/parser"
	"github.com/starford/shelfmark/internal/vcs"
)

// Source resolves the live document on disk and its last committed
// copy through the version-control collaborator.
type Source struct {
	dir string // repository root on disk
	rel string // document path relative to the repository root
	sys vcs.System
}

// New returns a source for the document at rel under dir.
func New(dir, rel string, sys vcs.System) *Source {
	return &Source{dir: dir, rel: rel, sys: sys}
}

// DocumentPath returns the on-disk location of the live document.
func (s *Source) DocumentPath() string {
	return filepath.Join(s.dir, s.rel)
}

// Read returns the raw text of the live document, or an error wrapping
// apperr.ErrDocumentMissing when it does not exist.
func (s *Source) Read() ([]byte, error) {
	data, err := os.ReadFile(s.DocumentPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("shelf: %s: %w", s.rel, apperr.ErrDocumentMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("shelf: read %s: %w", s.rel, err)
	}
	return data, nil
}

// Current extracts a snapshot from the live document.
func (s *Source) Current() (models.Snapshot, error) {
	data, err := s.Read()
	if err != nil {
		return models.Snapshot{}, err
	}
	return parser.Extract(string(data)), nil
}

// Previous extracts a snapshot from the last committed copy of the
// document. A missing prior revision is a normal first-run state and
// yields an empty snapshot.
func (s *Source) Previous() (models.Snapshot, error) {
	data, err := s.sys.ReadFileAtLastRevision(s.rel)
	if err != nil {
		if errors.Is(err, apperr.ErrNoPriorRevision) {
			return models.NewSnapshot(), nil
		}
		return models.Snapshot{}, err
	}
	return parser.Extract(string(data)), nil
}

// Unchanged reports whether the live document is byte-identical to its
// last committed copy. Used by the watch loop to skip no-op wakeups.
func (s *Source) Unchanged() bool {
	live, err := s.Read()
	if err != nil {
		return false
	}
	committed, err := s.sys.ReadFileAtLastRevision(s.rel)
	if err != nil {
		return false
	}
	return checksum.Sum(live) == checksum.Sum(committed)
}
