// Package testutil provides shared test helpers: a temp shelf layout
// and an in-memory version-control fake.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/starford/shelfmark/internal/apperr"
	"github.com/starford/shelfmark/internal/vcs"
)

// FakeVCS is an in-memory vcs.System for pipeline tests. Methods are
// safe for concurrent use so watch-loop tests can poll it.
type FakeVCS struct {
	// Dir is the fake working tree; StageCommitPush reads staged
	// files from here into Committed.
	Dir string
	// Committed holds the "last revision" content per path.
	Committed map[string][]byte
	// Dirty is what HasUncommittedChanges reports.
	Dirty bool
	// NotARepo makes IsRepository report false.
	NotARepo bool
	// PushErr, when set, makes StageCommitPush fail after recording
	// the attempt.
	PushErr error

	// Messages records every commit message in order.
	Messages []string

	mu sync.Mutex
}

var (
	_ vcs.System            = (*FakeVCS)(nil)
	_ vcs.RepositoryChecker = (*FakeVCS)(nil)
)

// NewFakeVCS returns a fake rooted at dir with no history.
func NewFakeVCS(dir string) *FakeVCS {
	return &FakeVCS{Dir: dir, Committed: make(map[string][]byte)}
}

// IsRepository reports the inverse of the preset NotARepo flag.
func (f *FakeVCS) IsRepository() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.NotARepo
}

// HasUncommittedChanges reports the preset Dirty flag.
func (f *FakeVCS) HasUncommittedChanges(_ ...string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Dirty, nil
}

// ReadFileAtLastRevision returns the committed copy of path.
func (f *FakeVCS) ReadFileAtLastRevision(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.Committed[path]
	if !ok {
		return nil, fmt.Errorf("fake: %s: %w", path, apperr.ErrNoPriorRevision)
	}
	return data, nil
}

// StageCommitPush snapshots the staged files into Committed and
// records the message. Missing staged files are skipped, mirroring
// git's tolerance for pathspecs that match nothing yet.
func (f *FakeVCS) StageCommitPush(paths []string, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = append(f.Messages, message)
	if f.PushErr != nil {
		return fmt.Errorf("fake push: %w: %w", apperr.ErrExternalOperation, f.PushErr)
	}
	for _, p := range paths {
		data, err := os.ReadFile(filepath.Join(f.Dir, p))
		if err != nil {
			continue
		}
		f.Committed[p] = data
	}
	f.Dirty = false
	return nil
}

// CommitCount returns how many commits were recorded.
func (f *FakeVCS) CommitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Messages)
}

// WriteDocument writes content to name under dir.
func WriteDocument(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
