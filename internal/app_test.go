package internal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/shelfmark/internal/apperr"
	"github.com/starford/shelfmark/internal/testutil"
)

var testClock = func() time.Time {
	return time.Date(2026, time.August, 24, 14, 30, 0, 0, time.UTC)
}

func newTestApp(t *testing.T) (*App, *testutil.FakeVCS, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := NewDefaultConfig()
	cfg.Shelf.Dir = dir
	cfg.Git.Push = false

	sys := testutil.NewFakeVCS(dir)
	app, err := New(
		WithConfig(cfg),
		WithVCS(sys),
		WithClock(testClock),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return app, sys, dir
}

func TestNew_RequiresConfig(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestRunUpdate_NotARepositoryIsFatal(t *testing.T) {
	app, sys, dir := newTestApp(t)
	testutil.WriteDocument(t, dir, "books.md", "- [ ] **A** by *X*\n")
	sys.NotARepo = true
	sys.Dirty = true

	err := app.RunUpdate(context.Background(), "")
	if err == nil || !strings.Contains(err.Error(), "not a git repository") {
		t.Fatalf("err = %v, want not-a-repository diagnostic", err)
	}
	if sys.CommitCount() != 0 {
		t.Error("must not commit outside a repository")
	}
}

func TestRunUpdate_MissingDocumentIsFatal(t *testing.T) {
	app, _, _ := newTestApp(t)
	err := app.RunUpdate(context.Background(), "")
	if !errors.Is(err, apperr.ErrDocumentMissing) {
		t.Fatalf("err = %v, want ErrDocumentMissing", err)
	}
}

func TestRunUpdate_CleanTreeIsNoOp(t *testing.T) {
	app, sys, dir := newTestApp(t)
	testutil.WriteDocument(t, dir, "books.md", "- [ ] **A** by *X*\n")
	sys.Dirty = false

	if err := app.RunUpdate(context.Background(), ""); err != nil {
		t.Fatalf("RunUpdate: %v", err)
	}
	if len(sys.Messages) != 0 {
		t.Errorf("no-op run must not commit, got %v", sys.Messages)
	}
	if _, err := os.Stat(filepath.Join(dir, "shelf_journal.json")); err == nil {
		t.Error("no-op run must not create a journal")
	}
}

func TestRunUpdate_FirstRunClassifiesAgainstEmptyHistory(t *testing.T) {
	app, sys, dir := newTestApp(t)
	testutil.WriteDocument(t, dir, "books.md",
		"- [ ] **A** by *X*\n- [x] **B** by *Y*\n")
	sys.Dirty = true

	if err := app.RunUpdate(context.Background(), ""); err != nil {
		t.Fatalf("RunUpdate: %v", err)
	}
	if len(sys.Messages) != 1 {
		t.Fatalf("messages = %v, want one commit", sys.Messages)
	}
	want := "Added 1 book to wishlist • Added 1 book to library"
	if sys.Messages[0] != want {
		t.Errorf("commit message = %q, want %q", sys.Messages[0], want)
	}
	if _, ok := sys.Committed["books.md"]; !ok {
		t.Error("document was not staged")
	}
	if _, ok := sys.Committed["shelf_journal.json"]; !ok {
		t.Error("journal was not staged")
	}
}

func TestRunUpdate_BoughtTransition(t *testing.T) {
	app, sys, dir := newTestApp(t)
	sys.Committed["books.md"] = []byte("- [ ] **Dune** by *Frank Herbert*\n")
	testutil.WriteDocument(t, dir, "books.md", "- [x] **Dune** by *Frank Herbert*\n")
	sys.Dirty = true

	if err := app.RunUpdate(context.Background(), ""); err != nil {
		t.Fatalf("RunUpdate: %v", err)
	}
	if sys.Messages[0] != "Bought 1 book" {
		t.Errorf("commit message = %q", sys.Messages[0])
	}

	entries, err := app.journal.Load()
	if err != nil {
		t.Fatalf("journal load: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("journal entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if len(e.Changes.Bought) != 1 || e.Changes.Bought[0] != "Dune by Frank Herbert" {
		t.Errorf("bought = %v", e.Changes.Bought)
	}
	if e.TotalsAfter.Wanted != 0 || e.TotalsAfter.Owned != 1 || e.TotalsAfter.Total != 1 {
		t.Errorf("totals = %+v", e.TotalsAfter)
	}
	if e.Date != "Aug 24, 2026" || e.Time != "2:30 PM" {
		t.Errorf("timestamp fields = %q / %q", e.Date, e.Time)
	}
}

func TestRunUpdate_OverrideMessage(t *testing.T) {
	app, sys, dir := newTestApp(t)
	testutil.WriteDocument(t, dir, "books.md", "- [ ] **A** by *X*\n")
	sys.Dirty = true

	if err := app.RunUpdate(context.Background(), "Finished reading Dune"); err != nil {
		t.Fatalf("RunUpdate: %v", err)
	}
	if sys.Messages[0] != "Finished reading Dune" {
		t.Errorf("commit message = %q, want override", sys.Messages[0])
	}

	entries, err := app.journal.Load()
	if err != nil {
		t.Fatalf("journal load: %v", err)
	}
	if entries[0].CommitMessage != "Finished reading Dune" {
		t.Errorf("journal message = %q", entries[0].CommitMessage)
	}
}

func TestRunUpdate_NonBookEditCommitsWithoutJournalEntry(t *testing.T) {
	app, sys, dir := newTestApp(t)
	doc := "- [ ] **A** by *X*\n"
	sys.Committed["books.md"] = []byte(doc)
	// Only prose changed; the book sets are identical.
	testutil.WriteDocument(t, dir, "books.md", "# Reading list\n"+doc)
	sys.Dirty = true

	if err := app.RunUpdate(context.Background(), ""); err != nil {
		t.Fatalf("RunUpdate: %v", err)
	}
	if len(sys.Messages) != 1 {
		t.Fatalf("messages = %v", sys.Messages)
	}
	if sys.Messages[0] != "Update book list - Aug 24, 2026 at 2:30 PM" {
		t.Errorf("default message = %q", sys.Messages[0])
	}
	if _, err := os.Stat(filepath.Join(dir, "shelf_journal.json")); err == nil {
		t.Error("empty change-set must not append a journal entry")
	}
}

func TestRunUpdate_JournalPersistsEvenWhenPushFails(t *testing.T) {
	app, sys, dir := newTestApp(t)
	testutil.WriteDocument(t, dir, "books.md", "- [ ] **A** by *X*\n")
	sys.Dirty = true
	sys.PushErr = errors.New("remote rejected")

	err := app.RunUpdate(context.Background(), "")
	if !errors.Is(err, apperr.ErrExternalOperation) {
		t.Fatalf("err = %v, want ErrExternalOperation", err)
	}

	entries, loadErr := app.journal.Load()
	if loadErr != nil {
		t.Fatalf("journal load: %v", loadErr)
	}
	if len(entries) != 1 {
		t.Errorf("journal entries = %d, want the classification preserved", len(entries))
	}
}

func TestWatch_CommitsPendingChangesOnStart(t *testing.T) {
	app, sys, dir := newTestApp(t)
	testutil.WriteDocument(t, dir, "books.md", "- [ ] **A** by *X*\n")
	sys.Dirty = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- app.Watch(ctx) }()

	// The catch-up pass runs before any file event, so the pending
	// change must be committed without touching the document again.
	deadline := time.After(5 * time.Second)
	for sys.CommitCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("watch did not run the catch-up pipeline")
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop on cancel")
	}
	if got := sys.CommitCount(); got != 1 {
		t.Errorf("commits = %d, want exactly one pipeline run", got)
	}
}

func TestRenderLog_DegradesOnCorruptJournal(t *testing.T) {
	app, _, dir := newTestApp(t)
	testutil.WriteDocument(t, dir, "shelf_journal.json", "{broken")

	out, err := app.RenderLog(10)
	if err != nil {
		t.Fatalf("RenderLog: %v", err)
	}
	if !strings.Contains(out, "No journal entries") {
		t.Errorf("corrupt journal should render as empty history:\n%s", out)
	}
}

func TestRenderStats_UsesCurrentSnapshot(t *testing.T) {
	app, _, dir := newTestApp(t)
	testutil.WriteDocument(t, dir, "books.md",
		"- [ ] **A** by *X*\n- [x] **B** by *Y*\n- [x] **C** by *Z*\n")

	out, err := app.RenderStats()
	if err != nil {
		t.Fatalf("RenderStats: %v", err)
	}
	for _, want := range []string{"wanted: 1", "owned:  2", "total:  3"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats missing %q:\n%s", want, out)
		}
	}
}

func TestDebug_ReportsMissingPieces(t *testing.T) {
	app, _, _ := newTestApp(t)
	var b strings.Builder
	if err := app.Debug(&b); err != nil {
		t.Fatalf("Debug: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "missing") {
		t.Errorf("expected missing-document notice:\n%s", out)
	}
	if !strings.Contains(out, "no prior revision") {
		t.Errorf("expected no-prior-revision notice:\n%s", out)
	}
}

func TestDebug_ShowsPendingDiff(t *testing.T) {
	app, sys, dir := newTestApp(t)
	sys.Committed["books.md"] = []byte("- [ ] **A** by *X*\n")
	testutil.WriteDocument(t, dir, "books.md", "- [x] **A** by *X*\n")

	var b strings.Builder
	if err := app.Debug(&b); err != nil {
		t.Fatalf("Debug: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "-- [ ] **A** by *X*") || !strings.Contains(out, "+- [x] **A** by *X*") {
		t.Errorf("unified diff missing:\n%s", out)
	}
}
