// Package internal provides the application wiring and the update
// pipeline: snapshot, classify, journal, delegate to version control.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"github.com/starford/shelfmark/internal/apperr"
	"github.com/starford/shelfmark/internal/checksum"
	"github.com/starford/shelfmark/internal/diff"
	"github.com/starford/shelfmark/internal/journal"
	"github.com/starford/shelfmark/internal/message"
	"github.com/starford/shelfmark/internal/models"
	"github.com/starford/shelfmark/internal/report"
	"github.com/starford/shelfmark/internal/shelf"
	"github.com/starford/shelfmark/internal/vcs"
	"github.com/starford/shelfmark/internal/watch"
)

// App holds the wired components for one invocation.
type App struct {
	config  *Config
	logger  *slog.Logger
	sys     vcs.System
	source  *shelf.Source
	journal *journal.Store
	now     func() time.Time
}

// New builds an App from options. Components not supplied through
// options get their production defaults: a text slog handler on stderr
// and the git collaborator rooted at the shelf directory.
func New(opts ...Option) (*App, error) {
	app := &App{now: time.Now}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	if app.logger == nil {
		app.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	if app.sys == nil {
		app.sys = vcs.NewGit(cfg.Shelf.Dir, cfg.Git.Push)
	}

	app.source = shelf.New(cfg.Shelf.Dir, cfg.Shelf.Document, app.sys)
	app.journal = journal.New(filepath.Join(cfg.Shelf.Dir, cfg.Journal.Path), app.logger)

	return app, nil
}

// RunUpdate executes the full pipeline once. An empty override means
// the commit message is synthesized from the classified changes.
//
// The journal entry is appended before delegation so a rejected push
// never loses a classified change-set.
func (a *App) RunUpdate(ctx context.Context, override string) error {
	if c, ok := a.sys.(vcs.RepositoryChecker); ok && !c.IsRepository() {
		return fmt.Errorf("%s is not a git repository, run 'git init' first", a.config.Shelf.Dir)
	}

	if _, err := a.source.Read(); err != nil {
		return err
	}

	dirty, err := a.sys.HasUncommittedChanges(a.config.Shelf.Document, a.config.Journal.Path)
	if err != nil {
		return err
	}
	if !dirty {
		a.logger.Info("no changes detected, book list is up to date")
		return nil
	}

	current, err := a.source.Current()
	if err != nil {
		return err
	}
	previous, err := a.source.Previous()
	if err != nil {
		return err
	}

	changes := diff.Classify(current, previous)
	now := a.now()
	msg := message.Synthesize(changes, override, now)

	if !changes.Empty() {
		entry := models.NewJournalEntry(now, msg, changes, current.Totals())
		if err := a.journal.Append(entry); err != nil {
			return err
		}
		a.logger.Info("journal entry recorded",
			slog.String("message", msg),
			slog.Int("total", entry.TotalsAfter.Total))
	}

	paths := []string{a.config.Shelf.Document, a.config.Journal.Path}
	if err := a.sys.StageCommitPush(paths, msg); err != nil {
		return err
	}

	a.logger.Info("book list updated", slog.String("commit_message", msg))
	return nil
}

// RenderLog returns the formatted tail of the journal.
func (a *App) RenderLog(limit int) (string, error) {
	entries, err := a.loadHistory()
	if err != nil {
		return "", err
	}
	return report.RenderLog(entries, limit), nil
}

// RenderStats returns formatted current totals and journal aggregates.
func (a *App) RenderStats() (string, error) {
	current, err := a.source.Current()
	if err != nil {
		return "", err
	}
	entries, err := a.loadHistory()
	if err != nil {
		return "", err
	}
	return report.RenderStats(entries, current.Totals()), nil
}

// Watch re-runs the pipeline whenever the document changes on disk,
// until the context is cancelled or an interrupt arrives.
func (a *App) Watch(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run := func(runCtx context.Context) {
		if a.source.Unchanged() {
			return
		}
		if err := a.RunUpdate(runCtx, ""); err != nil {
			// Keep watching: a transient failure (editor mid-save,
			// rejected push) should not end the session.
			a.logger.Error("update failed", slog.String("error", err.Error()))
		}
	}

	// Catch up on anything that changed before the watcher starts.
	// Runs inline: after this, only the watcher's event loop invokes
	// run, so pipeline runs never overlap.
	run(ctx)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watch.Run(gCtx, a.source.DocumentPath(), a.logger, run)
	})
	return g.Wait()
}

// Debug writes a troubleshooting dump: repository status, document and
// journal presence, and a unified diff of the document against its
// last committed copy. No core pipeline logic runs.
func (a *App) Debug(w io.Writer) error {
	docPath := a.source.DocumentPath()

	live, err := a.source.Read()
	switch {
	case errors.Is(err, apperr.ErrDocumentMissing):
		fmt.Fprintf(w, "document: %s (missing)\n", docPath)
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "document: %s (sha256 %s)\n", docPath, checksum.Sum(live)[:12])
	}

	entries, histErr := a.journal.Load()
	switch {
	case errors.Is(histErr, apperr.ErrStorageCorrupt):
		fmt.Fprintf(w, "journal:  %s (corrupt)\n", a.journal.Path())
	case histErr != nil:
		return histErr
	default:
		fmt.Fprintf(w, "journal:  %s (%d entries)\n", a.journal.Path(), len(entries))
	}

	if g, ok := a.sys.(*vcs.Git); ok {
		status, statusErr := g.Status()
		if statusErr != nil {
			return statusErr
		}
		fmt.Fprintf(w, "\n%s", status)
	}

	committed, err := a.sys.ReadFileAtLastRevision(a.config.Shelf.Document)
	if errors.Is(err, apperr.ErrNoPriorRevision) {
		fmt.Fprintln(w, "\nno prior revision of the document")
		return nil
	}
	if err != nil {
		return err
	}

	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(committed)),
		B:        difflib.SplitLines(string(live)),
		FromFile: "HEAD:" + a.config.Shelf.Document,
		ToFile:   a.config.Shelf.Document,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	if text == "" {
		fmt.Fprintln(w, "\ndocument matches last revision")
		return nil
	}
	fmt.Fprintf(w, "\n%s", text)
	return nil
}

// loadHistory loads the journal, degrading corrupt storage to an empty
// sequence with a warning.
func (a *App) loadHistory() ([]models.JournalEntry, error) {
	entries, err := a.journal.Load()
	if err != nil {
		if !errors.Is(err, apperr.ErrStorageCorrupt) {
			return nil, err
		}
		a.logger.Warn("journal unreadable, treating history as empty",
			slog.String("error", err.Error()))
		entries = nil
	}
	return entries, nil
}
