package internal

import (
	"log/slog"
	"time"

	"github.com/starford/shelfmark/internal/vcs"
)

// Option is a functional option for configuring the application.
type Option func(*App)

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) {
		a.config = cfg
	}
}

// WithVCS substitutes the version-control collaborator. Tests inject
// an in-memory fake here.
func WithVCS(sys vcs.System) Option {
	return func(a *App) {
		a.sys = sys
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithClock overrides the time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
