package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Shelf   ShelfConfig       `yaml:"shelf"`
	Journal JournalConfig     `yaml:"journal"`
	Git     GitConfig         `yaml:"git"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Shelf.Validate(); err != nil {
		return err
	}
	return c.Journal.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// ShelfConfig locates the book document inside its repository.
type ShelfConfig struct {
	// Dir is the repository root on disk.
	Dir string `yaml:"dir"`
	// Document is the book list path relative to Dir.
	Document string `yaml:"document"`
}

// Validate validates the shelf configuration.
func (c *ShelfConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Document, validation.Required),
	)
}

// JournalConfig locates the change journal, relative to the shelf dir.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the journal configuration.
func (c *JournalConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// GitConfig controls delegation to the version-control collaborator.
type GitConfig struct {
	// Push publishes each commit to the remote. Disable for repos
	// without one.
	Push bool `yaml:"push"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Shelf: ShelfConfig{
			Dir:      ".",
			Document: "books.md",
		},
		Journal: JournalConfig{
			Path: "shelf_journal.json",
		},
		Git: GitConfig{
			Push: true,
		},
	}
}
