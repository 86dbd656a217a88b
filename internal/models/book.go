// Package models defines the domain types for shelfmark.
package models

import "time"

// Human-readable timestamp layouts used in journal entries and
// generated commit messages.
const (
	DateLayout  = "Jan 02, 2006"
	ClockLayout = "3:04 PM"
)

// EntryKey composes the canonical identity of a book. Two books with
// the same key are the same book for all purposes.
func EntryKey(title, author string) string {
	return title + " by " + author
}

// Snapshot is the (wanted, owned) state of the book document at one
// point in time. A key never belongs to both sets.
type Snapshot struct {
	Wanted map[string]struct{}
	Owned  map[string]struct{}
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() Snapshot {
	return Snapshot{
		Wanted: make(map[string]struct{}),
		Owned:  make(map[string]struct{}),
	}
}

// MarkWanted records key as wanted, displacing any earlier owned
// status. Last mark wins.
func (s Snapshot) MarkWanted(key string) {
	delete(s.Owned, key)
	s.Wanted[key] = struct{}{}
}

// MarkOwned records key as owned, displacing any earlier wanted status.
func (s Snapshot) MarkOwned(key string) {
	delete(s.Wanted, key)
	s.Owned[key] = struct{}{}
}

// Totals returns the book counts of the snapshot.
func (s Snapshot) Totals() Totals {
	return Totals{
		Wanted: len(s.Wanted),
		Owned:  len(s.Owned),
		Total:  len(s.Wanted) + len(s.Owned),
	}
}

// Totals holds book counts after a change was applied.
type Totals struct {
	Wanted int `json:"wanted"`
	Owned  int `json:"owned"`
	Total  int `json:"total"`
}

// ChangeSet is the six-category classification of the differences
// between two snapshots. Categories are disjoint and each is sorted
// lexicographically.
type ChangeSet struct {
	AddedToWanted     []string `json:"added_to_wanted"`
	RemovedFromWanted []string `json:"removed_from_wanted"`
	AddedToOwned      []string `json:"added_to_owned"`
	RemovedFromOwned  []string `json:"removed_from_owned"`
	Bought            []string `json:"bought"`
	Returned          []string `json:"returned"`
}

// Empty reports whether no category holds any entry.
func (c ChangeSet) Empty() bool {
	return len(c.AddedToWanted) == 0 &&
		len(c.RemovedFromWanted) == 0 &&
		len(c.AddedToOwned) == 0 &&
		len(c.RemovedFromOwned) == 0 &&
		len(c.Bought) == 0 &&
		len(c.Returned) == 0
}

// JournalEntry is one persisted record of a non-empty change-set.
type JournalEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	CommitMessage string    `json:"commit_message"`
	Changes       ChangeSet `json:"changes"`
	TotalsAfter   Totals    `json:"totals_after"`
}

// NewJournalEntry builds an entry from a classified change-set and the
// totals of the snapshot that produced it.
func NewJournalEntry(ts time.Time, message string, changes ChangeSet, totals Totals) JournalEntry {
	return JournalEntry{
		Timestamp:     ts,
		Date:          ts.Format(DateLayout),
		Time:          ts.Format(ClockLayout),
		CommitMessage: message,
		Changes:       changes,
		TotalsAfter:   totals,
	}
}
