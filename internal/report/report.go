// Package report renders journal history and aggregate statistics for
// terminal display.
package report

import (
	"fmt"
	"strings"

	"github.com/starford/shelfmark/internal/journal"
	"github.com/starford/shelfmark/internal/models"
)

// categoryLines renders one labelled line per changed book, in the
// same fixed order used for commit messages.
func categoryLines(cs models.ChangeSet) []string {
	var lines []string
	emit := func(label string, keys []string) {
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("  %s: %s", label, k))
		}
	}
	emit("bought", cs.Bought)
	emit("wishlist +", cs.AddedToWanted)
	emit("library +", cs.AddedToOwned)
	emit("wishlist -", cs.RemovedFromWanted)
	emit("library -", cs.RemovedFromOwned)
	emit("returned", cs.Returned)
	return lines
}

// RenderLog formats the most recent limit entries in chronological
// order.
func RenderLog(entries []models.JournalEntry, limit int) string {
	if len(entries) == 0 {
		return "No journal entries yet.\n"
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s at %s — %s\n", e.Date, e.Time, e.CommitMessage)
		for _, line := range categoryLines(e.Changes) {
			b.WriteString(line)
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  totals: %d wanted, %d owned, %d total\n",
			e.TotalsAfter.Wanted, e.TotalsAfter.Owned, e.TotalsAfter.Total)
	}
	return b.String()
}

// RenderStats formats current shelf totals plus aggregates across the
// whole journal.
func RenderStats(entries []models.JournalEntry, current models.Totals) string {
	var b strings.Builder

	b.WriteString("Current shelf\n")
	fmt.Fprintf(&b, "  wanted: %d\n", current.Wanted)
	fmt.Fprintf(&b, "  owned:  %d\n", current.Owned)
	fmt.Fprintf(&b, "  total:  %d\n", current.Total)

	if len(entries) == 0 {
		b.WriteString("\nNo journal entries yet.\n")
		return b.String()
	}

	st := journal.Aggregate(entries)
	fmt.Fprintf(&b, "\nHistory (%d entries, %s – %s)\n",
		st.Entries,
		st.First.Format(models.DateLayout),
		st.Last.Format(models.DateLayout))
	fmt.Fprintf(&b, "  bought:                 %d\n", st.Bought)
	fmt.Fprintf(&b, "  added to wishlist:      %d\n", st.AddedToWanted)
	fmt.Fprintf(&b, "  added to library:       %d\n", st.AddedToOwned)
	fmt.Fprintf(&b, "  removed from wishlist:  %d\n", st.RemovedFromWanted)
	fmt.Fprintf(&b, "  removed from library:   %d\n", st.RemovedFromOwned)
	fmt.Fprintf(&b, "  returned:               %d\n", st.Returned)
	return b.String()
}
