// Package message builds commit messages from classified change-sets.
package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/starford/shelfmark/internal/models"
)

const separator = " • "

// Synthesize returns the commit message for a change-set. A non-empty
// override is returned verbatim: explicit user intent always wins.
// Otherwise category phrases are emitted in a fixed order so the same
// change-set always yields the same message. An empty change-set gets
// the timestamped default.
func Synthesize(cs models.ChangeSet, override string, now time.Time) string {
	if override != "" {
		return override
	}

	var phrases []string
	add := func(count int, singular, plural string) {
		if count == 0 {
			return
		}
		noun := plural
		if count == 1 {
			noun = singular
		}
		phrases = append(phrases, fmt.Sprintf(noun, count))
	}

	add(len(cs.Bought), "Bought %d book", "Bought %d books")
	add(len(cs.AddedToWanted), "Added %d book to wishlist", "Added %d books to wishlist")
	add(len(cs.AddedToOwned), "Added %d book to library", "Added %d books to library")
	add(len(cs.RemovedFromWanted), "Removed %d book from wishlist", "Removed %d books from wishlist")
	add(len(cs.RemovedFromOwned), "Removed %d book from library", "Removed %d books from library")
	add(len(cs.Returned), "Returned %d book", "Returned %d books")

	if len(phrases) == 0 {
		return Default(now)
	}
	return strings.Join(phrases, separator)
}

// Default is the fallback message used when no book change was
// classified but the document still needs a commit.
func Default(now time.Time) string {
	return fmt.Sprintf("Update book list - %s at %s",
		now.Format(models.DateLayout), now.Format(models.ClockLayout))
}
