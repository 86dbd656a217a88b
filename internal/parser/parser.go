// Package parser extracts book entries from the checkbox Markdown
// document and builds a snapshot of wanted and owned titles.
package parser

import (
	"regexp"
	"strings"

	"github.com/starford/shelfmark/internal/models"
)

// A book line looks like:
//
//   - [ ] **The Dispossessed** by *Ursula K. Le Guin*
//   - [x] **Dune** by *Frank Herbert*
//
// Bullet may be "-" or "*"; a checked box means the book is owned.
var bookLineRe = regexp.MustCompile(`(?m)^\s*[-*]\s*\[([ xX])\]\s*\*\*(.+?)\*\*\s+by\s+\*([^*\n]+)\*`)

// Extract scans raw document text and returns the snapshot it
// describes. Lines that do not match the book pattern are ignored, so
// malformed input degrades to an empty snapshot rather than an error.
// If the same book appears twice with conflicting status, the last
// occurrence in document order wins.
func Extract(text string) models.Snapshot {
	snap := models.NewSnapshot()
	for _, m := range bookLineRe.FindAllStringSubmatch(text, -1) {
		status, title, author := m[1], strings.TrimSpace(m[2]), strings.TrimSpace(m[3])
		if title == "" || author == "" {
			continue
		}
		key := models.EntryKey(title, author)
		if status == "x" || status == "X" {
			snap.MarkOwned(key)
		} else {
			snap.MarkWanted(key)
		}
	}
	return snap
}
