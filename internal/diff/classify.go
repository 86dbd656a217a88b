// Package diff classifies the differences between two book snapshots
// into six disjoint change categories.
package diff

import (
	"sort"

	"github.com/starford/shelfmark/internal/models"
)

// Classify computes the change-set that turns previous into current.
//
// Raw set differences are computed first; a book that left wanted and
// entered owned in the same window is a purchase, the reverse move is
// a return. Transitions are carved out of the raw differences before
// the plain add/remove categories are finalized, so no key ever lands
// in more than one category. Pure function, never fails.
func Classify(current, previous models.Snapshot) models.ChangeSet {
	addedWanted := subtract(current.Wanted, previous.Wanted)
	removedWanted := subtract(previous.Wanted, current.Wanted)
	addedOwned := subtract(current.Owned, previous.Owned)
	removedOwned := subtract(previous.Owned, current.Owned)

	bought := intersect(addedOwned, removedWanted)
	for k := range bought {
		delete(addedOwned, k)
		delete(removedWanted, k)
	}

	returned := intersect(addedWanted, removedOwned)
	for k := range returned {
		delete(addedWanted, k)
		delete(removedOwned, k)
	}

	return models.ChangeSet{
		AddedToWanted:     sorted(addedWanted),
		RemovedFromWanted: sorted(removedWanted),
		AddedToOwned:      sorted(addedOwned),
		RemovedFromOwned:  sorted(removedOwned),
		Bought:            sorted(bought),
		Returned:          sorted(returned),
	}
}

func subtract(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for k := range a {
		if _, ok := b[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// sorted flattens a set into a lexicographically ordered slice so that
// journal entries and commit messages are stable across runs.
func sorted(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
