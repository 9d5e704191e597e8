// Package diff compares two item sequences by identity.
package diff

import (
	"maps"
	"slices"

	"github.com/llehouerou/calliope/internal/playlist"
)

// Diff returns the items of a whose ID does not occur in b, sorted by ID.
// When an ID repeats in a, its last occurrence is kept. An item without an
// identity fails the comparison.
func Diff(a, b playlist.Source) ([]playlist.Item, error) {
	left, err := index(a)
	if err != nil {
		return nil, err
	}
	right, err := index(b)
	if err != nil {
		return nil, err
	}

	result := make([]playlist.Item, 0, len(left))
	for _, id := range slices.Sorted(maps.Keys(left)) {
		if _, ok := right[id]; !ok {
			result = append(result, left[id])
		}
	}
	return result, nil
}

func index(src playlist.Source) (map[string]playlist.Item, error) {
	items := make(map[string]playlist.Item)
	for item, err := range playlist.All(src) {
		if err != nil {
			return nil, err
		}
		id, err := item.ID()
		if err != nil {
			return nil, err
		}
		items[id] = item
	}
	return items, nil
}
