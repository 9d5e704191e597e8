// Package shuffle randomizes the order of an item sequence.
package shuffle

import (
	"math/rand/v2"

	"github.com/llehouerou/calliope/internal/playlist"
)

// Shuffle materializes src and returns its items in random order, keeping
// only the first count when count is positive. A nil rng uses the global
// source.
func Shuffle(src playlist.Source, count int, rng *rand.Rand) ([]playlist.Item, error) {
	items, err := playlist.Collect(src)
	if err != nil {
		return nil, err
	}

	swap := func(i, j int) { items[i], items[j] = items[j], items[i] }
	if rng != nil {
		rng.Shuffle(len(items), swap)
	} else {
		rand.Shuffle(len(items), swap)
	}

	if count > 0 && count < len(items) {
		items = items[:count]
	}
	return items, nil
}
