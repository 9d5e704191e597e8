package export

import (
	"fmt"
	"io"

	"github.com/llehouerou/calliope/internal/playlist"
)

// writeM3U writes one location per line and stops at the first item
// without one.
func writeM3U(w io.Writer, src playlist.Source, _ Options) error {
	n := 0
	for item, err := range playlist.All(src) {
		if err != nil {
			return err
		}
		n++
		location, ok := text(item, playlist.KeyLocation)
		if !ok {
			return &ItemError{Index: n, Err: ErrMissingLocation}
		}
		if _, err := fmt.Fprintln(w, location); err != nil {
			return err
		}
	}
	return nil
}
