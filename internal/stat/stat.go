// Package stat summarizes an item sequence: item and track counts, total
// duration and the on-disk size of local files.
package stat

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/calliope/internal/logging"
	"github.com/llehouerou/calliope/internal/playlist"
)

// Stats holds the totals of a sequence.
type Stats struct {
	Items    int
	Tracks   int
	Duration time.Duration
	Size     int64
	// Files is the number of local files found.
	Files int
	// Missing is the number of local locations that do not exist.
	Missing int
}

// Measure consumes src. Album items count each of their tracks; a track's
// duration and file size count once.
func Measure(src playlist.Source) (Stats, error) {
	var s Stats
	for item, err := range playlist.All(src) {
		if err != nil {
			return s, err
		}
		s.Items++

		tracks, err := item.Tracks()
		if err != nil {
			return s, fmt.Errorf("item %d: %w", s.Items, err)
		}
		if len(tracks) == 0 {
			// a bare location is still a file to measure
			if item.Has(playlist.KeyLocation) {
				tracks = []playlist.Item{item}
			}
		}
		for _, track := range tracks {
			s.Tracks++
			if d, ok := track.Float(playlist.KeyDuration); ok {
				s.Duration += time.Duration(d * float64(time.Second))
			}
			s.addFile(track)
		}
	}
	return s, nil
}

func (s *Stats) addFile(track playlist.Item) {
	location, ok := track.String(playlist.KeyLocation)
	if !ok {
		return
	}
	path, ok := playlist.LocationToPath(location)
	if !ok {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Warn("did not find file %s", path)
		} else {
			logging.Warn("stat %s: %v", path, err)
		}
		s.Missing++
		return
	}
	s.Files++
	s.Size += info.Size()
}

// Report writes a human-readable summary.
func (s Stats) Report(w io.Writer) error {
	size := humanize.IBytes(uint64(max(s.Size, 0)))
	_, err := fmt.Fprintf(w,
		"Items: %s\nTracks: %s\nDuration: %s\nFiles: %s (%d missing)\nTotal size: %s\n",
		humanize.Comma(int64(s.Items)),
		humanize.Comma(int64(s.Tracks)),
		s.Duration.Round(time.Second),
		humanize.Comma(int64(s.Files)),
		s.Missing,
		size,
	)
	return err
}
