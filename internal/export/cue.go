package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/llehouerou/calliope/internal/playlist"
)

// writeCUE renders a CUE sheet with one TRACK block per item. The first
// item starts at 0 unless it has a start-time; later items must have one.
func writeCUE(w io.Writer, src playlist.Source, _ Options) error {
	item, err := src.Next()
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	// the kind of a streamed document is known after the first read
	if playlist.KindOf(src) != playlist.KindPlaylist {
		return ErrNotPlaylist
	}

	if _, err := fmt.Fprintln(w, `FILE "none" WAVE`); err != nil {
		return err
	}
	for n := 1; ; n++ {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := writeCUETrack(w, n, item); err != nil {
			return err
		}
		item, err = src.Next()
	}
}

func writeCUETrack(w io.Writer, n int, item playlist.Item) error {
	var start float64
	switch {
	case item.Has(playlist.KeyStartTime):
		f, ok := item.Float(playlist.KeyStartTime)
		if !ok {
			return &ItemError{Index: n, Err: &playlist.FieldError{
				Key: playlist.KeyStartTime,
				Err: fmt.Errorf("%w: %T", playlist.ErrFieldType, item[playlist.KeyStartTime]),
			}}
		}
		if f < 0 {
			return &ItemError{Index: n, Err: ErrNegativeStartTime}
		}
		start = f
	case n == 1:
		start = 0
	default:
		return &ItemError{Index: n, Err: ErrMissingStartTime}
	}

	if _, err := fmt.Fprintf(w, "  TRACK %02d AUDIO\n", n); err != nil {
		return err
	}
	if title, ok := text(item, playlist.KeyTrack); ok {
		if _, err := fmt.Fprintf(w, "    TITLE \"%s\"\n", title); err != nil {
			return err
		}
	}
	if performer, ok := text(item, playlist.KeyArtist); ok {
		if _, err := fmt.Fprintf(w, "    PERFORMER \"%s\"\n", performer); err != nil {
			return err
		}
	}
	minutes := int(start / 60)
	seconds := int(math.Mod(start, 60))
	_, err := fmt.Fprintf(w, "  INDEX 01 %02d:%02d:00\n", minutes, seconds)
	return err
}
