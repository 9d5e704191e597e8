// Package scan produces items from the audio files of a local directory.
package scan

import (
	"fmt"
	"io"
	"io/fs"
	"math"
	"path/filepath"

	"github.com/llehouerou/calliope/internal/logging"
	"github.com/llehouerou/calliope/internal/playlist"
	"github.com/llehouerou/calliope/internal/tags"
)

// Keys set on scanned items besides the canonical ones.
const (
	KeyTrackNumber = "album.track-number"
	KeyDiscNumber  = "album.disc-number"
	KeyAlbumArtist = "album.artist"
	KeyGenre       = "genre"
	KeyDate        = "date"
	KeyRecordingID = "musicbrainz.recording-id"
)

// Scanner walks a directory tree in lexical order. The tree is listed on
// the first call to Next; tags are read one file at a time.
type Scanner struct {
	root   string
	files  []string
	pos    int
	listed bool
	err    error
}

// Dir returns a Scanner over the audio files below root.
func Dir(root string) *Scanner {
	return &Scanner{root: root}
}

// Kind reports a collection: files on disk carry no playing order.
func (s *Scanner) Kind() playlist.Kind {
	return playlist.KindCollection
}

// Next returns the item for the next audio file, or io.EOF.
func (s *Scanner) Next() (playlist.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	if !s.listed {
		s.listed = true
		files, err := discoverFiles(s.root)
		if err != nil {
			s.err = err
			return nil, err
		}
		s.files = files
	}
	if s.pos >= len(s.files) {
		return nil, io.EOF
	}
	path := s.files[s.pos]
	s.pos++
	return itemFor(path), nil
}

// discoverFiles lists the audio files below root. WalkDir visits entries
// in lexical order. Unreadable subdirectories are skipped.
func discoverFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logging.Warn("skipping %s: %v", path, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !tags.IsMusicFile(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	logging.Debug("scan: %d audio files under %s", len(files), root)
	return files, nil
}

// itemFor builds the item of one file. A file whose tags can't be read
// still yields its location.
func itemFor(path string) playlist.Item {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	item := playlist.Item{playlist.KeyLocation: playlist.PathToLocation(abs)}

	t, err := tags.Read(path)
	if err != nil {
		logging.Warn("read tags of %s: %v", path, err)
	} else {
		applyTag(item, t)
	}

	if info, err := tags.ReadAudioInfo(path); err != nil {
		logging.Debug("read stream info of %s: %v", path, err)
	} else if info.Duration > 0 {
		item[playlist.KeyDuration] = math.Round(info.Duration.Seconds()*1000) / 1000
	}
	return item
}

func applyTag(item playlist.Item, t *tags.Tag) {
	setString := func(key, value string) {
		if value != "" {
			item[key] = value
		}
	}
	setString(playlist.KeyTrack, t.Title)
	setString(playlist.KeyArtist, t.Artist)
	setString(playlist.KeyAlbum, t.Album)
	setString(KeyAlbumArtist, t.AlbumArtist)
	setString(KeyGenre, t.Genre)
	setString(KeyDate, t.Date)
	setString(KeyRecordingID, t.MBRecordingID)
	if t.TrackNumber > 0 {
		item[KeyTrackNumber] = float64(t.TrackNumber)
	}
	if t.DiscNumber > 0 {
		item[KeyDiscNumber] = float64(t.DiscNumber)
	}
}
