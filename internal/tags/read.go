package tags

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dhowden/tag"
)

// Read reads tag metadata from a music file. dhowden/tag handles the common
// cases; format specific readers fill what it misses or take over when it
// can't parse the file.
func Read(path string) (*Tag, error) {
	ext := Ext(path)
	if !IsMusicFile(path) {
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		switch {
		case ext == ExtMP3:
			// some UTF-16 ID3 frames trip dhowden/tag
			return readID3(path)
		case ext == ExtFLAC, isOgg(ext), ext == ExtM4A, ext == ExtMP4:
			return readTaglib(path)
		}
		return nil, err
	}

	track, totalTracks := m.Track()
	disc, totalDiscs := m.Disc()

	t := &Tag{
		Path:        path,
		Title:       m.Title(),
		Artist:      m.Artist(),
		AlbumArtist: m.AlbumArtist(),
		Album:       m.Album(),
		Genre:       m.Genre(),
		Date:        yearToDate(m.Year()),
		TrackNumber: track,
		TotalTracks: totalTracks,
		DiscNumber:  disc,
		TotalDiscs:  totalDiscs,
	}

	switch {
	case ext == ExtMP3:
		readID3Extended(path, t)
	case ext == ExtFLAC:
		readFLACExtended(path, t)
	default:
		readTaglibExtended(path, t)
	}
	return t, nil
}

func yearToDate(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
