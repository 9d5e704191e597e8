// Package tags reads track metadata and stream duration from audio files.
// MP3, FLAC, Ogg (Vorbis and Opus) and MP4/M4A files are supported.
package tags

import (
	"path/filepath"
	"strconv"
	"strings"
)

// File extensions recognized as audio.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOPUS = ".opus"
	ExtOGG  = ".ogg"
	ExtOGA  = ".oga"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
)

// Extensions lists every supported extension.
var Extensions = []string{ExtMP3, ExtFLAC, ExtOGG, ExtOGA, ExtOPUS, ExtM4A, ExtMP4}

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

// Tag holds the metadata read from a file. Empty strings and zero numbers
// mean the file did not carry the value.
type Tag struct {
	Path        string
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string

	TrackNumber int
	TotalTracks int
	DiscNumber  int
	TotalDiscs  int

	// Date is YYYY, YYYY-MM or YYYY-MM-DD.
	Date string

	ISRC string

	MBArtistID    string
	MBReleaseID   string
	MBRecordingID string
}

// Year derives the year from Date, or 0.
func (t *Tag) Year() int {
	year := t.Date
	if len(year) > 4 {
		year = year[:4]
	}
	y, _ := strconv.Atoi(year)
	return y
}

// Ext returns the lowercased extension of path.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsMusicFile reports whether path has a supported extension.
func IsMusicFile(path string) bool {
	ext := Ext(path)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func isOgg(ext string) bool {
	return ext == ExtOGG || ext == ExtOGA || ext == ExtOPUS
}

// taglibTags wraps a taglib result map.
type taglibTags map[string][]string

// get returns the first value for any of the given keys.
func (t taglibTags) get(keys ...string) string {
	for _, key := range keys {
		if values, ok := t[key]; ok && len(values) > 0 {
			return strings.TrimSpace(values[0])
		}
	}
	return ""
}

func (t taglibTags) getInt(key string) int {
	n, _ := strconv.Atoi(t.get(key))
	return n
}

// parseNumberPair parses a track or disc number stored as "N" or "N/M".
func parseNumberPair(s string) (num, total int) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0
	}
	parts := strings.SplitN(s, "/", 2)
	num, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	if len(parts) == 2 {
		total, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return num, total
}
