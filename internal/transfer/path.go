package transfer

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// FolderStructure defines how synced files are organized under the target.
type FolderStructure string

const (
	FolderStructureSource       FolderStructure = "source"       // 01 - Track.mp3 as named at the source, optional album dirs
	FolderStructureFlat         FolderStructure = "flat"         // Artist - Album/01 - Track.mp3
	FolderStructureHierarchical FolderStructure = "hierarchical" // Artist/Album/01 - Track.mp3
	FolderStructureSingle       FolderStructure = "single"       // Artist - Album - 01 - Track.mp3
)

// ParseFolderStructure validates a structure name. Empty selects source.
func ParseFolderStructure(s string) (FolderStructure, error) {
	switch fs := FolderStructure(strings.ToLower(s)); fs {
	case "":
		return FolderStructureSource, nil
	case FolderStructureSource, FolderStructureFlat, FolderStructureHierarchical, FolderStructureSingle:
		return fs, nil
	}
	return "", fmt.Errorf("unknown folder structure %q", s)
}

// trackInfo is what tagged layouts need to name a file.
type trackInfo struct {
	Artist      string
	Album       string
	Title       string
	TrackNumber int
	DiscNumber  int
	TotalDiscs  int
	Extension   string // e.g., ".flac", ".mp3"
}

// taggedPath creates the relative path of a track for a tagged layout.
func taggedPath(t trackInfo, structure FolderStructure) string {
	artist := sanitizeFilename(t.Artist)
	album := sanitizeFilename(t.Album)
	title := sanitizeFilename(t.Title)

	trackNum := formatTrackNumber(t.TrackNumber, t.DiscNumber, t.TotalDiscs)
	ext := t.Extension

	switch structure {
	case FolderStructureFlat:
		folder := fmt.Sprintf("%s - %s", artist, album)
		file := fmt.Sprintf("%s - %s%s", trackNum, title, ext)
		return filepath.Join(folder, file)

	case FolderStructureSingle:
		return fmt.Sprintf("%s - %s - %s - %s%s", artist, album, trackNum, title, ext)

	default:
		file := fmt.Sprintf("%s - %s%s", trackNum, title, ext)
		return filepath.Join(artist, album, file)
	}
}

// formatTrackNumber formats track number, including disc for multi-disc albums.
func formatTrackNumber(track, disc, totalDiscs int) string {
	if totalDiscs > 1 && disc > 0 {
		return fmt.Sprintf("%d-%02d", disc, track)
	}
	return fmt.Sprintf("%02d", track)
}

var fat32Replacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "-",
	"\"", "-",
	"<", "-",
	">", "-",
	"|", "-",
)

// sanitizeFilename replaces characters FAT32 rejects.
func sanitizeFilename(s string) string {
	result := fat32Replacer.Replace(s)
	if len(result) > 200 {
		result = result[:200]
	}
	return result
}

// ensureNumber prefixes filename with a three-digit number unless it
// already starts with that number.
func ensureNumber(filename string, number int) string {
	existing := strings.TrimLeftFunc(filename, unicode.IsDigit)
	digits := filename[:len(filename)-len(existing)]
	if digits == "" || digits != fmt.Sprint(number) {
		return fmt.Sprintf("%03d_%s", number, filename)
	}
	return filename
}

// makeDirname joins the non-empty parts with underscores.
func makeDirname(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "_")
}

// normalizePath keeps ASCII letters, digits, '.' and '_'; anything else
// becomes '_'.
func normalizePath(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
