// Package transfer syncs the files referenced by a playlist into a target
// directory, copying them or transcoding them to MP3.
package transfer

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/llehouerou/calliope/internal/playlist"
)

// ErrFormatNotAllowed is returned when a file needs transcoding but MP3 is
// not among the allowed formats.
var ErrFormatNotAllowed = errors.New("format not allowed")

// FormatAll allows every file format.
const FormatAll = "all"

// Action is what an operation does with its source file.
type Action int

const (
	ActionCopy Action = iota
	ActionTranscode
)

func (a Action) String() string {
	if a == ActionTranscode {
		return "transcode"
	}
	return "copy"
}

// Operation is one planned file transfer.
type Operation struct {
	Action Action
	Source string
	Dest   string
}

func (o Operation) String() string {
	if o.Action == ActionTranscode {
		return strings.Join(ffmpegArgs(o.Source, o.Dest), " ")
	}
	return fmt.Sprintf("cp %q %q", o.Source, o.Dest)
}

// Options controls how a playlist is laid out under the target.
type Options struct {
	Target string
	// AllowFormats lists file extensions (without dot) that can be copied
	// as-is. Empty or containing "all" allows everything.
	AllowFormats []string
	Structure    FolderStructure
	// AlbumPerDir puts each album item's tracks in an Artist_Album directory.
	AlbumPerDir bool
	// NumberDirs prefixes album directories with the item number.
	NumberDirs bool
	// NumberFiles prefixes file names with the track number.
	NumberFiles bool
}

func (o Options) allows(ext string) bool {
	if len(o.AllowFormats) == 0 {
		return true
	}
	return slices.ContainsFunc(o.AllowFormats, func(f string) bool {
		return strings.EqualFold(f, FormatAll) || strings.EqualFold(f, ext)
	})
}

// Plan builds the operations needed to sync every local location in src.
// Items with a location are synced directly; album items sync each of their
// tracks, or the raw "tracks" entries of a grouping without an album. Items
// with neither are skipped.
func Plan(src playlist.Source, opts Options) ([]Operation, error) {
	if opts.Target == "" {
		return nil, errors.New("no target directory")
	}
	if opts.Structure == "" {
		opts.Structure = FolderStructureSource
	}

	var ops []Operation
	n := 0
	for item, err := range playlist.All(src) {
		if err != nil {
			return nil, err
		}
		n++

		if _, ok := item.String(playlist.KeyLocation); ok {
			op, err := planTrack(item, n, "", opts)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
			continue
		}
		if !item.Has(playlist.KeyTracks) {
			continue
		}

		var tracks []playlist.Item
		if item.Has(playlist.KeyAlbum) {
			tracks, err = item.Tracks()
		} else {
			tracks, err = item.TrackEntries()
		}
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", n, err)
		}
		dir := albumDir(item, n, opts)
		for i, track := range tracks {
			if _, ok := track.String(playlist.KeyLocation); !ok {
				continue
			}
			op, err := planTrack(track, i+1, dir, opts)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
	}
	return ops, nil
}

func albumDir(album playlist.Item, n int, opts Options) string {
	if !opts.AlbumPerDir || opts.Structure != FolderStructureSource {
		return ""
	}
	artist, _ := album.String(playlist.KeyArtist)
	name, _ := album.String(playlist.KeyAlbum)
	if name == "" {
		name = "No album"
	}
	var dir string
	if opts.NumberDirs {
		dir = makeDirname(fmt.Sprintf("%03d", n), artist, name)
	} else {
		dir = makeDirname(artist, name)
	}
	return normalizePath(dir)
}

// planTrack decides between copy and transcode for one track. number is the
// 1-based position used for NumberFiles.
func planTrack(track playlist.Item, number int, dir string, opts Options) (Operation, error) {
	location, _ := track.String(playlist.KeyLocation)
	path, ok := playlist.LocationToPath(location)
	if !ok {
		return Operation{}, fmt.Errorf("location %q is not a local file", location)
	}

	// only the extension is used to tell the file format
	ext := filepath.Ext(path)
	format := strings.ToLower(strings.TrimPrefix(ext, "."))

	var rel string
	if opts.Structure == FolderStructureSource {
		name := filepath.Base(path)
		if opts.NumberFiles {
			name = ensureNumber(name, number)
			if dir != "" {
				name = normalizePath(name)
			}
		}
		rel = filepath.Join(dir, name)
	} else {
		rel = taggedPath(infoFor(track, path, number), opts.Structure)
	}

	op := Operation{Action: ActionCopy, Source: path, Dest: filepath.Join(opts.Target, rel)}
	if opts.allows(format) {
		return op, nil
	}
	if !opts.allows("mp3") {
		return Operation{}, fmt.Errorf(
			"%s needs transcoding but only MP3 output is supported: %w", filepath.Base(path), ErrFormatNotAllowed)
	}
	op.Action = ActionTranscode
	op.Dest = strings.TrimSuffix(op.Dest, filepath.Ext(op.Dest)) + ".mp3"
	return op, nil
}

func infoFor(track playlist.Item, path string, number int) trackInfo {
	info := trackInfo{TrackNumber: number, Extension: strings.ToLower(filepath.Ext(path))}
	info.Artist, _ = track.String(playlist.KeyArtist)
	info.Album, _ = track.String(playlist.KeyAlbum)
	info.Title, _ = track.String(playlist.KeyTrack)
	if info.Artist == "" {
		info.Artist = "Unknown Artist"
	}
	if info.Album == "" {
		info.Album = "Unknown Album"
	}
	if info.Title == "" {
		info.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if n, ok := intField(track, "album.track-number"); ok {
		info.TrackNumber = n
	}
	if d, ok := intField(track, "album.disc-number"); ok {
		info.DiscNumber = d
	}
	if d, ok := intField(track, "album.disc-total"); ok {
		info.TotalDiscs = d
	}
	return info
}

func intField(item playlist.Item, key string) (int, bool) {
	if f, ok := item.Float(key); ok {
		return int(f), true
	}
	s, ok := item.String(key)
	if !ok {
		return 0, false
	}
	// "3/12" style numbers
	s, _, _ = strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.Atoi(s)
	return n, err == nil
}
