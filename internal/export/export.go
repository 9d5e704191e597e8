// Package export renders item sequences as playlists for other tools: CUE
// sheets, M3U, JSPF and XSPF, plus the native line-delimited format.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/llehouerou/calliope/internal/playlist"
)

var (
	// ErrNotPlaylist is returned when an unordered collection is exported
	// to a format that implies playback order.
	ErrNotPlaylist = errors.New("only playlists can be converted to CUE sheets")
	// ErrMissingStartTime is returned when an item after the first has no
	// start-time.
	ErrMissingStartTime = errors.New("the 'start-time' field must be set for all entries in order to create a CUE sheet")
	// ErrNegativeStartTime is returned for a start-time before 0.
	ErrNegativeStartTime = errors.New("the 'start-time' field cannot be negative in a CUE sheet")
	// ErrMissingLocation is returned when an item has no location.
	ErrMissingLocation = errors.New("the 'location' field must be set for all entries in order to create an M3U playlist")
	// ErrEmptyPlaylist is returned when there is nothing to export.
	ErrEmptyPlaylist = errors.New("cannot export an empty playlist")
	// ErrUnknownFormat is returned for an unsupported output format name.
	ErrUnknownFormat = errors.New("unsupported output format")
)

// ItemError reports which item (1-based) could not be exported.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Options overrides the playlist-level metadata read from the first item.
type Options struct {
	Title    string
	Metadata *playlist.Metadata
}

// metadata resolves the playlist-level fields for an export whose first
// item is first.
func (o Options) metadata(first playlist.Item) playlist.Metadata {
	m := playlist.MetadataFrom(first)
	if o.Metadata != nil {
		m = m.Merge(*o.Metadata)
	}
	if o.Title != "" {
		m.Title = o.Title
	}
	return m
}

// Format names an output format.
type Format string

const (
	FormatNative Format = "native"
	FormatCUE    Format = "cue"
	FormatM3U    Format = "m3u"
	FormatJSPF   Format = "jspf"
	FormatXSPF   Format = "xspf"
)

type writerFunc func(w io.Writer, src playlist.Source, opts Options) error

var writers = map[Format]writerFunc{
	FormatNative: func(w io.Writer, src playlist.Source, _ Options) error { return playlist.Write(w, src) },
	FormatCUE:    writeCUE,
	FormatM3U:    writeM3U,
	FormatJSPF:   writeJSPF,
	FormatXSPF:   writeXSPF,
}

// Formats lists the output format names.
func Formats() []string {
	return []string{
		string(FormatNative), string(FormatCUE), string(FormatM3U),
		string(FormatJSPF), string(FormatXSPF),
	}
}

// ParseFormat validates an output format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := writers[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

// Write renders src to w in the named format. Except for the native format
// nothing is written when an error occurs.
func Write(w io.Writer, format Format, src playlist.Source, opts Options) error {
	fn, ok := writers[format]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if format == FormatNative {
		return fn(w, src, opts)
	}

	var buf bytes.Buffer
	if err := fn(&buf, src, opts); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// text returns the value of key as text. Non-string scalars are formatted.
func text(item playlist.Item, key string) (string, bool) {
	v, ok := item[key]
	if !ok || v == nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	}
	if f, ok := item.Float(key); ok && f == float64(int64(f)) {
		return fmt.Sprint(int64(f)), true
	}
	return fmt.Sprint(v), true
}
