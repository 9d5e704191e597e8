package importer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/llehouerou/calliope/internal/logging"
	"github.com/llehouerou/calliope/internal/playlist"
)

// jspfFields maps JSPF track properties to canonical keys. location,
// identifier and duration need conversion and are handled separately.
var jspfFields = []struct {
	jspf string
	key  string
}{
	{"title", playlist.KeyTrack},
	{"creator", playlist.KeyArtist},
	{"annotation", playlist.KeyComment},
	{"info", keyXSPFInfo},
	{"image", playlist.KeyImage},
	{"album", playlist.KeyAlbum},
	{"trackNum", keyTrackNumber},
}

// parseJSPF reads a JSPF document. YAML is accepted as well as JSON.
func parseJSPF(text []byte) (*playlist.Document, error) {
	var doc any
	if err := yaml.Unmarshal(text, &doc); err != nil {
		return nil, &ParseError{Format: FormatJSPF, Err: err}
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, parseErrorf(FormatJSPF, "document is not an object")
	}
	raw, ok := root[jspfRoot]
	if !ok {
		return nil, parseErrorf(FormatJSPF, "no top-level 'playlist' item")
	}
	pl, ok := raw.(map[string]any)
	if !ok {
		return nil, parseErrorf(FormatJSPF, "'playlist' is not an object")
	}
	rawTracks, ok := pl["track"]
	if !ok {
		return nil, parseErrorf(FormatJSPF, "no 'track' list")
	}

	var tracks []any
	switch v := rawTracks.(type) {
	case nil:
	case []any:
		tracks = v
	default:
		return nil, parseErrorf(FormatJSPF, "'track' is not a list")
	}

	items := make([]playlist.Item, 0, len(tracks))
	for n, raw := range tracks {
		track, ok := raw.(map[string]any)
		if !ok {
			return nil, parseErrorf(FormatJSPF, "track %d is not an object", n+1)
		}
		item, err := jspfTrack(track)
		if err != nil {
			return nil, parseErrorf(FormatJSPF, "track %d: %v", n+1, err)
		}
		if len(item) == 0 {
			logging.Warn("empty 'track' entry found")
		}
		items = append(items, item)
	}

	var meta playlist.Metadata
	for _, name := range playlist.MetadataFields() {
		if v, ok := pl[name]; ok {
			meta.Set(name, scalarString(first(v)))
		}
	}
	return &playlist.Document{Kind: playlist.KindPlaylist, Metadata: meta, Items: items}, nil
}

func jspfTrack(track map[string]any) (playlist.Item, error) {
	item := playlist.Item{}
	if v := first(track["location"]); v != nil {
		item[playlist.KeyLocation] = v
	}
	if v := first(track["identifier"]); v != nil {
		item[playlist.KeyID] = v
	}
	for _, f := range jspfFields {
		if v, ok := track[f.jspf]; ok {
			item[f.key] = v
		}
	}
	if v, ok := track["duration"]; ok {
		ms, err := toMillis(v)
		if err != nil {
			return nil, err
		}
		item[playlist.KeyDuration] = float64(ms) / 1000
	}
	return item, nil
}

// first keeps the first element of a multi-valued property.
func first(v any) any {
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		return list[0]
	}
	return v
}

func toMillis(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, errors.New("duration out of range")
		}
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		ms, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", n)
		}
		return ms, nil
	}
	return 0, fmt.Errorf("invalid duration of type %T", v)
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
