// Package playlist holds the canonical item model shared by every stage, and
// the native line-delimited JSON reader and writer.
package playlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Canonical keys with a system-wide meaning.
const (
	KeyID        = "id"
	KeyTrack     = "track"
	KeyArtist    = "artist"
	KeyAlbum     = "album"
	KeyLocation  = "location"
	KeyTracks    = "tracks"
	KeyDuration  = "duration"
	KeyStartTime = "start-time"
	KeyComment   = "comment"
	KeyImage     = "image"
)

var (
	// ErrMissingField is returned when a required key is absent.
	ErrMissingField = errors.New("missing field")
	// ErrFieldType is returned when a key holds a value of the wrong type.
	ErrFieldType = errors.New("unexpected field type")
)

// FieldError records which key of an item could not be used.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Key, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Item is one playlist or collection entry. Any producer may add its own
// namespaced keys ("<source>.<field>"); the typed accessors cover the keys
// the core relies on.
type Item map[string]any

// Has reports whether key is present.
func (i Item) Has(key string) bool {
	_, ok := i[key]
	return ok
}

// String returns the value of key when it is a string.
func (i Item) String(key string) (string, bool) {
	s, ok := i[key].(string)
	return s, ok
}

// Float returns the value of key as a float64 when it is numeric.
func (i Item) Float(key string) (float64, bool) {
	return toFloat(i[key])
}

// RequireString returns the string value of key or a FieldError.
func (i Item) RequireString(key string) (string, error) {
	v, ok := i[key]
	if !ok {
		return "", &FieldError{Key: key, Err: ErrMissingField}
	}
	s, ok := v.(string)
	if !ok {
		return "", &FieldError{Key: key, Err: fmt.Errorf("%w: %T", ErrFieldType, v)}
	}
	return s, nil
}

// ID returns the identity used as a deduplication and diff key: the explicit
// "id" when set, otherwise the lowercased "artist.track" composite.
func (i Item) ID() (string, error) {
	if _, ok := i[KeyID]; ok {
		return i.RequireString(KeyID)
	}
	artist, err := i.RequireString(KeyArtist)
	if err != nil {
		return "", err
	}
	track, err := i.RequireString(KeyTrack)
	if err != nil {
		return "", err
	}
	return strings.ToLower(artist) + "." + strings.ToLower(track), nil
}

// Tracks returns the tracks this item stands for. An item with a "track" key
// is itself the only track. An album item with "tracks" expands to one copy
// per entry, inheriting "album" and, when the entry has none, "artist".
// The parent's entries are never modified.
func (i Item) Tracks() ([]Item, error) {
	if i.Has(KeyTrack) {
		return []Item{i}, nil
	}
	if !i.Has(KeyAlbum) || !i.Has(KeyTracks) {
		return nil, nil
	}

	entries, err := i.entries(KeyTracks)
	if err != nil {
		return nil, err
	}

	artist, hasArtist := i[KeyArtist]
	if artist == nil || artist == "" {
		hasArtist = false
	}

	result := make([]Item, 0, len(entries))
	for _, entry := range entries {
		merged := entry.Clone()
		merged[KeyAlbum] = i[KeyAlbum]
		if hasArtist && !merged.Has(KeyArtist) {
			merged[KeyArtist] = artist
		}
		result = append(result, merged)
	}
	return result, nil
}

// TrackEntries returns copies of the "tracks" entries as they are, without
// inheriting anything from the item.
func (i Item) TrackEntries() ([]Item, error) {
	entries, err := i.entries(KeyTracks)
	if err != nil {
		return nil, err
	}
	result := make([]Item, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry.Clone())
	}
	return result, nil
}

// entries converts a sequence value into items, expanding bare strings.
func (i Item) entries(key string) ([]Item, error) {
	switch v := i[key].(type) {
	case nil:
		return nil, nil
	case []Item:
		return v, nil
	case []any:
		result := make([]Item, 0, len(v))
		for n, e := range v {
			entry, err := asItem(e)
			if err != nil {
				return nil, &FieldError{Key: fmt.Sprintf("%s[%d]", key, n), Err: err}
			}
			result = append(result, entry)
		}
		return result, nil
	case []map[string]any:
		result := make([]Item, 0, len(v))
		for _, e := range v {
			result = append(result, Item(e))
		}
		return result, nil
	default:
		return nil, &FieldError{Key: key, Err: fmt.Errorf("%w: %T", ErrFieldType, v)}
	}
}

// asItem converts a decoded value into an item. A bare string is shorthand
// for {"track": s}.
func asItem(v any) (Item, error) {
	switch e := v.(type) {
	case Item:
		return e, nil
	case map[string]any:
		return Item(e), nil
	case string:
		return Item{KeyTrack: e}, nil
	default:
		return nil, fmt.Errorf("%w, got %s", ErrNotObject, jsonTypeName(v))
	}
}

// Clone returns a shallow copy.
func (i Item) Clone() Item {
	if i == nil {
		return Item{}
	}
	return maps.Clone(i)
}

// Append adds values to the list stored under key. A scalar already stored
// there becomes the first element of the list.
func (i Item) Append(key string, values ...any) {
	var list []any
	switch v := i[key].(type) {
	case nil:
	case []any:
		list = slices.Clone(v)
	case []string:
		for _, s := range v {
			list = append(list, s)
		}
	default:
		list = []any{v}
	}
	i[key] = append(list, values...)
}

// Keys returns the keys in sorted order.
func (i Item) Keys() []string {
	return slices.Sorted(maps.Keys(i))
}

// Equal reports whether two items hold the same JSON values. Numbers compare
// by value regardless of their Go type.
func Equal(a, b Item) bool {
	return reflect.DeepEqual(normalize(map[string]any(a)), normalize(map[string]any(b)))
}

func normalize(v any) any {
	switch x := v.(type) {
	case Item:
		return normalize(map[string]any(x))
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case []Item:
		out := make([]any, len(x))
		for n, e := range x {
			out[n] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for n, e := range x {
			out[n] = normalize(e)
		}
		return out
	case []string:
		out := make([]any, len(x))
		for n, e := range x {
			out[n] = e
		}
		return out
	case json.Number:
		return normalizeNumber(x)
	case int64:
		if x > maxExactInt || x < -maxExactInt {
			return x
		}
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return v
}

// Largest integer magnitude a float64 holds exactly.
const maxExactInt = 1 << 53

// normalizeNumber keeps integers a float64 cannot hold as int64 so that
// they still compare exactly.
func normalizeNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return normalize(i)
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	}
	return 0, false
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
