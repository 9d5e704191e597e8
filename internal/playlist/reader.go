package playlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject is returned when a top-level value is not an item.
var ErrNotObject = errors.New("expected JSON object")

// Container keys of a whole-document playlist or collection.
const (
	containerPlaylist   = "playlist"
	containerList       = "list"
	containerCollection = "collection"
)

type readerState int

const (
	stateOpen readerState = iota
	stateDone
	stateFailed
	stateCollected
)

// Reader decodes items from a stream of JSON values: one object per line,
// a whole-document array of objects, a single object, or a container
// document ({"playlist": [...]}, {"list": [...]}, {"collection": [...]}).
//
// Values are decoded one at a time as Next is called; nothing past the
// current value is parsed. The underlying stream is never rewound, so the
// reader must be consumed while the stream is open. After the last item Next
// keeps returning io.EOF; after Collect it returns ErrExhausted.
type Reader struct {
	dec   *json.Decoder
	kind  Kind
	state readerState
	err   error

	// entries of the array or container being drained
	pending []any
	sugar   bool
	values  int
}

// NewReader returns a reader decoding from r. Numbers are kept as
// json.Number so that they are written back unchanged.
func NewReader(r io.Reader) *Reader {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Reader{dec: dec}
}

// Kind reports the kind of the sequence read so far. It becomes
// KindCollection once a collection document has been read.
func (r *Reader) Kind() Kind {
	return r.kind
}

// Next returns the next item, io.EOF at the end of the stream.
func (r *Reader) Next() (Item, error) {
	switch r.state {
	case stateCollected:
		return nil, ErrExhausted
	case stateDone:
		return nil, io.EOF
	case stateFailed:
		return nil, r.err
	}

	for {
		if len(r.pending) > 0 {
			v := r.pending[0]
			r.pending = r.pending[1:]
			item, err := r.entry(v)
			if err != nil {
				return nil, r.fail(err)
			}
			return item, nil
		}

		var v any
		if err := r.dec.Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				r.state = stateDone
				return nil, io.EOF
			}
			return nil, r.fail(fmt.Errorf("decode value %d: %w", r.values+1, err))
		}
		r.values++

		switch doc := v.(type) {
		case map[string]any:
			if entries, kind, ok := container(doc); ok {
				r.kind = kind
				r.pending = entries
				r.sugar = true
				continue
			}
			return Item(doc), nil
		case []any:
			r.pending = doc
			r.sugar = false
		default:
			return nil, r.fail(fmt.Errorf("value %d: %w, got %s", r.values, ErrNotObject, jsonTypeName(v)))
		}
	}
}

// entry converts one element of an array or container into an item.
func (r *Reader) entry(v any) (Item, error) {
	switch e := v.(type) {
	case map[string]any:
		return Item(e), nil
	case string:
		if r.sugar {
			return Item{KeyTrack: e}, nil
		}
	}
	return nil, fmt.Errorf("value %d: %w, got %s", r.values, ErrNotObject, jsonTypeName(v))
}

func (r *Reader) fail(err error) error {
	r.state = stateFailed
	r.err = err
	r.pending = nil
	return err
}

// Collect reads every remaining item. Reading and collecting are exclusive
// uses of the same stream: after Collect the reader returns ErrExhausted.
func (r *Reader) Collect() ([]Item, error) {
	if r.state == stateCollected {
		return nil, ErrExhausted
	}
	var items []Item
	for {
		item, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	r.state = stateCollected
	return items, nil
}

// container recognizes a whole-document playlist or collection. The
// entries key must hold an array or null.
func container(doc map[string]any) ([]any, Kind, bool) {
	for _, key := range []string{containerPlaylist, containerList, containerCollection} {
		v, ok := doc[key]
		if !ok {
			continue
		}
		kind := KindPlaylist
		if key == containerCollection {
			kind = KindCollection
		}
		switch entries := v.(type) {
		case nil:
			return nil, kind, true
		case []any:
			return entries, kind, true
		}
	}
	return nil, KindPlaylist, false
}
