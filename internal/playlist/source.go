package playlist

import (
	"errors"
	"io"
	"iter"
)

// ErrExhausted is returned by a source that was already drained by Collect.
var ErrExhausted = errors.New("playlist source already consumed")

// Source is a forward-only, single-pass producer of items. Next returns
// io.EOF once the items are exhausted. A source is not safe for concurrent
// use; callers needing more than one pass must Collect it first.
type Source interface {
	Next() (Item, error)
}

// Kinded is implemented by sources that know whether they are ordered.
// Kind may only be accurate after the first call to Next.
type Kinded interface {
	Kind() Kind
}

// KindOf returns the kind reported by src, KindPlaylist when it has none.
func KindOf(src Source) Kind {
	if k, ok := src.(Kinded); ok {
		return k.Kind()
	}
	return KindPlaylist
}

// Collect drains src into a slice. The source must not be used afterwards.
func Collect(src Source) ([]Item, error) {
	if c, ok := src.(interface{ Collect() ([]Item, error) }); ok {
		return c.Collect()
	}
	var items []Item
	for {
		item, err := src.Next()
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
}

// All adapts src to a range-over-func sequence. Iteration stops after the
// first error is yielded.
func All(src Source) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		for {
			item, err := src.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(item, err) || err != nil {
				return
			}
		}
	}
}

// SliceSource yields the items of a slice in order.
type SliceSource struct {
	kind  Kind
	items []Item
	pos   int
	taken bool
}

// NewSliceSource returns a source over items.
func NewSliceSource(kind Kind, items []Item) *SliceSource {
	return &SliceSource{kind: kind, items: items}
}

// Items returns a playlist-kind source over items.
func Items(items ...Item) *SliceSource {
	return NewSliceSource(KindPlaylist, items)
}

func (s *SliceSource) Next() (Item, error) {
	if s.taken {
		return nil, ErrExhausted
	}
	if s.pos >= len(s.items) {
		return nil, io.EOF
	}
	item := s.items[s.pos]
	s.pos++
	return item, nil
}

func (s *SliceSource) Kind() Kind {
	return s.kind
}

// Collect returns the remaining items and marks the source consumed.
func (s *SliceSource) Collect() ([]Item, error) {
	if s.taken {
		return nil, ErrExhausted
	}
	rest := s.items[s.pos:]
	s.pos = len(s.items)
	s.taken = true
	return rest, nil
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() (Item, error)

func (f SourceFunc) Next() (Item, error) {
	return f()
}

// Map returns a source applying fn to each item of src. An error from fn
// stops the sequence. The kind of src is preserved.
func Map(src Source, fn func(Item) (Item, error)) Source {
	return &mapSource{src: src, fn: fn}
}

type mapSource struct {
	src Source
	fn  func(Item) (Item, error)
	err error
}

func (m *mapSource) Next() (Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	item, err := m.src.Next()
	if err != nil {
		return nil, err
	}
	out, err := m.fn(item)
	if err != nil {
		m.err = err
		return nil, err
	}
	return out, nil
}

func (m *mapSource) Kind() Kind {
	return KindOf(m.src)
}
