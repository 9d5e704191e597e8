package playlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Writer encodes items as one JSON object per line.
type Writer struct {
	enc *json.Encoder
	n   int
}

// NewWriter returns a writer encoding to w.
func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{enc: enc}
}

// WriteItem writes a single item followed by a newline.
func (w *Writer) WriteItem(item Item) error {
	if item == nil {
		item = Item{}
	}
	if err := w.enc.Encode(item); err != nil {
		return fmt.Errorf("encode item %d: %w", w.n+1, err)
	}
	w.n++
	return nil
}

// Count returns the number of items written.
func (w *Writer) Count() int {
	return w.n
}

// Write drains src into w in order, one line per item.
func Write(w io.Writer, src Source) error {
	pw := NewWriter(w)
	for {
		item, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := pw.WriteItem(item); err != nil {
			return err
		}
	}
}

// WriteItems writes a slice of items.
func WriteItems(w io.Writer, items []Item) error {
	return Write(w, Items(items...))
}
