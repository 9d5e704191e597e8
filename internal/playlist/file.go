package playlist

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// Open opens path for reading; "-" selects standard input, which is not
// closed by the returned closer.
func Open(path string) (io.ReadCloser, error) {
	if path == Stdin {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open playlist: %w", err)
	}
	return f, nil
}

// WithReader opens path and passes a Reader over it to fn. The file is
// closed when fn returns, whatever the outcome, so fn must finish consuming
// the reader (or Collect it) before returning.
func WithReader(path string, fn func(*Reader) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return fn(NewReader(rc))
}

// ReadFile reads every item of the playlist at path.
func ReadFile(path string) ([]Item, Kind, error) {
	var (
		items []Item
		kind  Kind
	)
	err := WithReader(path, func(r *Reader) error {
		var err error
		items, err = r.Collect()
		kind = r.Kind()
		return err
	})
	return items, kind, err
}

// LocationToPath converts a file:// URI (or a bare path) to a local path.
// Other schemes yield ok=false.
func LocationToPath(location string) (string, bool) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" {
		if strings.Contains(location, "://") {
			return "", false
		}
		return location, true
	}
	if u.Scheme != "file" {
		return "", false
	}
	return u.Path, true
}

// PathToLocation converts a local path to an absolute file:// URI.
func PathToLocation(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
