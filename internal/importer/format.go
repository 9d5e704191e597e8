// Package importer detects foreign playlist dialects and converts them into
// canonical items.
package importer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned when no dialect matches the input.
var ErrUnknownFormat = errors.New("could not determine the input format")

// Format identifies an importable playlist dialect.
type Format int

const (
	FormatUnknown Format = iota
	FormatPLS
	FormatXSPF
	FormatJSPF
)

func (f Format) String() string {
	switch f {
	case FormatPLS:
		return "pls"
	case FormatXSPF:
		return "xspf"
	case FormatJSPF:
		return "jspf"
	default:
		return "unknown"
	}
}

// ParseFormat converts a dialect name. The empty string and "auto" select
// detection and return FormatUnknown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatUnknown, nil
	case "pls":
		return FormatPLS, nil
	case "xspf":
		return FormatXSPF, nil
	case "jspf":
		return FormatJSPF, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ParseError reports a document that matched a dialect but is not valid in
// it.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s: %v", strings.ToUpper(e.Format.String()), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErrorf(f Format, format string, args ...any) error {
	return &ParseError{Format: f, Err: fmt.Errorf(format, args...)}
}
