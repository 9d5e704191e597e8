package importer

import (
	"fmt"

	"github.com/llehouerou/calliope/internal/logging"
	"github.com/llehouerou/calliope/internal/playlist"
)

// Options controls how an imported document is presented.
type Options struct {
	// EmbedMetadata copies the playlist-level metadata onto the first item
	// as playlist.* keys. The Document envelope carries it either way.
	EmbedMetadata bool
}

// Import detects the dialect of text and parses it.
func Import(text []byte, opts Options) (*playlist.Document, error) {
	format, ok := GuessFormat(text)
	if !ok {
		return nil, ErrUnknownFormat
	}
	logging.Debug("import: detected %s", format)
	return ImportAs(format, text, opts)
}

// ImportAs parses text as the given dialect without detection.
// FormatUnknown falls back to Import.
func ImportAs(format Format, text []byte, opts Options) (*playlist.Document, error) {
	var (
		doc *playlist.Document
		err error
	)
	switch format {
	case FormatUnknown:
		return Import(text, opts)
	case FormatPLS:
		doc, err = parsePLS(text)
	case FormatXSPF:
		doc, err = parseXSPF(text)
	case FormatJSPF:
		doc, err = parseJSPF(text)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if opts.EmbedMetadata && len(doc.Items) > 0 {
		playlist.EmbedMetadata(doc.Items[0], doc.Metadata)
	}
	return doc, nil
}
