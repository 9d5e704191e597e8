// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by command.
const (
	// Input and output
	OpReadInput   Op = "read input"
	OpWriteOutput Op = "write output"
	OpLoadConfig  Op = "load configuration"
	OpOpenCache   Op = "open cache"

	// Conversion
	OpImport Op = "import playlist"
	OpExport Op = "export playlist"

	// Transformations
	OpDiff    Op = "diff playlists"
	OpShuffle Op = "shuffle playlist"
	OpStat    Op = "compute statistics"

	// Local files
	OpScan     Op = "scan directory"
	OpSyncPlan Op = "plan sync"
	OpSync     Op = "sync files"

	// Remote services
	OpMusicBrainzAnnotate Op = "annotate from MusicBrainz"
	OpLastfmQuery         Op = "query Last.fm"
	OpLastfmAnnotate      Op = "annotate from Last.fm"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Error carries an operation with its cause so the message can be built
// where the error is reported.
type Error struct {
	Op      Op
	Context string // file or name the operation worked on
	Err     error
}

// Wrap returns nil for a nil err.
func Wrap(op Op, context string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Context: context, Err: err}
}

func (e *Error) Error() string {
	return FormatWith(e.Op, e.Context, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
