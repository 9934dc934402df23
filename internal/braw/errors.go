package braw

import (
	"errors"
	"fmt"
)

var (
	// ErrNotABlogSource marks a path that is not a regular .braw file. Callers usually skip it.
	ErrNotABlogSource = errors.New("not a blog source")

	ErrMalformedMeta        = errors.New("malformed meta directive")
	ErrUnknownMetaSpecifier = errors.New("unknown meta specifier")
	ErrMissingMetaArgument  = errors.New("missing meta argument")
	ErrInvalidDate          = errors.New("invalid date, want YYYY/MM/DD")

	ErrUnknownDirective         = errors.New("unknown directive")
	ErrMissingDirectiveArgument = errors.New("directive without argument")
)

// ParseError reports why a source could not be turned into a Document.
type ParseError struct {
	Path string
	// Line is 1-based in the raw text; 0 when the error is about the file itself.
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v: %q", e.Path, e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsFatal reports whether err is a parse error that needs the source fixed by hand.
// ErrNotABlogSource is not fatal.
func IsFatal(err error) bool {
	var pe *ParseError
	if !errors.As(err, &pe) {
		return false
	}
	return !errors.Is(pe.Err, ErrNotABlogSource)
}

// LineError reports a content line that could not be translated to HTML.
type LineError struct {
	// Index is the 0-based position in Document.Lines, or -1 for a standalone translation.
	Index int
	Text  string
	Err   error
}

func (e *LineError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %q", e.Err, e.Text)
	}
	return fmt.Sprintf("content line %d: %v: %q", e.Index+1, e.Err, e.Text)
}

func (e *LineError) Unwrap() error { return e.Err }
