package document

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorKind classifies extraction failures.
type ErrorKind string

const (
	// KindUnreadable means the file could not be read from disk
	KindUnreadable ErrorKind = "unreadable"
	// KindUnparseable means the bytes are not a parseable document of the expected format
	KindUnparseable ErrorKind = "unparseable"
)

// ExtractionError represents a failure to turn a document into text.
// Path is kept for logging and never appears in Error, which may reach clients.
type ExtractionError struct {
	Path    string
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Message, withoutPath(e.Cause))
	}
	return fmt.Sprintf("extraction failed: %s", e.Message)
}

// withoutPath drops the file name that fs errors carry in their message.
func withoutPath(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// EmptyContentError is returned when a document parses but contains no text
type EmptyContentError struct {
	Path      string
	PageCount int
}

func (e *EmptyContentError) Error() string {
	return fmt.Sprintf("no text content found in document (%d pages)", e.PageCount)
}
