package musicxml

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates the input is not a readable MusicXML document
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported indicates a well-formed document this reader does not handle
	ErrUnsupported = errors.New("unsupported")
)

// ParseError reports a malformed document or element
type ParseError struct {
	Path    string // element path, e.g. "part[P1]/measure[3]/note"
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse MusicXML at %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse MusicXML: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes every ParseError match ErrInvalidInput
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UnsupportedError reports a document shape the reader does not handle
type UnsupportedError struct {
	Feature string
	Reason  string
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}
