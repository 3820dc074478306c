package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingPart indicates the score references a part that is not declared
	ErrMissingPart = errors.New("missing part declaration")
	// ErrNilScore indicates Convert was called without a score
	ErrNilScore = errors.New("nil score")
)

// MissingPartError reports a part whose id has no score-part declaration
type MissingPartError struct {
	PartID string
}

func (e *MissingPartError) Error() string {
	return fmt.Sprintf("part %q has no score-part declaration", e.PartID)
}

func (e *MissingPartError) Unwrap() error {
	return ErrMissingPart
}
