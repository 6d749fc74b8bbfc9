package refactor

import (
	"errors"
	"fmt"
)

// ErrInvalidJSX reports that the selected text is not a usable JSX fragment,
// even after the synthetic-wrapper recovery attempt.
var ErrInvalidJSX = errors.New("selection is not a valid JSX fragment")

// ErrInvalidComponent reports that no enclosing component (class, arrow
// function declarator or function declaration) was found above the selection.
var ErrInvalidComponent = errors.New("no enclosing component found")

// ExtractionError wraps any unexpected failure inside the extraction
// pipeline, carrying the original cause.
type ExtractionError struct {
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}
