package adimport

import (
	"errors"
	"fmt"
)

// Structural errors abort a run before any write.
var (
	ErrFileNotFound   = errors.New("file not found")
	ErrMissingColumns = errors.New("missing required columns")
	ErrMalformedInput = errors.New("malformed input")
)

// RowError explains why a single row was skipped. It never aborts a run.
type RowError struct {
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// IsStructural reports whether err rejects the input as a whole.
func IsStructural(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrMissingColumns) ||
		errors.Is(err, ErrMalformedInput)
}
