package extraction

import (
	"errors"
	"fmt"
)

var (
	// ErrURLNotAllowed is returned when a URL matches no allow-listed prefix
	ErrURLNotAllowed = errors.New("URL is not on the allow-list")
	// ErrEmptyURL is returned when no URL was supplied
	ErrEmptyURL = errors.New("URL is required")
)

// InvalidInputError reports input rejected before any network I/O.
type InvalidInputError struct {
	Field string
	Value string
	Cause error
}

func (e *InvalidInputError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Cause)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Cause
}
