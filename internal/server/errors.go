package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resumetailor/internal/extraction"
	"github.com/jonathan/resumetailor/internal/tailoring"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the requested resource does not exist or could not
// be produced.
type ErrNotFound struct {
	Message string
}

func (e *ErrNotFound) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		invalidInput *extraction.InvalidInputError
		tailorInput  *tailoring.InputError
		validation   *ErrValidation
		notFound     *ErrNotFound
	)
	switch {
	case errors.As(err, &invalidInput), errors.As(err, &tailorInput), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
