package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resumetailor/internal/extraction"
	"github.com/jonathan/resumetailor/internal/tailoring"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid url", &extraction.InvalidInputError{Field: "url", Cause: extraction.ErrEmptyURL}, http.StatusBadRequest},
		{"wrapped invalid url", fmt.Errorf("extract: %w", &extraction.InvalidInputError{Field: "url"}), http.StatusBadRequest},
		{"tailor input", &tailoring.InputError{Field: "resumeText", Message: "is blank"}, http.StatusBadRequest},
		{"validation", &ErrValidation{Field: "jobUrl", Message: "is required"}, http.StatusBadRequest},
		{"not found", &ErrNotFound{Message: "gone"}, http.StatusNotFound},
		{"tailoring failure", &tailoring.TailoringError{Backend: "openai", Message: "boom"}, http.StatusInternalServerError},
		{"cancelled", context.Canceled, http.StatusInternalServerError},
		{"unknown", errors.New("mystery"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrValidation_Error(t *testing.T) {
	err := &ErrValidation{Field: "jobUrl", Message: "is required"}
	assert.Equal(t, "validation error: jobUrl - is required", err.Error())
}
