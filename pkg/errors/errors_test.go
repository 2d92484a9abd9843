package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty key", ErrEmptyKey, http.StatusBadRequest},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"insufficient signal", ErrInsufficientSignal, http.StatusUnprocessableEntity},
		{"job not found", ErrJobNotFound, http.StatusNotFound},
		{"timeout", ErrTimeout, http.StatusServiceUnavailable},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped sentinel", fmt.Errorf("context: %w", ErrInsufficientSignal), http.StatusUnprocessableEntity},
		{"deeply wrapped", fmt.Errorf("a: %w", fmt.Errorf("b: %w", ErrJobNotFound)), http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusCode(tc.err))
		})
	}
}

func TestAppErrorOverridesStatus(t *testing.T) {
	err := New(ErrInvalidInput, http.StatusTeapot, "no coffee here")
	assert.Equal(t, http.StatusTeapot, HTTPStatusCode(err))
	assert.Equal(t, http.StatusTeapot, HTTPStatusCode(fmt.Errorf("wrapped: %w", err)))
}

func TestAppErrorUnwrap(t *testing.T) {
	err := Newf(ErrJobNotFound, http.StatusNotFound, "job %s", "abc")
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.Contains(t, err.Error(), "abc")
}
