// Package errors defines the platform's error taxonomy: sentinel errors for
// the cryptanalysis core and the job pipeline, a wrapping AppError that
// carries an HTTP status, and the mapping from errors to response codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyKey is returned by the cipher primitives when a key normalizes
	// to zero length.
	ErrEmptyKey = errors.New("empty key")
	// ErrInsufficientSignal is returned by the cracker when the ciphertext
	// yields no repeated ngrams, no distances, or no candidate divisors, so
	// no key length can be inferred.
	ErrInsufficientSignal = errors.New("insufficient signal")

	ErrJobNotFound  = errors.New("job not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrTimeout      = errors.New("operation timed out")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyKey), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrInsufficientSignal):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
