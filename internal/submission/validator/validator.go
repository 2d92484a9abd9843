// Package validator provides input validation for crack job submissions. It
// normalizes the ciphertext and enforces minimum and maximum length
// constraints, returning per-field error details.
package validator

import (
	"fmt"
	"strings"

	"github.com/cipherworks/cipher-analysis-platform/internal/submission"
	"github.com/cipherworks/cipher-analysis-platform/internal/vigenere"
)

// minTextLength matches the smallest ngram the repeat scan looks for; shorter
// texts cannot carry any Kasiski signal at all.
const minTextLength = vigenere.DefaultMinNgram

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s:%s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// ValidateSubmitRequest normalizes the request ciphertext and checks its
// length bounds. It returns the normalized text on success.
func ValidateSubmitRequest(req *submission.SubmitRequest, maxTextLength int) (string, error) {
	errs := make(map[string]string)

	normalized := vigenere.Normalize(req.Ciphertext)
	if len(normalized) == 0 {
		errs["ciphertext"] = "ciphertext contains no alphabetic characters"
	} else if len(normalized) < minTextLength {
		errs["ciphertext"] = fmt.Sprintf("ciphertext must contain at least %d letters", minTextLength)
	} else if maxTextLength > 0 && len(normalized) > maxTextLength {
		errs["ciphertext"] = fmt.Sprintf("ciphertext must be at most %d letters after normalization", maxTextLength)
	}

	if len(errs) > 0 {
		return "", &ValidationError{Fields: errs}
	}
	return normalized, nil
}
