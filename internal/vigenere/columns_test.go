package vigenere

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnLettersPicksMostFrequentPerColumn(t *testing.T) {
	// Period-3 text: column 0 dominated by Q, column 1 by R, column 2 by S.
	cipher := strings.Repeat("QRS", 10) + "ABC"
	rawKey, advisories := columnLetters(cipher, 3, slog.Default())

	assert.Equal(t, "QRS", rawKey)
	assert.Empty(t, advisories)
}

func TestColumnLettersTieResolvesToLowestLetter(t *testing.T) {
	// Key length 1 makes one column out of the whole text: Z and C tie with
	// two occurrences each, so C wins and the tie is reported.
	rawKey, advisories := columnLetters("ZCZC", 1, slog.Default())

	assert.Equal(t, "C", rawKey)
	require.Len(t, advisories, 1)
	assert.Equal(t, 0, advisories[0].Column)
	assert.Contains(t, advisories[0].Message, "2 letters tie")
}

func TestColumnLettersColumnLongerThanText(t *testing.T) {
	// Columns past the text's end see no letters at all; they fall back to
	// 'A' silently since a zero count is not an ambiguity worth reporting.
	rawKey, advisories := columnLetters("XY", 4, slog.Default())

	assert.Equal(t, "XYAA", rawKey)
	assert.Empty(t, advisories)
}
