package vigenere

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cipherworks/cipher-analysis-platform/pkg/errors"
)

func TestDivisorScoreMonotone(t *testing.T) {
	prev := divisorScore(1)
	for f := 2; f <= 1000; f++ {
		score := divisorScore(f)
		assert.Greater(t, score, prev, "score not increasing at frequency %d", f)
		prev = score
	}
}

func TestSelectKeyLengthPicksHighestFrequency(t *testing.T) {
	freqs := map[int]int{
		2: 10,
		3: 25,
		5: 7,
	}
	sel, err := selectKeyLength(freqs, 30, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, 3, sel.keyLength)
	assert.Equal(t, 25, sel.frequency)
	assert.Equal(t, 3, sel.uniqueCount)
	assert.Equal(t, 42, sel.observations)
	assert.InDelta(t, 25.0/30.0, sel.confidence, 1e-12)
}

func TestSelectKeyLengthTieResolvesToSmallestDivisor(t *testing.T) {
	freqs := map[int]int{
		9: 12,
		4: 12,
		6: 12,
	}
	sel, err := selectKeyLength(freqs, 20, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, 4, sel.keyLength)
}

func TestSelectKeyLengthEmptyTable(t *testing.T) {
	_, err := selectKeyLength(map[int]int{}, 0, slog.Default())
	require.ErrorIs(t, err, apperrors.ErrInsufficientSignal)
}
