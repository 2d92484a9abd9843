package vigenere

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	apperrors "github.com/cipherworks/cipher-analysis-platform/pkg/errors"
)

// selection is the outcome of key length inference.
type selection struct {
	keyLength    int
	frequency    int
	confidence   float64
	uniqueCount  int
	observations int
}

// divisorScore weights a divisor by its frequency f. The expression reduces
// algebraically to 500·ln(0.1f+0.8), a function of f alone and monotonically
// increasing in it, so ranking by score is ranking by raw frequency. The
// divisor's own magnitude plays no role; that matches the original analysis
// and is preserved deliberately.
func divisorScore(freq int) float64 {
	f := float64(freq)
	return f * (50 * math.Log(0.1*f+0.8) * (10 / f))
}

// selectKeyLength picks the divisor with the maximal score. Divisors are
// visited in ascending value, so a tie resolves to the smallest divisor and
// the choice is reproducible. confidence is frequency(selected)/distLen, a
// heuristic strength indicator rather than a calibrated probability.
func selectKeyLength(freqs map[int]int, distLen int, log *slog.Logger) (selection, error) {
	if len(freqs) == 0 {
		return selection{}, fmt.Errorf("%w: no distance produced a qualifying divisor", apperrors.ErrInsufficientSignal)
	}

	divisors := make([]int, 0, len(freqs))
	for d := range freqs {
		divisors = append(divisors, d)
	}
	sort.Ints(divisors)

	sel := selection{uniqueCount: len(divisors)}
	best := math.Inf(-1)
	for _, d := range divisors {
		freq := freqs[d]
		sel.observations += freq
		score := divisorScore(freq)
		log.Debug("divisor scored", "divisor", d, "frequency", freq, "score", score)
		if score > best {
			best = score
			sel.keyLength = d
			sel.frequency = freq
		}
	}
	sel.confidence = float64(sel.frequency) / float64(distLen)

	log.Debug("key length selected",
		"key_length", sel.keyLength,
		"frequency", sel.frequency,
		"unique_divisors", sel.uniqueCount,
		"divisor_observations", sel.observations,
		"confidence", sel.confidence,
	)
	return sel, nil
}
