package vigenere

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRepeats(t *testing.T) {
	// "ABCXXABCYYABC": "ABC" at 0, 5, 10; "BC" is below the min length.
	repeats := findRepeats("ABCXXABCYYABC", 3, 5)

	require.Contains(t, repeats, "ABC")
	assert.Equal(t, []int{0, 5, 10}, repeats["ABC"])

	for ngram, positions := range repeats {
		assert.GreaterOrEqual(t, len(ngram), 3, "ngram %q below min length", ngram)
		assert.LessOrEqual(t, len(ngram), 5, "ngram %q above max length", ngram)
		assert.GreaterOrEqual(t, len(positions), 2, "ngram %q kept with a single occurrence", ngram)
		assert.True(t, sort.IntsAreSorted(positions), "positions of %q not ascending", ngram)
	}
}

func TestFindRepeatsNoRepetition(t *testing.T) {
	assert.Empty(t, findRepeats("ABCDEFGHIJ", 3, 16))
}

func TestFindRepeatsTextShorterThanMinNgram(t *testing.T) {
	assert.Empty(t, findRepeats("AB", 3, 16))
}

func TestPairDistancesAllPairs(t *testing.T) {
	repeats := map[string][]int{
		"ABC": {0, 10, 25, 45},
	}
	distances := pairDistances(repeats)

	// 4 positions yield 4*3/2 = 6 pairs.
	require.Len(t, distances, 6)
	sort.Ints(distances)
	assert.Equal(t, []int{10, 15, 20, 25, 35, 45}, distances)
}

func TestPairDistancesMultipleNgrams(t *testing.T) {
	repeats := map[string][]int{
		"ABC": {0, 12},
		"XYZ": {3, 9, 21},
	}
	distances := pairDistances(repeats)

	// 2*1/2 + 3*2/2 = 1 + 3 pairs.
	require.Len(t, distances, 4)
	for _, d := range distances {
		assert.Positive(t, d)
	}
}

func TestPrimeFactors(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{2, []int{2}},
		{7, []int{7}},
		{12, []int{2, 2, 3}},
		{360, []int{2, 2, 2, 3, 3, 5}},
		{97, []int{97}},
		{1024, []int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, primeFactors(tc.n), "n=%d", tc.n)
	}
}

func TestFactorCacheMemoizes(t *testing.T) {
	cache := make(factorCache)
	first := cache.factors(360)
	assert.Equal(t, []int{2, 2, 2, 3, 3, 5}, first)

	// A second lookup must return the cached slice.
	second := cache.factors(360)
	assert.Same(t, &first[0], &second[0])
}

func TestProperDivisors(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{2, nil},          // prime: only 1 and itself
		{4, []int{2}},
		{12, []int{2, 3, 4, 6}},
		{30, []int{2, 3, 5, 6, 10, 15}},
		{36, []int{2, 3, 4, 6, 9, 12, 18}},
	}
	for _, tc := range tests {
		got := properDivisors(tc.n, primeFactors(tc.n))
		sort.Ints(got)
		if tc.want == nil {
			assert.Empty(t, got, "n=%d", tc.n)
			continue
		}
		assert.Equal(t, tc.want, got, "n=%d", tc.n)
	}
}

func TestDivisorFrequencies(t *testing.T) {
	freqs := divisorFrequencies([]int{12, 12, 18}, make(factorCache))

	// 12 contributes {2,3,4,6} twice; 18 contributes {2,3,6,9} once.
	assert.Equal(t, 3, freqs[2])
	assert.Equal(t, 3, freqs[3])
	assert.Equal(t, 2, freqs[4])
	assert.Equal(t, 3, freqs[6])
	assert.Equal(t, 1, freqs[9])

	// Neither 1 nor a distance's own value is ever counted for it.
	assert.NotContains(t, freqs, 1)
	assert.NotContains(t, freqs, 12)
	assert.NotContains(t, freqs, 18)
}

func TestDivisorFrequenciesSkipsDegenerateDistances(t *testing.T) {
	assert.Empty(t, divisorFrequencies([]int{0, 1}, make(factorCache)))

	// Primes have no proper divisors beyond 1 and themselves.
	assert.Empty(t, divisorFrequencies([]int{7, 13}, make(factorCache)))
}
