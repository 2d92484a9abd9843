package vigenere

// Default ngram bounds for the repeat scan. Wider bounds improve the signal
// on difficult texts at a steep cost in time and memory.
const (
	DefaultMinNgram = 3
	DefaultMaxNgram = 16
)

// findRepeats maps every substring of length minN..maxN that occurs at least
// twice in cipher to its ascending start positions.
//
// The scan visits each end index i and records every ngram ending there, so
// memory grows with the number of distinct substrings in the text. That is a
// documented operating characteristic, not a bound the scan enforces.
func findRepeats(cipher string, minN, maxN int) map[string][]int {
	occurrences := make(map[string][]int)
	for i := 0; i < len(cipher); i++ {
		for n := minN; n <= maxN; n++ {
			if n > i+1 {
				break
			}
			start := i - n + 1
			ngram := cipher[start : i+1]
			occurrences[ngram] = append(occurrences[ngram], start)
		}
	}

	for ngram, positions := range occurrences {
		if len(positions) < 2 {
			delete(occurrences, ngram)
		}
	}
	return occurrences
}
