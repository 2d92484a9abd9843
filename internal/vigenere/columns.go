package vigenere

import (
	"fmt"
	"log/slog"
)

// Advisory reports a diagnostic-only condition met while cracking. It never
// aborts the pipeline; the resolution it describes is deterministic.
type Advisory struct {
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// columnLetters performs the frequency analysis half of the crack: for each
// column c of the keyLength-periodic ciphertext it selects the most frequent
// letter of the subsequence cipher[c], cipher[c+L], cipher[c+2L], …
//
// A tie for the top count resolves to the lowest alphabet index and is
// surfaced as an advisory rather than an error.
func columnLetters(cipher string, keyLength int, log *slog.Logger) (string, []Advisory) {
	rawKey := make([]byte, keyLength)
	var advisories []Advisory

	for c := 0; c < keyLength; c++ {
		var counts [alphabetSize]int
		for i := c; i < len(cipher); i += keyLength {
			counts[cipher[i]-'A']++
		}

		top := 0
		ties := 0
		for letter := 0; letter < alphabetSize; letter++ {
			if counts[letter] > counts[top] {
				top = letter
				ties = 0
			} else if letter != top && counts[letter] == counts[top] {
				ties++
			}
		}
		rawKey[c] = Alphabet[top]

		if ties > 0 && counts[top] > 0 {
			advisories = append(advisories, Advisory{
				Column: c,
				Message: fmt.Sprintf("%d letters tie for most frequent; using %c",
					ties+1, Alphabet[top]),
			})
			log.Debug("ambiguous column frequency",
				"column", c,
				"tied_letters", ties+1,
				"chosen", string(Alphabet[top]),
				"count", counts[top],
			)
		}
	}
	return string(rawKey), advisories
}
