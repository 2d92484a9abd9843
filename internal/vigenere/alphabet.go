// Package vigenere recovers the key and plaintext of a Vigenère-enciphered
// text from the ciphertext alone. Key length inference uses the Kasiski
// examination (distances between repeated ngrams, ranked by divisor
// frequency); key recovery uses per-column letter frequency analysis against
// an assumed most common plaintext letter.
//
// The pipeline is pure and synchronous: Crack blocks until it finishes or
// fails, owns every intermediate structure exclusively, and never changes
// its answer based on the logger it is given.
package vigenere

// Alphabet is the fixed 26-symbol working alphabet. Every input is
// normalized into it before analysis.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const alphabetSize = len(Alphabet)

// Normalize projects arbitrary text onto the working alphabet: ASCII letters
// are uppercased, everything else is dropped.
func Normalize(text string) string {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'A' && c <= 'Z':
			out = append(out, c)
		case c >= 'a' && c <= 'z':
			out = append(out, c-'a'+'A')
		}
	}
	return string(out)
}
