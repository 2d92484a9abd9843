package vigenere

import (
	"fmt"

	apperrors "github.com/cipherworks/cipher-analysis-platform/pkg/errors"
)

// Encrypt enciphers plain with the repeating key. Both inputs are normalized
// first; the output position i is alphabet[(plain[i] + key[i mod len]) mod 26].
func Encrypt(plain, key string) (string, error) {
	return shift(plain, key, 1)
}

// Decrypt is the inverse of Encrypt: the key offset is subtracted instead of
// added.
func Decrypt(cipher, key string) (string, error) {
	return shift(cipher, key, -1)
}

// shift applies the repeating-key Caesar shift in the given direction
// (+1 encrypt, -1 decrypt). A key that normalizes to zero length is rejected
// explicitly; indexing it modulo its length would otherwise fault.
func shift(text, key string, direction int) (string, error) {
	text = Normalize(text)
	key = Normalize(key)
	if len(key) == 0 {
		return "", fmt.Errorf("%w: key has no alphabetic characters", apperrors.ErrEmptyKey)
	}

	offsets := make([]int, len(key))
	for i := 0; i < len(key); i++ {
		offsets[i] = int(key[i] - 'A')
	}

	out := make([]byte, len(text))
	for i := 0; i < len(text); i++ {
		o := direction * offsets[i%len(offsets)]
		out[i] = byte((int(text[i]-'A')+o+alphabetSize)%alphabetSize) + 'A'
	}
	return string(out), nil
}
