// Package cryptids generates short random identifiers from a fixed alphabet.
package cryptids

import (
	"crypto/rand"
	"errors"
)

var (
	IDAlphabet = "bcdfghjklmnpqrstvwxyZBCDFGHJKLMNPQRSTVWXYZ0123456789"
	IDLength   = 18
)

// GenerateID creates a random string using IDAlphabet and IDLength.
func GenerateID() (string, error) {
	return GenerateCustomID(IDAlphabet, IDLength)
}

// GenerateCustomID creates a random string of size characters drawn from alphabet.
// Bytes are masked to the next power of two and out of range values are
// rejected so every character is equally likely.
func GenerateCustomID(alphabet string, size int) (string, error) {
	if len(alphabet) < 2 || len(alphabet) > 256 {
		return "", errors.New("alphabet must contain between 2 and 256 characters")
	}
	if size < 1 {
		return "", errors.New("size must be at least 1")
	}

	mask := 1
	for mask < len(alphabet)-1 {
		mask = mask<<1 | 1
	}

	id := make([]byte, 0, size)
	buf := make([]byte, size+size/2+1)
	for len(id) < size {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			idx := int(b) & mask
			if idx >= len(alphabet) {
				continue
			}
			id = append(id, alphabet[idx])
			if len(id) == size {
				break
			}
		}
	}

	return string(id), nil
}
