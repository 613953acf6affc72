// Package idgen generates the short alphanumeric ids used for tasks,
// programs, and vehicles.
//
// The source system generates these with Python's nanoid library
// (alphabet restricted to alphanumerics, size 10). No nanoid-equivalent
// package appears anywhere in the retrieved example corpus, so this is
// implemented directly on crypto/rand: the output format is simple
// enough (a fixed alphabet, fixed length) that a dependency would add
// nothing a dozen lines of stdlib doesn't already give us.
package idgen

import (
	"crypto/rand"
	"fmt"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	length   = 10
)

// New returns a random 10-character alphanumeric id.
func New() string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is
		// unavailable, which would make the whole process unusable
		// anyway.
		panic(fmt.Sprintf("idgen: entropy source unavailable: %v", err))
	}

	id := make([]byte, length)
	for i, b := range buf {
		id[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(id)
}
