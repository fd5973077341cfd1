package common

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// MakeRandHexString returns size random bytes hex-encoded (2*size chars).
// Refresh tokens are built this way.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("random token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateRandByteArray returns size bytes from crypto/rand, for salts and
// IVs. It panics if the system entropy source is unavailable.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray zeroes every buffer passed to it. Passwords, passphrases,
// derived keys and decrypted documents go through here once they are no
// longer needed. Nil buffers are skipped.
func WipeByteArray(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
	}
}
