package vaultcrypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the number of random salt bytes mixed into key derivation.
	SaltSize = 16
	// KeySize is the derived key length (AES-256).
	KeySize = 32
	// Iterations is the PBKDF2 round count. Changing it requires a new Version.
	Iterations = 100_000
)

// DeriveKey turns a passphrase and a 16-byte salt into a 256-bit AES key using
// PBKDF2-HMAC-SHA256 with Iterations rounds.
//
// The same (passphrase, salt) pair always yields the same key, which is why
// the salt is persisted with the document. The caller owns the returned slice
// and should wipe it once the single cipher operation is done.
func DeriveKey(passphrase, salt []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrMissingPassphrase
	}
	if len(salt) != SaltSize {
		return nil, ErrInvalidMetadata
	}

	return pbkdf2.Key(passphrase, salt, Iterations, KeySize, sha256.New), nil
}
