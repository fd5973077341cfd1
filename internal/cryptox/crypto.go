// Package cryptox holds the account-level key material used for login:
// an Argon2id master key derived from the account password and a SHA-256
// verifier the server stores instead of the password.
//
// Document encryption lives in vaultcrypto and never uses the master key.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing any of them locks every existing account out.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// MakeVerifier returns the value sent to the server at registration and
// login. It is a one-way function of the master key.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey stretches the account password with the account salt.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifierMatches compares two verifiers in constant time.
func VerifierMatches(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Credentials is the login key material derived from one password and salt.
type Credentials struct {
	MasterKey []byte
	Verifier  []byte
}

// Derive computes the master key and its verifier.
func Derive(password, salt []byte) *Credentials {
	mk := DeriveMasterKey(password, salt)
	return &Credentials{MasterKey: mk, Verifier: MakeVerifier(mk)}
}

// Wipe zeroes both keys.
func (c *Credentials) Wipe() {
	clear(c.MasterKey)
	clear(c.Verifier)
}
