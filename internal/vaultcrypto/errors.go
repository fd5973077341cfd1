package vaultcrypto

import "errors"

var (
	// ErrMissingPassphrase is returned when Encrypt, Decrypt or DeriveKey is
	// called with an empty passphrase. No randomness is drawn in that case.
	ErrMissingPassphrase = errors.New("missing passphrase")

	// ErrInvalidMetadata means the stored IV or salt could not be decoded to
	// the expected number of bytes.
	ErrInvalidMetadata = errors.New("invalid encryption metadata")

	// ErrDecryptionFailed covers every authentication failure: a wrong
	// passphrase and a corrupted or tampered ciphertext look the same.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrCryptoUnavailable means the host cannot provide secure randomness or
	// the cipher primitives. It is not retryable.
	ErrCryptoUnavailable = errors.New("cryptography unavailable")
)
