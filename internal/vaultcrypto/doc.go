// Package vaultcrypto encrypts and decrypts vault documents on the client.
//
// A document is sealed with AES-256-GCM under a key derived from a
// user-supplied passphrase with PBKDF2-HMAC-SHA256. Every call to Encrypt
// draws a fresh salt and IV, so the same file sealed twice with the same
// passphrase yields unrelated ciphertexts. The salt and IV are returned as
// Base64 text so callers can persist them next to the blob's storage path.
//
// Nothing in this package keeps state between calls. Keys live only for the
// duration of a single Encrypt or Decrypt and are zeroed before returning.
//
//	sealed, err := vaultcrypto.Encrypt(fileBytes, passphrase)
//	if err != nil {
//	    return err
//	}
//	// upload sealed.Ciphertext, persist sealed.IV and sealed.Salt
//
//	blob, err := vaultcrypto.Decrypt(ciphertext, passphrase, iv, salt, "application/pdf")
//	if errors.Is(err, vaultcrypto.ErrDecryptionFailed) {
//	    // wrong passphrase or corrupted file
//	}
package vaultcrypto
