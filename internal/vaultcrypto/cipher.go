package vaultcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/dmitrijs2005/tripvault/internal/common"
)

const (
	// IVSize is the AES-GCM nonce length.
	IVSize = 12
	// TagSize is the authentication tag GCM appends to every ciphertext.
	TagSize = 16
	// Version identifies this scheme (PBKDF2-SHA256 + AES-256-GCM) in the
	// encryption_version metadata field.
	Version = 1
)

// randReader is the entropy source; tests replace it.
var randReader io.Reader = rand.Reader

// Sealed is the output of Encrypt. IV and Salt are Base64 text ready to be
// stored as metadata next to the ciphertext's storage path.
type Sealed struct {
	Ciphertext []byte
	IV         string
	Salt       string
}

// Blob is decrypted document content. MimeType is whatever the caller passed
// to Decrypt; it is not authenticated by the cipher.
type Blob struct {
	Data     []byte
	MimeType string
}

// Encrypt seals plaintext under a key derived from passphrase. A fresh salt
// and IV are generated for every call.
//
// An empty passphrase is rejected before any randomness is drawn. A failing
// entropy source yields ErrCryptoUnavailable.
func Encrypt(plaintext, passphrase []byte) (*Sealed, error) {
	if len(passphrase) == 0 {
		return nil, ErrMissingPassphrase
	}

	salt, err := randomBytes(SaltSize)
	if err != nil {
		return nil, err
	}
	iv, err := randomBytes(IVSize)
	if err != nil {
		return nil, err
	}

	key, err := DeriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	return &Sealed{
		Ciphertext: aead.Seal(nil, iv, plaintext, nil),
		IV:         EncodeText(iv),
		Salt:       EncodeText(salt),
	}, nil
}

// Decrypt opens a ciphertext produced by Encrypt. iv and salt are the Base64
// values Encrypt returned.
//
// A wrong passphrase and a tampered ciphertext, IV or salt all produce
// ErrDecryptionFailed; no plaintext is returned in either case.
func Decrypt(ciphertext, passphrase []byte, iv, salt, mimeType string) (*Blob, error) {
	if len(passphrase) == 0 {
		return nil, ErrMissingPassphrase
	}

	rawIV, err := DecodeIV(iv)
	if err != nil {
		return nil, err
	}
	rawSalt, err := DecodeSalt(salt)
	if err != nil {
		return nil, err
	}

	key, err := DeriveKey(passphrase, rawSalt)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, rawIV, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return &Blob{Data: plaintext, MimeType: mimeType}, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}
	return aead, nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(randReader, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCryptoUnavailable, err)
	}
	return b, nil
}
