package vaultcrypto

import (
	"encoding/base64"
	"fmt"
)

// EncodeText encodes raw bytes (an IV or a salt) as standard Base64 so it can
// be stored in an ordinary text column.
func EncodeText(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeText reverses EncodeText.
func DecodeText(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// DecodeIV decodes a stored IV and checks its length. Only the exact text
// EncodeText produces is accepted, so one IV has one spelling.
func DecodeIV(s string) ([]byte, error) {
	return decodeSized(s, IVSize, "iv")
}

// DecodeSalt decodes a stored salt and checks its length. Like DecodeIV it
// rejects non-canonical Base64.
func DecodeSalt(s string) ([]byte, error) {
	return decodeSized(s, SaltSize, "salt")
}

func decodeSized(s string, size int, name string) ([]byte, error) {
	b, err := DecodeText(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid base64", ErrInvalidMetadata, name)
	}
	if len(b) != size {
		return nil, fmt.Errorf("%w: %s must be %d bytes, got %d", ErrInvalidMetadata, name, size, len(b))
	}
	// The decoder skips \r and \n and ignores trailing padding bits.
	if EncodeText(b) != s {
		return nil, fmt.Errorf("%w: %s is not canonical base64", ErrInvalidMetadata, name)
	}
	return b, nil
}
