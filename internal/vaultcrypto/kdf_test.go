package vaultcrypto

import (
	"bytes"
	stdpbkdf2 "crypto/pbkdf2"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSalt(b byte) []byte {
	return bytes.Repeat([]byte{b}, SaltSize)
}

func TestDeriveKey_Deterministic(t *testing.T) {
	k1, err := DeriveKey([]byte("correct-horse"), fixedSalt(7))
	require.NoError(t, err)
	k2, err := DeriveKey([]byte("correct-horse"), fixedSalt(7))
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.Len(t, k1, KeySize)
}

func TestDeriveKey_MatchesPBKDF2SHA256(t *testing.T) {
	salt := fixedSalt(0xA5)
	want, err := stdpbkdf2.Key(sha256.New, "correct-horse", salt, Iterations, KeySize)
	require.NoError(t, err)

	got, err := DeriveKey([]byte("correct-horse"), salt)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	base, err := DeriveKey([]byte("correct-horse"), fixedSalt(1))
	require.NoError(t, err)

	otherSalt, err := DeriveKey([]byte("correct-horse"), fixedSalt(2))
	require.NoError(t, err)
	otherPass, err := DeriveKey([]byte("wrong-horse"), fixedSalt(1))
	require.NoError(t, err)

	assert.NotEqual(t, base, otherSalt, "different salts must give different keys")
	assert.NotEqual(t, base, otherPass, "different passphrases must give different keys")
}

func TestDeriveKey_Validation(t *testing.T) {
	tests := []struct {
		name       string
		passphrase []byte
		salt       []byte
		want       error
	}{
		{name: "empty passphrase", passphrase: nil, salt: fixedSalt(0), want: ErrMissingPassphrase},
		{name: "short salt", passphrase: []byte("p"), salt: make([]byte, SaltSize-1), want: ErrInvalidMetadata},
		{name: "long salt", passphrase: []byte("p"), salt: make([]byte, SaltSize+1), want: ErrInvalidMetadata},
		{name: "nil salt", passphrase: []byte("p"), salt: nil, want: ErrInvalidMetadata},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := DeriveKey(tt.passphrase, tt.salt)
			assert.Nil(t, key)
			assert.True(t, errors.Is(err, tt.want), "want %v, got %v", tt.want, err)
		})
	}
}
