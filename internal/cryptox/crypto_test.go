package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A changed snapshot means existing accounts can no longer log in.
const masterKeySnapshot = "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39"

func TestDeriveMasterKey(t *testing.T) {
	pw := []byte("secret-password")

	key := DeriveMasterKey(pw, []byte("fixed-salt"))
	require.Len(t, key, 32)
	assert.Equal(t, masterKeySnapshot, hex.EncodeToString(key))
	assert.Equal(t, key, DeriveMasterKey(pw, []byte("fixed-salt")))

	assert.NotEqual(t, key, DeriveMasterKey(pw, []byte("other-salt")), "salt must matter")
	assert.NotEqual(t, key, DeriveMasterKey([]byte("secret-passwore"), []byte("fixed-salt")), "password must matter")
}

func TestMakeVerifier(t *testing.T) {
	mk := DeriveMasterKey([]byte("pw"), []byte("salt"))
	v1 := MakeVerifier(mk)
	v2 := MakeVerifier(mk)

	require.Len(t, v1, 32)
	assert.Equal(t, v1, v2)
	assert.NotEqual(t, mk, v1)
}

func TestVerifierMatches(t *testing.T) {
	a := MakeVerifier([]byte("a"))
	b := MakeVerifier([]byte("b"))

	tests := []struct {
		name string
		x, y []byte
		want bool
	}{
		{"equal", a, append([]byte(nil), a...), true},
		{"different", a, b, false},
		{"empty left", nil, a, false},
		{"empty right", a, nil, false},
		{"length mismatch", a, a[:16], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifierMatches(tt.x, tt.y))
		})
	}
}

func TestDerive(t *testing.T) {
	c := Derive([]byte("secret-password"), []byte("fixed-salt"))
	assert.Equal(t, masterKeySnapshot, hex.EncodeToString(c.MasterKey))
	assert.Equal(t, MakeVerifier(c.MasterKey), c.Verifier)

	c.Wipe()
	assert.Equal(t, make([]byte, 32), c.MasterKey)
	assert.Equal(t, make([]byte, 32), c.Verifier)
}
