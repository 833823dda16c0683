package seal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	var key [32]byte
	copy(key[:], "an example very very secret key.")
	box := New(key)

	a, err := box.Seal([]byte(`{"password":"Str0ng!Pass"}`))
	require.NoError(t, err)
	b, err := box.Seal([]byte(`{"password":"Str0ng!Pass"}`))
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "nonce must differ per seal")
	assert.NotContains(t, string(a), "Str0ng")

	plain, err := box.Open(a)
	require.NoError(t, err)
	assert.Equal(t, `{"password":"Str0ng!Pass"}`, string(plain))
}

func TestOpen_Rejects(t *testing.T) {
	var key [32]byte
	box := New(key)
	sealed, err := box.Seal([]byte("draft"))
	require.NoError(t, err)

	_, err = box.Open(sealed[:10])
	assert.ErrorIs(t, err, ErrOpen)

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xff
	_, err = box.Open(tampered)
	assert.ErrorIs(t, err, ErrOpen)

	var other [32]byte
	other[0] = 1
	_, err = New(other).Open(sealed)
	assert.ErrorIs(t, err, ErrOpen)
}
