package client

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "escrowd-keys")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	key := GenPrivateKey()
	single := filepath.Join(dir, "key.priv")
	require.NoError(t, SavePrivateKey(key, single, false))

	loaded, err := LoadPrivateKey(single)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey().Address(), loaded.PublicKey().Address())

	err = SavePrivateKey(GenPrivateKey(), single, false)
	assert.True(t, errors.ErrDuplicate.Is(err))
	require.NoError(t, SavePrivateKey(GenPrivateKey(), single, true))

	keys := []*crypto.PrivateKey{GenPrivateKey(), GenPrivateKey()}
	multi := filepath.Join(dir, "keys.json")
	require.NoError(t, SavePrivateKeys(keys, multi, false))
	loadedKeys, err := LoadPrivateKeys(multi)
	require.NoError(t, err)
	require.Len(t, loadedKeys, 2)

	byAddr := KeysByAddress(loadedKeys)
	for _, k := range keys {
		got, ok := byAddr[k.PublicKey().Address().String()]
		require.True(t, ok)
		assert.Equal(t, k.Ed25519, got.Ed25519)
	}
}

func TestDecodePrivateKey(t *testing.T) {
	key := GenPrivateKey()
	decoded, err := DecodePrivateKey(EncodePrivateKey(key)+"\n", "")
	require.NoError(t, err)
	assert.Equal(t, key.Ed25519, decoded.Ed25519)

	_, err = DecodePrivateKey("zz", "")
	assert.True(t, errors.ErrInvalidInput.Is(err))

	// a 32 byte seed derives a different key for each path
	seed := "000102030405060708090a0b0c0d0e0f000102030405060708090a0b0c0d0e0f"
	a, err := DecodePrivateKey(seed, "m/44'/234'/0'")
	require.NoError(t, err)
	b, err := DecodePrivateKey(seed, "m/44'/234'/1'")
	require.NoError(t, err)
	assert.NotEqual(t, a.PublicKey().Address(), b.PublicKey().Address())
}
