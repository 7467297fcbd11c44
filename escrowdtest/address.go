package escrowdtest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/crypto"
	"github.com/stretchr/testify/require"
)

// NewKey generates an ed25519 key for a test signer.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition is the signature condition of a new key, for tests that
// never sign.
func NewCondition() escrowd.Condition {
	return NewKey().PublicKey().Condition()
}

// RandomAddr returns a random, valid address.
func RandomAddr(t testing.TB) escrowd.Address {
	t.Helper()
	addr := escrowd.Address(randomBytes(t, escrowd.AddressLength))
	require.NoError(t, addr.Validate())
	return addr
}

// RandomHandle returns a random escrow handle.
func RandomHandle(t testing.TB) []byte {
	return randomBytes(t, 32)
}

func randomBytes(t testing.TB, n int) []byte {
	t.Helper()
	raw := make([]byte, n)
	_, err := rand.Read(raw)
	require.NoError(t, err)
	return raw
}
