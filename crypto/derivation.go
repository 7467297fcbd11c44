package crypto

import (
	"encoding/hex"

	"github.com/iov-one/escrowd/errors"
	"github.com/stellar/go/exp/crypto/derivation"
	"golang.org/x/crypto/ed25519"
)

// DerivePrivateKey creates a private key from a hex encoded seed. When path
// is not empty, the key is derived from the seed using SLIP-0010 ed25519
// derivation (for example "m/44'/234'/0'"). Without a path the seed must be
// a full hex encoded ed25519 private key.
func DerivePrivateKey(hexSeed, path string) (*PrivateKey, error) {
	seed, err := hex.DecodeString(hexSeed)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "seed is not hex encoded")
	}
	if path == "" {
		if len(seed) != ed25519.PrivateKeySize {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "private key must be %d bytes", ed25519.PrivateKeySize)
		}
		return &PrivateKey{Ed25519: seed}, nil
	}

	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "cannot derive key for path %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
