package client

import (
	"encoding/hex"
	"encoding/json"
	"io/ioutil"
	"os"
	"strings"

	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
)

// KeyPerm is the file permissions for saved private keys
const KeyPerm = 0600

// GenPrivateKey creates a new random key.
func GenPrivateKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// DecodePrivateKey reads a hex string created by EncodePrivateKey.
// A non empty path derives a child key from the hex seed instead.
func DecodePrivateKey(hexKey, path string) (*crypto.PrivateKey, error) {
	return crypto.DerivePrivateKey(strings.TrimSpace(hexKey), path)
}

// EncodePrivateKey stores the private key as a hex string
// that can be saved and later loaded
func EncodePrivateKey(key *crypto.PrivateKey) string {
	return hex.EncodeToString(key.Ed25519)
}

// LoadPrivateKey will load a private key from a file,
// which was previously written by SavePrivateKey
func LoadPrivateKey(filename string) (*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "read key: %s", err)
	}
	return DecodePrivateKey(string(raw), "")
}

// SavePrivateKey will encode the private key in hex and write to
// the named file
//
// Refuses to overwrite a file unless force is true
func SavePrivateKey(key *crypto.PrivateKey, filename string, force bool) error {
	if err := canWrite(filename, force); err != nil {
		return err
	}
	return ioutil.WriteFile(filename, []byte(EncodePrivateKey(key)), KeyPerm)
}

// LoadPrivateKeys will load an array of private keys from a file,
// which was previously written by SavePrivateKeys
func LoadPrivateKeys(filename string) ([]*crypto.PrivateKey, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "read keys: %s", err)
	}
	var encoded []string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "decode keys: %s", err)
	}
	keys := make([]*crypto.PrivateKey, len(encoded))
	for i, hexKey := range encoded {
		keys[i], err = DecodePrivateKey(hexKey, "")
		if err != nil {
			return nil, errors.Wrapf(err, "key %d", i)
		}
	}
	return keys, nil
}

// SavePrivateKeys will encode an array of private keys
// as a json array of hex strings and write to the named file
//
// Refuses to overwrite a file unless force is true
func SavePrivateKeys(keys []*crypto.PrivateKey, filename string, force bool) error {
	if err := canWrite(filename, force); err != nil {
		return err
	}
	encoded := make([]string, len(keys))
	for i, k := range keys {
		encoded[i] = EncodePrivateKey(k)
	}
	data, err := json.Marshal(encoded)
	if err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	return ioutil.WriteFile(filename, data, KeyPerm)
}

// KeysByAddress takes a list of keys and creates a map
// to look up private keys by their (hex-encoded) address
func KeysByAddress(keys []*crypto.PrivateKey) map[string]*crypto.PrivateKey {
	res := make(map[string]*crypto.PrivateKey, len(keys))
	for _, k := range keys {
		res[k.PublicKey().Address().String()] = k
	}
	return res
}

func canWrite(filename string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(filename); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "refusing to overwrite %s", filename)
	}
	return nil
}
