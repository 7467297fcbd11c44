package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Genesis is the part of a tendermint genesis file the application reads.
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState escrowd.Options `json:"app_state"`
}

func LoadGenesis(path string) (Genesis, error) {
	var gen Genesis
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "read genesis: %s", err)
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "decode genesis: %s", err)
	}
	return gen, nil
}

// ChainInitializers runs inits in order and stops at the first failure.
func ChainInitializers(inits ...escrowd.Initializer) escrowd.Initializer {
	return initializers(inits)
}

type initializers []escrowd.Initializer

func (all initializers) FromGenesis(opts escrowd.Options, db escrowd.KVStore) error {
	for _, init := range all {
		if err := init.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
