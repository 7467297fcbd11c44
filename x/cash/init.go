package cash

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/gconf"
)

// genesisKey holds the initial wallets in the app state.
const genesisKey = "cash"

// GenesisAccount is an initial wallet. Address is hex encoded.
type GenesisAccount struct {
	Address escrowd.Address `json:"address"`
	Balance coin.Coin       `json:"balance"`
}

// Initializer stores the cash configuration and the initial wallets.
type Initializer struct{}

var _ escrowd.Initializer = Initializer{}

func (Initializer) FromGenesis(opts escrowd.Options, db escrowd.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, confPkg, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	var accounts []GenesisAccount
	if err := opts.ReadOptions(genesisKey, &accounts); err != nil {
		return err
	}
	wallets := NewWalletBucket()
	for n, a := range accounts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
		if a.Balance.Ticker != conf.Ticker {
			return errors.Wrapf(errors.ErrCurrencyMismatch, "account %d: balance must be in %s", n, conf.Ticker)
		}
		if err := wallets.Has(db, a.Address); err == nil {
			return errors.Wrapf(errors.ErrDuplicate, "account %s", a.Address)
		}
		if err := wallets.Put(db, a.Address, &Wallet{Balance: a.Balance}); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
	}
	return nil
}
