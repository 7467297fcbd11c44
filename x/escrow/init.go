package escrow

import (
	"encoding/hex"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/gconf"
	"github.com/iov-one/escrowd/x/cash"
)

// GenesisEscrow describes an escrow that exists from the first block. Its
// custody is issued, not taken from the initializer.
type GenesisEscrow struct {
	EscrowID    string          `json:"escrow_id"`
	Initializer escrowd.Address `json:"initializer"`
	Recipient   escrowd.Address `json:"recipient"`
	Amount      coin.Coin       `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from the genesis
// file.
type Initializer struct {
	Minter cash.Controller
}

var _ escrowd.Initializer = (*Initializer)(nil)

// FromGenesis stores the optional escrow configuration and all genesis
// escrows.
func (i *Initializer) FromGenesis(opts escrowd.Options, db escrowd.KVStore) error {
	var conf Configuration
	switch err := gconf.InitConfig(db, opts, confPkg, &conf); {
	case err == nil, errors.ErrNotFound.Is(err):
	default:
		return errors.Wrap(err, "init config")
	}

	var escrows []GenesisEscrow
	if err := opts.ReadOptions("escrow", &escrows); err != nil {
		return err
	}
	if len(escrows) == 0 {
		return nil
	}

	cashConf, err := cash.LoadConfiguration(db)
	if err != nil {
		return errors.Wrap(err, "genesis escrows require cash configuration")
	}
	ctrl := newController(i.Minter, NewBucket())
	for j, ge := range escrows {
		handle, err := hex.DecodeString(ge.EscrowID)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "escrow %d: handle: %s", j, err)
		}
		if err := ValidateHandle(handle); err != nil {
			return errors.Wrapf(err, "escrow %d", j)
		}
		esc := &Escrow{
			Initializer: ge.Initializer,
			Recipient:   ge.Recipient,
			Amount:      ge.Amount,
			Address:     Condition(handle).Address(),
		}
		if err := esc.Validate(); err != nil {
			return errors.Wrapf(err, "escrow %d", j)
		}
		if esc.Amount.Ticker != cashConf.Ticker {
			return errors.Wrapf(errors.ErrCurrencyMismatch, "escrow %d must hold %s", j, cashConf.Ticker)
		}
		// The custody address may already hold funds exported from a
		// previous chain, only the record must be new.
		switch err := ctrl.bucket.Has(db, handle); {
		case err == nil:
			return errors.Wrapf(errors.ErrDuplicate, "escrow %d", j)
		case !errors.ErrNotFound.Is(err):
			return errors.Wrapf(err, "escrow %d", j)
		}
		custody, err := esc.Amount.Add(cashConf.NativeReserve())
		if err != nil {
			return errors.Wrapf(err, "escrow %d", j)
		}
		if err := ctrl.bucket.Put(db, handle, esc); err != nil {
			return errors.Wrapf(err, "escrow %d", j)
		}
		if err := i.Minter.IssueCoins(db, esc.Address, custody); err != nil {
			return errors.Wrapf(err, "escrow %d: issue custody", j)
		}
	}
	return nil
}
