package cash

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/gconf"
)

const confPkg = "cash"

// Configuration of the ledger. Ticker names the native asset. Reserve is the
// minimal balance a custody account must hold on top of the custodied value.
// MinimalFee is charged per transaction and sent to the CollectorAddress.
type Configuration struct {
	Owner            escrowd.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	Ticker           string          `protobuf:"bytes,2,opt,name=ticker,proto3" json:"ticker"`
	Reserve          coin.Coin       `protobuf:"bytes,3,opt,name=reserve,proto3" json:"reserve"`
	MinimalFee       coin.Coin       `protobuf:"bytes,4,opt,name=minimal_fee,json=minimalFee,proto3" json:"minimal_fee"`
	CollectorAddress escrowd.Address `protobuf:"bytes,5,opt,name=collector_address,json=collectorAddress,proto3" json:"collector_address"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

// GetOwner returns the address allowed to update the configuration.
func (c *Configuration) GetOwner() escrowd.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	// owner field is optional, without it the configuration is immutable
	if len(c.Owner) != 0 {
		if err := c.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner address")
		}
	}
	if !coin.IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrencyMismatch, "invalid ticker %q", c.Ticker)
	}
	if len(c.CollectorAddress) == 0 {
		return errors.Wrap(errors.ErrInvalidState, "collector address missing")
	}
	if err := c.CollectorAddress.Validate(); err != nil {
		return errors.Wrap(err, "collector address")
	}
	if err := validateNative(c.Ticker, c.Reserve); err != nil {
		return errors.Wrap(err, "reserve")
	}
	if err := validateNative(c.Ticker, c.MinimalFee); err != nil {
		return errors.Wrap(err, "minimal fee")
	}
	return nil
}

// validateNative accepts a zero coin or a valid coin of the given ticker.
func validateNative(ticker string, c coin.Coin) error {
	if c.IsZero() && c.Ticker == "" {
		return nil
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Ticker != ticker {
		return errors.Wrapf(errors.ErrCurrencyMismatch, "%s is not %s", c.Ticker, ticker)
	}
	return nil
}

// LoadConfiguration returns the cash configuration stored in the database.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load cash configuration")
	}
	return &conf, nil
}

// NativeReserve returns the configured reserve expressed in the native
// ticker, zero if none is required.
func (c *Configuration) NativeReserve() coin.Coin {
	return coin.NewCoin(c.Reserve.Amount, c.Ticker)
}
