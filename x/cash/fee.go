package cash

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x"
)

// FeeDecorator charges the fee declared by a FeeTx before the message is
// processed and sends it to the collector address of the configuration.
//
// The fee must be in the configured ticker and at least the configured
// minimal fee. A zero minimal fee makes the fee optional. The payer
// defaults to the main signer and must always sign.
type FeeDecorator struct {
	auth  x.Authenticator
	mover CoinMover
}

var _ escrowd.Decorator = FeeDecorator{}

func NewFeeDecorator(auth x.Authenticator, mover CoinMover) FeeDecorator {
	return FeeDecorator{auth: auth, mover: mover}
}

func (d FeeDecorator) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	if err := d.charge(ctx, db, tx); err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (d FeeDecorator) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	if err := d.charge(ctx, db, tx); err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func (d FeeDecorator) charge(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) error {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return err
	}
	info := d.declared(ctx, tx)
	fee := info.GetFees()
	if coin.IsEmpty(fee) {
		if conf.MinimalFee.IsZero() {
			return nil
		}
		return errors.Wrapf(errors.ErrInsufficientAmount, "minimal fee is %s", conf.MinimalFee)
	}

	if err := info.Validate(); err != nil {
		return err
	}
	if fee.Ticker != conf.Ticker {
		return errors.Wrapf(errors.ErrCurrencyMismatch, "fee must be paid in %s", conf.Ticker)
	}
	if !conf.MinimalFee.IsZero() && !fee.IsGTE(conf.MinimalFee) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "fee %s below minimal %s", fee, conf.MinimalFee)
	}
	if err := x.RequireSigner(ctx, d.auth, info.Payer, "fee payer"); err != nil {
		return err
	}
	if err := d.mover.MoveCoins(db, info.Payer, conf.CollectorAddress, *fee); err != nil {
		return errors.Wrap(err, "pay fee")
	}
	return nil
}

// declared returns the fee of tx with the payer filled in, or nil for a
// transaction without fee information.
func (d FeeDecorator) declared(ctx escrowd.Context, tx escrowd.Tx) *FeeInfo {
	ftx, ok := tx.(FeeTx)
	if !ok || ftx.GetFees() == nil {
		return nil
	}
	var payer escrowd.Address
	if signer := x.MainSigner(ctx, d.auth); signer != nil {
		payer = signer.Address()
	}
	return ftx.GetFees().DefaultPayer(payer)
}
