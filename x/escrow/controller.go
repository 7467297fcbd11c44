package escrow

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
	"github.com/iov-one/escrowd/x/cash"
)

// controller moves funds between the parties and the custodial account and
// keeps the record in sync with the balances.
type controller struct {
	cash   cash.Controller
	bucket orm.ModelBucket
}

func newController(ctrl cash.Controller, bucket orm.ModelBucket) *controller {
	return &controller{
		cash:   ctrl,
		bucket: bucket,
	}
}

// ensureUnused fails with ErrDuplicate if the handle was ever used. A closed
// escrow leaves an empty custodial wallet behind, which marks the handle.
func (c *controller) ensureUnused(db escrowd.KVStore, handle []byte) error {
	switch err := c.bucket.Has(db, handle); {
	case err == nil:
		return errors.Wrap(errors.ErrDuplicate, "escrow exists")
	case !errors.ErrNotFound.Is(err):
		return errors.Wrap(err, "escrow lookup")
	}
	switch _, err := c.cash.Balance(db, Condition(handle).Address()); {
	case err == nil:
		return errors.Wrap(errors.ErrDuplicate, "escrow handle already used")
	case !errors.ErrNotFound.Is(err):
		return errors.Wrap(err, "custody lookup")
	}
	return nil
}

// deposit stores the record and moves custody from the initializer.
func (c *controller) deposit(db escrowd.KVStore, handle []byte, esc *Escrow, custody coin.Coin) error {
	if err := c.bucket.Put(db, handle, esc); err != nil {
		return errors.Wrap(err, "cannot store escrow")
	}
	if err := c.cash.MoveCoins(db, esc.Initializer, esc.Address, custody); err != nil {
		return errors.Wrap(err, "cannot deposit")
	}
	return nil
}

// release pays the recorded amount to the recipient and returns the rest of
// the custody to the initializer. The record is removed.
func (c *controller) release(db escrowd.KVStore, handle []byte, esc *Escrow) error {
	esc.Released = true
	if err := c.bucket.Put(db, handle, esc); err != nil {
		return errors.Wrap(err, "cannot mark released")
	}
	if err := c.cash.MoveCoins(db, esc.Address, esc.Recipient, esc.Amount); err != nil {
		return errors.Wrap(err, "cannot pay recipient")
	}
	if _, err := c.cash.Close(db, esc.Address, esc.Initializer); err != nil {
		return errors.Wrap(err, "cannot return reserve")
	}
	return c.bucket.Delete(db, handle)
}

// refund returns the whole custody to the initializer. The record is
// removed.
func (c *controller) refund(db escrowd.KVStore, handle []byte, esc *Escrow) (coin.Coin, error) {
	refunded, err := c.cash.Close(db, esc.Address, esc.Initializer)
	if err != nil {
		return coin.Coin{}, errors.Wrap(err, "cannot refund")
	}
	if err := c.bucket.Delete(db, handle); err != nil {
		return coin.Coin{}, err
	}
	return refunded, nil
}
