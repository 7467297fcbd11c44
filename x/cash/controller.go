package cash

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
)

// CoinMover is an interface for moving coins between accounts.
type CoinMover interface {
	// MoveCoins is used to transfer funds from one account to another.
	MoveCoins(store escrowd.KVStore, src, dest escrowd.Address, amount coin.Coin) error
}

// Controller is the functionality needed by other extensions to work with
// the native asset ledger.
type Controller interface {
	CoinMover

	// Balance returns the amount held by given address. ErrNotFound is
	// returned if the address never held a wallet.
	Balance(store escrowd.KVStore, addr escrowd.Address) (coin.Coin, error)

	// IssueCoins creates new funds on the destination account.
	IssueCoins(store escrowd.KVStore, dest escrowd.Address, amount coin.Coin) error

	// Close moves the whole balance of the source account to the
	// destination account. The source wallet is kept with a zero balance.
	// The amount transferred is returned.
	Close(store escrowd.KVStore, src, dest escrowd.Address) (coin.Coin, error)
}

// BaseController is a simple implementation of the Controller interface.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the current balance of the given account.
func (c BaseController) Balance(store escrowd.KVStore, addr escrowd.Address) (coin.Coin, error) {
	var w Wallet
	if err := c.bucket.One(store, addr, &w); err != nil {
		return coin.Coin{}, errors.Wrapf(err, "wallet %s", addr)
	}
	return w.Balance, nil
}

// MoveCoins moves the given amount from src to dest. If src doesn't exist,
// or doesn't have sufficient coins, it fails.
func (c BaseController) MoveCoins(store escrowd.KVStore, src, dest escrowd.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive amount: %s", amount)
	}

	var sender Wallet
	switch err := c.bucket.One(store, src, &sender); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrInsufficientAmount, "empty account %s", src)
	default:
		return errors.Wrap(err, "sender")
	}
	if sender.Balance.IsZero() {
		return errors.Wrapf(errors.ErrInsufficientAmount, "empty account %s", src)
	}
	if !sender.Balance.SameType(amount) {
		return errors.Wrapf(errors.ErrCurrencyMismatch, "account holds %s, not %s", sender.Balance.Ticker, amount.Ticker)
	}

	left, err := sender.Balance.Subtract(amount)
	if err != nil {
		return errors.Wrap(err, "sender")
	}
	sender.Balance = left
	if err := c.bucket.Put(store, src, &sender); err != nil {
		return errors.Wrap(err, "save sender")
	}

	// Source and destination may be the same wallet, read it after the
	// sender update.
	return c.IssueCoins(store, dest, amount)
}

// IssueCoins attempts to add the given amount of coins to the destination
// address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(store escrowd.KVStore, dest escrowd.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive amount: %s", amount)
	}

	var recipient Wallet
	switch err := c.bucket.One(store, dest, &recipient); {
	case err == nil, errors.ErrNotFound.Is(err):
	default:
		return errors.Wrap(err, "recipient")
	}

	total, err := recipient.Balance.Add(amount)
	if err != nil {
		return errors.Wrap(err, "recipient")
	}
	recipient.Balance = total
	if err := c.bucket.Put(store, dest, &recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

// Close transfers everything held by src to dest.
func (c BaseController) Close(store escrowd.KVStore, src, dest escrowd.Address) (coin.Coin, error) {
	balance, err := c.Balance(store, src)
	if err != nil {
		return coin.Coin{}, err
	}
	if balance.IsZero() {
		return balance, nil
	}
	if err := c.MoveCoins(store, src, dest, balance); err != nil {
		return coin.Coin{}, err
	}
	return balance, nil
}
