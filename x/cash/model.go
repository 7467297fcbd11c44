package cash

import (
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the native asset balance of a single address.
type Wallet struct {
	Balance coin.Coin `protobuf:"bytes,1,opt,name=balance,proto3" json:"balance"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate requires a valid coin. An empty wallet may not carry a ticker.
func (w *Wallet) Validate() error {
	if w.Balance.IsZero() && w.Balance.Ticker == "" {
		return nil
	}
	if err := w.Balance.Validate(); err != nil {
		return errors.Wrap(err, "balance")
	}
	return nil
}

// Copy makes a new wallet with the same balance
func (w *Wallet) Copy() orm.CloneableData {
	return &Wallet{Balance: w.Balance}
}

// NewWalletBucket returns a bucket storing wallets keyed by the owner
// address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}
