package utils

import (
	"github.com/iov-one/escrowd"
)

// writeDecorator writes the given key/value pair to the store, either before
// or after calling down the stack.
type writeDecorator struct {
	key   []byte
	value []byte
	after bool
}

var _ escrowd.Decorator = writeDecorator{}

func (d writeDecorator) Check(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	if !d.after {
		if err := store.Set(d.key, d.value); err != nil {
			return nil, err
		}
	}
	res, err := next.Check(ctx, store, tx)
	if err == nil && d.after {
		err = store.Set(d.key, d.value)
	}
	return res, err
}

func (d writeDecorator) Deliver(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	if !d.after {
		if err := store.Set(d.key, d.value); err != nil {
			return nil, err
		}
	}
	res, err := next.Deliver(ctx, store, tx)
	if err == nil && d.after {
		err = store.Set(d.key, d.value)
	}
	return res, err
}
