package utils

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Savepoint runs the rest of the chain on a cache of the store. The cache
// is written back only when the chain succeeds, so a failed transaction
// leaves no partial state such as moved coins without an escrow.
//
// The zero value does nothing. Enable it per phase with OnCheck and
// OnDeliver.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ escrowd.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (res *escrowd.CheckResult, err error) {
	err = s.isolate(s.onCheck, db, func(inner escrowd.KVStore) (err error) {
		res, err = next.Check(ctx, inner, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (res *escrowd.DeliverResult, err error) {
	err = s.isolate(s.onDeliver, db, func(inner escrowd.KVStore) (err error) {
		res, err = next.Deliver(ctx, inner, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isolate runs fn on a cache wrapped store when enabled and the store
// supports it. Writes reach the parent only if fn succeeds.
func (Savepoint) isolate(enabled bool, db escrowd.KVStore, fn func(escrowd.KVStore) error) error {
	cacheable, ok := db.(escrowd.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}

	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
