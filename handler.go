package escrowd

import (
	"encoding/json"

	"github.com/iov-one/escrowd/errors"
)

// Checker decides if a transaction may enter the mempool. It must not
// leave any change in the store it was given.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer applies a transaction included in a block.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Handler processes the messages of one route, for example
// "escrow/release".
type Handler interface {
	Checker
	Deliverer
}

// Decorator runs around the next handler of the stack. Signature
// verification and fee collection are decorators.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds message paths to handlers.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the app_state section of the genesis file. Every extension
// reads its own key.
type Options map[string]json.RawMessage

// ReadOptions decodes the JSON stored under key into obj. A missing key
// leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(err, "genesis %q", key)
	}
	return nil
}

// Initializer loads the genesis state of one extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
