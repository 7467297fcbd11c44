package app

import (
	"reflect"

	"github.com/iov-one/escrowd"
)

// Decorators is a stack of decorators waiting for its final handler. The
// first decorator is the outermost one.
type Decorators struct {
	stack []escrowd.Decorator
}

// ChainDecorators starts a stack. A typical application builds
//
//   app.ChainDecorators(
//     utils.NewLogging(),
//     utils.NewRecovery(),
//     sigs.NewDecorator(),
//     cash.NewFeeDecorator(auth, ctrl),
//   ).WithHandler(router)
//
// Nil decorators are skipped, so optional ones can be passed as nil.
func ChainDecorators(ds ...escrowd.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a new stack with ds appended below the current ones.
func (d Decorators) Chain(ds ...escrowd.Decorator) Decorators {
	stack := make([]escrowd.Decorator, 0, len(d.stack)+len(ds))
	stack = append(stack, d.stack...)
	stack = append(stack, cutoffNil(ds)...)
	return Decorators{stack: stack}
}

// cutoffNil drops nil values, including typed nil pointers, reusing the
// backing array of ds.
func cutoffNil(ds []escrowd.Decorator) []escrowd.Decorator {
	kept := ds[:0]
	for _, d := range ds {
		if d == nil {
			continue
		}
		if v := reflect.ValueOf(d); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// WithHandler closes the stack with h.
func (d Decorators) WithHandler(h escrowd.Handler) escrowd.Handler {
	for i := len(d.stack) - 1; i >= 0; i-- {
		h = layer{dec: d.stack[i], next: h}
	}
	return h
}

// layer runs one decorator around the rest of the stack.
type layer struct {
	dec  escrowd.Decorator
	next escrowd.Handler
}

func (l layer) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l layer) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
