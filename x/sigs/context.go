package sigs

import (
	"context"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/x"
)

type signersKey struct{}

// withSigners is only called by the Decorator, after every signature was
// verified.
func withSigners(ctx escrowd.Context, signers []escrowd.Condition) escrowd.Context {
	return context.WithValue(ctx, signersKey{}, signers)
}

// Authenticate reports the signers verified by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions lists the signers in signature order. The first one is the
// main signer.
func (Authenticate) GetConditions(ctx escrowd.Context) []escrowd.Condition {
	signers, _ := ctx.Value(signersKey{}).([]escrowd.Condition)
	return signers
}

func (a Authenticate) HasAddress(ctx escrowd.Context, addr escrowd.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
