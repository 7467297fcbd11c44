package x

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Authenticator tells a handler which conditions the current transaction
// fulfils. Handlers receive it in their constructor and never look at
// signatures themselves.
type Authenticator interface {
	GetConditions(escrowd.Context) []escrowd.Condition
	HasAddress(escrowd.Context, escrowd.Address) bool
}

// MultiAuth merges the answers of several authenticators.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth{}

// ChainAuth returns an authenticator that accepts what any of auths
// accepts.
func ChainAuth(auths ...Authenticator) MultiAuth {
	return MultiAuth(auths)
}

// GetConditions lists the conditions of every authenticator in order,
// each condition once.
func (m MultiAuth) GetConditions(ctx escrowd.Context) []escrowd.Condition {
	var all []escrowd.Condition
	for _, auth := range m {
	next:
		for _, c := range auth.GetConditions(ctx) {
			for _, seen := range all {
				if seen.Equals(c) {
					continue next
				}
			}
			all = append(all, c)
		}
	}
	return all
}

func (m MultiAuth) HasAddress(ctx escrowd.Context, addr escrowd.Address) bool {
	for _, auth := range m {
		if auth.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner is the first condition of the transaction, the one that pays
// fees and initializes escrows by default. It is nil for an unsigned
// transaction.
func MainSigner(ctx escrowd.Context, auth Authenticator) escrowd.Condition {
	if conds := auth.GetConditions(ctx); len(conds) != 0 {
		return conds[0]
	}
	return nil
}

// RequireSigner fails with ErrUnauthorized unless addr signed the
// transaction. role names addr in the error, for example "initializer".
func RequireSigner(ctx escrowd.Context, auth Authenticator, addr escrowd.Address, role string) error {
	switch {
	case len(addr) == 0:
		return errors.Wrapf(errors.ErrUnauthorized, "%s signature required", role)
	case !auth.HasAddress(ctx, addr):
		return errors.Wrapf(errors.ErrUnauthorized, "%s %s did not sign", role, addr)
	}
	return nil
}
