package escrowdtest

import (
	"context"

	"github.com/iov-one/escrowd"
)

// Auth authenticates a fixed set of conditions: Signers followed by Signer.
type Auth struct {
	Signer  escrowd.Condition
	Signers []escrowd.Condition
}

func (a *Auth) GetConditions(escrowd.Context) []escrowd.Condition {
	conds := append([]escrowd.Condition{}, a.Signers...)
	if a.Signer != nil {
		conds = append(conds, a.Signer)
	}
	return conds
}

func (a *Auth) HasAddress(ctx escrowd.Context, addr escrowd.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth authenticates the conditions stored in the context with
// SetConditions. Use different keys to run several instances side by side.
type CtxAuth struct {
	Key string
}

func (a *CtxAuth) SetConditions(ctx escrowd.Context, conds ...escrowd.Condition) escrowd.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx escrowd.Context) []escrowd.Condition {
	conds, _ := ctx.Value(ctxAuthKey(a.Key)).([]escrowd.Condition)
	return conds
}

func (a *CtxAuth) HasAddress(ctx escrowd.Context, addr escrowd.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

type ctxAuthKey string

func hasAddress(conds []escrowd.Condition, addr escrowd.Address) bool {
	for _, c := range conds {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
