/*
Package sigs authenticates transactions with ed25519 signatures.

Every signer has a sequence stored under its address. A signature commits
to the chain id, the signer sequence and the sign bytes of the transaction,
so it cannot be replayed on another chain or a second time on the same one.
*/
package sigs

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// signatureVerifyCost is the gas charged by Check for each valid signature.
const signatureVerifyCost = 500

// RegisterQuery exposes signer sequences under /auth.
func RegisterQuery(qr escrowd.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures of a transaction, bumps the sequence of
// every signer and passes the signers down the stack through the context.
// Authenticate reads them back. A transaction without signatures is
// rejected.
type Decorator struct{}

var _ escrowd.Decorator = Decorator{}

func NewDecorator() Decorator {
	return Decorator{}
}

func (d Decorator) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	signers, err := d.signers(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(withSigners(ctx, signers), db, tx)
	if err != nil {
		return nil, err
	}
	res.GasAllocated += int64(len(signers)) * signatureVerifyCost
	return res, nil
}

func (d Decorator) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	signers, err := d.signers(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(withSigners(ctx, signers), db, tx)
}

func (Decorator) signers(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) ([]escrowd.Condition, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%T cannot carry signatures", tx)
	}
	signers, err := VerifyTxSignatures(db, stx, escrowd.GetChainID(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "signatures")
	}
	if len(signers) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signers, nil
}
