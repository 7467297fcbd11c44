package sigs

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/escrowdtest"
)

// StdTx is a signed transaction carrying a message with given payload.
type StdTx struct {
	escrowdtest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ escrowd.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	msg := &escrowdtest.Msg{RoutePath: "test/std", Serialized: payload}
	return &StdTx{Tx: escrowdtest.Tx{Msg: msg}}
}

func (tx StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []escrowd.Condition
}

var _ escrowd.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &escrowd.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx escrowd.Context, store escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &escrowd.DeliverResult{}, nil
}
