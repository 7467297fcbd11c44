package sigs

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x"
)

// MaxBumpIncrement caps a single BumpSequenceMsg.
const MaxBumpIncrement = 1000

// BumpSequenceMsg moves the sequence of the main signer forward by
// Increment. Processing the transaction counts as the first step, so a
// value of 1 changes nothing beyond the regular increment.
type BumpSequenceMsg struct {
	Increment uint32 `protobuf:"varint,1,opt,name=increment,proto3" json:"increment"`
}

var _ escrowd.Msg = (*BumpSequenceMsg)(nil)

func (BumpSequenceMsg) Path() string {
	return "sigs/bump_sequence"
}

func (m *BumpSequenceMsg) Validate() error {
	if m.Increment == 0 || m.Increment > MaxBumpIncrement {
		return errors.Wrapf(errors.ErrInvalidMsg, "increment %d not in [1, %d]", m.Increment, MaxBumpIncrement)
	}
	return nil
}

// RegisterRoutes serves BumpSequenceMsg.
func RegisterRoutes(r escrowd.Registry, auth x.Authenticator) {
	r.Handle(BumpSequenceMsg{}.Path(), bumpSequenceHandler{bucket: NewBucket(), auth: auth})
}

// bumpSequenceHandler lets a signer invalidate transactions it signed in
// advance for the sequences it skips.
type bumpSequenceHandler struct {
	bucket Bucket
	auth   x.Authenticator
}

func (h bumpSequenceHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if _, err := h.bumped(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{}, nil
}

func (h bumpSequenceHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	user, err := h.bumped(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Save(db, NewUserObj(user)); err != nil {
		return nil, errors.Wrap(err, "save signer")
	}
	return &escrowd.DeliverResult{}, nil
}

// bumped loads the main signer and applies the remaining increment.
func (h bumpSequenceHandler) bumped(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*UserData, error) {
	var msg BumpSequenceMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "unsigned transaction")
	}
	obj, err := h.bucket.Get(db, signer.Address())
	if err != nil {
		return nil, err
	}
	user := AsUser(obj)
	if user == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "signer %s", signer.Address())
	}
	if err := user.bump(int64(msg.Increment) - 1); err != nil {
		return nil, err
	}
	return user, nil
}
