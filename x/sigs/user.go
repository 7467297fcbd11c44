package sigs

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
)

// BucketName is the bucket of signer accounts.
const BucketName = "sigs"

// maxSequence is the largest sequence clients can represent as a JSON
// number.
const maxSequence = 1<<53 - 1

// UserData is the account of a signer. Sequence is the value the next
// signature of Pubkey must commit to.
type UserData struct {
	Pubkey   *crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey"`
	Sequence int64             `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence"`
}

var _ orm.CloneableData = (*UserData)(nil)

func (u *UserData) Validate() error {
	switch {
	case u.Sequence < 0:
		return errors.Field("Sequence", ErrInvalidSequence, "negative")
	case u.Sequence > maxSequence:
		return errors.Field("Sequence", errors.ErrOverflow, "above %d", maxSequence)
	case u.Sequence > 0 && u.Pubkey == nil:
		return errors.Field("Pubkey", errors.ErrEmpty, "required once the account signed")
	}
	return nil
}

func (u *UserData) Copy() orm.CloneableData {
	cpy := *u
	return &cpy
}

// CheckAndIncrementSequence accepts a signature made with sequence seq and
// moves the account to the next sequence.
func (u *UserData) CheckAndIncrementSequence(seq int64) error {
	if seq != u.Sequence {
		return errors.Wrapf(ErrInvalidSequence, "want %d, got %d", u.Sequence, seq)
	}
	return u.bump(1)
}

func (u *UserData) bump(n int64) error {
	if n < 0 || u.Sequence > maxSequence-n {
		return errors.Wrapf(errors.ErrOverflow, "sequence %d + %d", u.Sequence, n)
	}
	u.Sequence += n
	return nil
}

// AsUser returns the account held by obj, nil for a missing one.
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser returns a fresh account of pubkey, stored under its address.
func NewUser(pubkey *crypto.PublicKey) orm.Object {
	var addr escrowd.Address
	if pubkey != nil {
		addr = pubkey.Address()
	}
	return orm.NewSimpleObj(addr, &UserData{Pubkey: pubkey})
}

// NewUserObj wraps an account for saving.
func NewUserObj(u *UserData) orm.Object {
	return orm.NewSimpleObj(u.Pubkey.Address(), u)
}

// Bucket stores signer accounts by address.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName, NewUser(nil))}
}

// GetOrCreate returns the stored account of pubkey or a new, unsaved one.
func (b Bucket) GetOrCreate(db escrowd.KVStore, pubkey *crypto.PublicKey) (orm.Object, error) {
	obj, err := b.Get(db, pubkey.Address())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return NewUser(pubkey), nil
	}
	return obj, nil
}

// NextNonce returns the sequence the next signature of signer must use.
// Accounts that never signed start at zero.
func NextNonce(db escrowd.ReadOnlyKVStore, signer escrowd.Address) (int64, error) {
	obj, err := NewBucket().Get(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "signer account")
	}
	if user := AsUser(obj); user != nil {
		return user.Sequence, nil
	}
	return 0, nil
}
