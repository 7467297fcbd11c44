package escrow

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
)

// HandleLength is the size of an escrow handle.
const HandleLength = 32

// BucketName is where escrow records are stored.
const BucketName = "esc"

// Escrow is the record of a single active escrow, stored under its handle.
type Escrow struct {
	Initializer escrowd.Address  `protobuf:"bytes,1,opt,name=initializer,proto3" json:"initializer"`
	Recipient   escrowd.Address  `protobuf:"bytes,2,opt,name=recipient,proto3" json:"recipient"`
	Amount      coin.Coin        `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount"`
	Released    bool             `protobuf:"varint,4,opt,name=released,proto3" json:"released"`
	Address     escrowd.Address  `protobuf:"bytes,5,opt,name=address,proto3" json:"address"`
	CreatedAt   escrowd.UnixTime `protobuf:"varint,6,opt,name=created_at,json=createdAt,proto3" json:"created_at,omitempty"`
}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	var err error
	err = errors.AppendField(err, "Initializer", e.Initializer.Validate())
	err = errors.AppendField(err, "Recipient", e.Recipient.Validate())
	err = errors.AppendField(err, "Address", e.Address.Validate())
	if !e.Amount.IsPositive() {
		err = errors.AppendField(err, "Amount", errors.ErrInvalidAmount)
	} else {
		err = errors.AppendField(err, "Amount", e.Amount.Validate())
	}
	if e.CreatedAt != 0 {
		err = errors.AppendField(err, "CreatedAt", e.CreatedAt.Validate())
	}
	return err
}

// Copy makes a deep copy of the record.
func (e *Escrow) Copy() orm.CloneableData {
	return &Escrow{
		Initializer: e.Initializer.Clone(),
		Recipient:   e.Recipient.Clone(),
		Amount:      e.Amount,
		Released:    e.Released,
		Address:     e.Address.Clone(),
		CreatedAt:   e.CreatedAt,
	}
}

// Condition calculates the custodial condition of an escrow given its
// handle. Only this extension can authorize payments from the derived
// address.
func Condition(handle []byte) escrowd.Condition {
	return escrowd.NewCondition("escrow", "handle", handle)
}

// ValidateHandle ensures the handle has the expected length.
func ValidateHandle(handle []byte) error {
	switch n := len(handle); {
	case n == 0:
		return errors.Wrap(errors.ErrEmpty, "escrow handle")
	case n != HandleLength:
		return errors.Wrapf(errors.ErrInvalidInput, "escrow handle must be %d bytes, got %d", HandleLength, n)
	}
	return nil
}

// Index names usable with ByIndex and the query router.
const (
	IndexInitializer = "initializer"
	IndexRecipient   = "recipient"
)

// NewBucket returns a bucket storing escrow records under their handle,
// indexed by both parties.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Escrow{},
		orm.WithIndex(IndexInitializer, idxInitializer, false),
		orm.WithIndex(IndexRecipient, idxRecipient, false),
	)
}

func toEscrow(obj orm.Object) (*Escrow, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	esc, ok := obj.Value().(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "can only take index of Escrow, got %T", obj.Value())
	}
	return esc, nil
}

func idxInitializer(obj orm.Object) ([]byte, error) {
	esc, err := toEscrow(obj)
	if err != nil {
		return nil, err
	}
	return esc.Initializer, nil
}

func idxRecipient(obj orm.Object) ([]byte, error) {
	esc, err := toEscrow(obj)
	if err != nil {
		return nil, err
	}
	return esc.Recipient, nil
}
