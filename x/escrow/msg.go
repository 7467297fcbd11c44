package escrow

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
)

const (
	pathCreate       = "escrow/create"
	pathRelease      = "escrow/release"
	pathCancel       = "escrow/cancel"
	pathUpdateConfig = "escrow/update_configuration"
)

var (
	_ escrowd.Msg = (*CreateMsg)(nil)
	_ escrowd.Msg = (*ReleaseMsg)(nil)
	_ escrowd.Msg = (*CancelMsg)(nil)
	_ escrowd.Msg = (*UpdateConfigurationMsg)(nil)
)

// CreateMsg locks Amount for the Recipient. Initializer defaults to the main
// signer of the transaction.
type CreateMsg struct {
	EscrowID    []byte          `protobuf:"bytes,1,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id"`
	Initializer escrowd.Address `protobuf:"bytes,2,opt,name=initializer,proto3" json:"initializer,omitempty"`
	Recipient   escrowd.Address `protobuf:"bytes,3,opt,name=recipient,proto3" json:"recipient"`
	Amount      *coin.Coin      `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount"`
}

func (CreateMsg) Path() string {
	return pathCreate
}

func (m *CreateMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "EscrowID", ValidateHandle(m.EscrowID))
	if len(m.Initializer) != 0 {
		err = errors.AppendField(err, "Initializer", m.Initializer.Validate())
	}
	err = errors.AppendField(err, "Recipient", m.Recipient.Validate())
	switch {
	case coin.IsEmpty(m.Amount), !m.Amount.IsPositive():
		err = errors.Append(err, errors.Field("Amount", errors.ErrInvalidAmount, "must be positive"))
	default:
		err = errors.AppendField(err, "Amount", m.Amount.Validate())
	}
	return err
}

// ReleaseMsg pays the escrowed amount to the recipient. Both parties must
// match the stored record.
type ReleaseMsg struct {
	EscrowID    []byte          `protobuf:"bytes,1,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id"`
	Initializer escrowd.Address `protobuf:"bytes,2,opt,name=initializer,proto3" json:"initializer"`
	Recipient   escrowd.Address `protobuf:"bytes,3,opt,name=recipient,proto3" json:"recipient"`
}

func (ReleaseMsg) Path() string {
	return pathRelease
}

func (m *ReleaseMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "EscrowID", ValidateHandle(m.EscrowID))
	err = errors.AppendField(err, "Initializer", m.Initializer.Validate())
	err = errors.AppendField(err, "Recipient", m.Recipient.Validate())
	return err
}

// CancelMsg returns all escrowed funds to the initializer.
type CancelMsg struct {
	EscrowID    []byte          `protobuf:"bytes,1,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id"`
	Initializer escrowd.Address `protobuf:"bytes,2,opt,name=initializer,proto3" json:"initializer"`
}

func (CancelMsg) Path() string {
	return pathCancel
}

func (m *CancelMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "EscrowID", ValidateHandle(m.EscrowID))
	err = errors.AppendField(err, "Initializer", m.Initializer.Validate())
	return err
}

// UpdateConfigurationMsg patches the escrow configuration. Zero fields are
// ignored, so self escrow is switched off with SelfEscrowDeny.
type UpdateConfigurationMsg struct {
	Patch *Configuration `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch"`
}

func (*UpdateConfigurationMsg) Path() string {
	return pathUpdateConfig
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return m.Patch.Validate()
}
