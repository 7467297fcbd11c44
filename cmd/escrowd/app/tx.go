package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x/cash"
	"github.com/iov-one/escrowd/x/escrow"
	"github.com/iov-one/escrowd/x/sigs"
)

// Tx is the envelope of every transaction. Exactly one of the message
// fields is set. Field numbers are part of the wire format, messages start
// at 51 so the envelope can grow without clashing with them.
type Tx struct {
	Fees       *cash.FeeInfo        `protobuf:"bytes,1,opt,name=fees,proto3" json:"fees,omitempty"`
	Signatures []*sigs.StdSignature `protobuf:"bytes,2,rep,name=signatures,proto3" json:"signatures,omitempty"`

	SendMsg                      *cash.SendMsg                  `protobuf:"bytes,51,opt,name=send_msg,json=sendMsg,proto3" json:"send_msg,omitempty"`
	UpdateCashConfigurationMsg   *cash.UpdateConfigurationMsg   `protobuf:"bytes,52,opt,name=update_cash_configuration_msg,json=updateCashConfigurationMsg,proto3" json:"update_cash_configuration_msg,omitempty"`
	CreateEscrowMsg              *escrow.CreateMsg              `protobuf:"bytes,53,opt,name=create_escrow_msg,json=createEscrowMsg,proto3" json:"create_escrow_msg,omitempty"`
	ReleaseEscrowMsg             *escrow.ReleaseMsg             `protobuf:"bytes,54,opt,name=release_escrow_msg,json=releaseEscrowMsg,proto3" json:"release_escrow_msg,omitempty"`
	CancelEscrowMsg              *escrow.CancelMsg              `protobuf:"bytes,55,opt,name=cancel_escrow_msg,json=cancelEscrowMsg,proto3" json:"cancel_escrow_msg,omitempty"`
	UpdateEscrowConfigurationMsg *escrow.UpdateConfigurationMsg `protobuf:"bytes,56,opt,name=update_escrow_configuration_msg,json=updateEscrowConfigurationMsg,proto3" json:"update_escrow_configuration_msg,omitempty"`
	BumpSequenceMsg              *sigs.BumpSequenceMsg          `protobuf:"bytes,57,opt,name=bump_sequence_msg,json=bumpSequenceMsg,proto3" json:"bump_sequence_msg,omitempty"`
}

var _ escrowd.Tx = (*Tx)(nil)
var _ cash.FeeTx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

type txPB Tx

func (m *txPB) Reset()         { *m = txPB{} }
func (m *txPB) String() string { return proto.CompactTextString(m) }
func (*txPB) ProtoMessage()    {}

// NewTx wraps msg in a transaction without fees or signatures.
func NewTx(msg escrowd.Msg) (*Tx, error) {
	tx := new(Tx)
	if err := tx.SetMsg(msg); err != nil {
		return nil, err
	}
	return tx, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (escrowd.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	return proto.Marshal((*txPB)(tx))
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrEmpty, "tx")
	}
	if err := proto.Unmarshal(raw, (*txPB)(tx)); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (escrowd.Msg, error) {
	return escrowd.ExtractMsg(tx)
}

// SetMsg replaces the message of the transaction with msg.
func (tx *Tx) SetMsg(msg escrowd.Msg) error {
	tx.SendMsg = nil
	tx.UpdateCashConfigurationMsg = nil
	tx.CreateEscrowMsg = nil
	tx.ReleaseEscrowMsg = nil
	tx.CancelEscrowMsg = nil
	tx.UpdateEscrowConfigurationMsg = nil
	tx.BumpSequenceMsg = nil

	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.SendMsg = m
	case *cash.UpdateConfigurationMsg:
		tx.UpdateCashConfigurationMsg = m
	case *escrow.CreateMsg:
		tx.CreateEscrowMsg = m
	case *escrow.ReleaseMsg:
		tx.ReleaseEscrowMsg = m
	case *escrow.CancelMsg:
		tx.CancelEscrowMsg = m
	case *escrow.UpdateConfigurationMsg:
		tx.UpdateEscrowConfigurationMsg = m
	case *sigs.BumpSequenceMsg:
		tx.BumpSequenceMsg = m
	default:
		return errors.Wrapf(errors.ErrInvalidMsg, "%T cannot be sent", msg)
	}
	return nil
}

// GetFees returns the declared fee info, may be nil.
func (tx *Tx) GetFees() *cash.FeeInfo {
	return tx.Fees
}

// GetSignatures returns all signatures attached to this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are left out, so
// every signer signs the same content.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := *tx
	unsigned.Signatures = nil
	return unsigned.Marshal()
}
