package cash

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
)

var (
	_ escrowd.Msg = (*SendMsg)(nil)
	_ escrowd.Msg = (*UpdateConfigurationMsg)(nil)
)

// maxMemoSize is the memo limit of a SendMsg, in bytes.
const maxMemoSize = 128

// SendMsg moves Amount of the native asset from Source to Destination.
// Source must sign the transaction.
type SendMsg struct {
	Source      escrowd.Address `protobuf:"bytes,1,opt,name=source,proto3" json:"source"`
	Destination escrowd.Address `protobuf:"bytes,2,opt,name=destination,proto3" json:"destination"`
	Amount      *coin.Coin      `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount"`
	Memo        string          `protobuf:"bytes,4,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (SendMsg) Path() string {
	return "cash/send"
}

func (m *SendMsg) Validate() error {
	var errs error
	if coin.IsEmpty(m.Amount) {
		errs = errors.Wrap(errors.ErrInvalidAmount, "nothing to send")
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInvalidState, "longer than %d bytes", maxMemoSize))
	}
	return errs
}

// FeeTx is implemented by transactions declaring a fee.
type FeeTx interface {
	GetFees() *FeeInfo
}

// FeeInfo declares the fee of a transaction. An empty Payer means the
// main signer pays.
type FeeInfo struct {
	Payer escrowd.Address `protobuf:"bytes,1,opt,name=payer,proto3" json:"payer,omitempty"`
	Fees  *coin.Coin      `protobuf:"bytes,2,opt,name=fees,proto3" json:"fees"`
}

// GetFees is nil safe.
func (f *FeeInfo) GetFees() *coin.Coin {
	if f == nil {
		return nil
	}
	return f.Fees
}

// DefaultPayer returns f when it names a payer, and a copy paid by addr
// otherwise.
func (f *FeeInfo) DefaultPayer(addr escrowd.Address) *FeeInfo {
	if f != nil && len(f.Payer) != 0 {
		return f
	}
	return &FeeInfo{Payer: addr, Fees: f.GetFees()}
}

// Validate requires a payer and a fee, which may be zero.
func (f *FeeInfo) Validate() error {
	if f == nil {
		return errors.Wrap(errors.ErrInvalidInput, "no fee info")
	}
	var errs error
	if f.Fees == nil {
		errs = errors.Field("Fees", errors.ErrInvalidAmount, "missing")
	} else {
		errs = errors.AppendField(errs, "Fees", f.Fees.Validate())
	}
	return errors.AppendField(errs, "Payer", f.Payer.Validate())
}

// UpdateConfigurationMsg patches the cash configuration. Zero fields of
// Patch keep their current value.
type UpdateConfigurationMsg struct {
	Patch *Configuration `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch"`
}

func (*UpdateConfigurationMsg) Path() string {
	return "cash/update_configuration"
}

// Validate checks the fields set in the patch.
func (m *UpdateConfigurationMsg) Validate() error {
	p := m.Patch
	if p == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	var errs error
	if len(p.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", p.Owner.Validate())
	}
	if len(p.CollectorAddress) != 0 {
		errs = errors.AppendField(errs, "CollectorAddress", p.CollectorAddress.Validate())
	}
	if p.Ticker != "" && !coin.IsCC(p.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrCurrencyMismatch, "%q", p.Ticker))
	}
	if !p.MinimalFee.IsZero() {
		errs = errors.AppendField(errs, "MinimalFee", p.MinimalFee.Validate())
	}
	if !p.Reserve.IsZero() {
		errs = errors.AppendField(errs, "Reserve", p.Reserve.Validate())
	}
	return errs
}
