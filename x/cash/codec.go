package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd/errors"
)

// Wallets, configuration and messages are protobuf encoded through twin
// types that proto walks by their struct tags.
type (
	walletPB        Wallet
	configurationPB Configuration
	sendPB          SendMsg
	updateConfPB    UpdateConfigurationMsg
)

func (m *walletPB) Reset()         { *m = walletPB{} }
func (m *walletPB) String() string { return proto.CompactTextString(m) }
func (*walletPB) ProtoMessage()    {}

func (m *configurationPB) Reset()         { *m = configurationPB{} }
func (m *configurationPB) String() string { return proto.CompactTextString(m) }
func (*configurationPB) ProtoMessage()    {}

func (m *sendPB) Reset()         { *m = sendPB{} }
func (m *sendPB) String() string { return proto.CompactTextString(m) }
func (*sendPB) ProtoMessage()    {}

func (m *updateConfPB) Reset()         { *m = updateConfPB{} }
func (m *updateConfPB) String() string { return proto.CompactTextString(m) }
func (*updateConfPB) ProtoMessage()    {}

func (w *Wallet) Marshal() ([]byte, error) {
	return proto.Marshal((*walletPB)(w))
}

func (w *Wallet) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*walletPB)(w)); err != nil {
		return errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationPB)(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*configurationPB)(c)); err != nil {
		return errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	return nil
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*sendPB)(m))
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*sendPB)(m)); err != nil {
		return errors.Wrap(errors.ErrInvalidMsg, err.Error())
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*updateConfPB)(m))
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*updateConfPB)(m)); err != nil {
		return errors.Wrap(errors.ErrInvalidMsg, err.Error())
	}
	return nil
}
