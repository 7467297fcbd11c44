package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd/errors"
)

// Records and messages are encoded as protobuf using their struct tags.
// proto.Marshal hands a value with its own Marshal method back to it, so
// every type is encoded through a twin type without methods.
type (
	escrowPB        Escrow
	configurationPB Configuration
	createPB        CreateMsg
	releasePB       ReleaseMsg
	cancelPB        CancelMsg
	updateConfPB    UpdateConfigurationMsg
)

func (m *escrowPB) Reset()         { *m = escrowPB{} }
func (m *escrowPB) String() string { return proto.CompactTextString(m) }
func (*escrowPB) ProtoMessage()    {}

func (m *configurationPB) Reset()         { *m = configurationPB{} }
func (m *configurationPB) String() string { return proto.CompactTextString(m) }
func (*configurationPB) ProtoMessage()    {}

func (m *createPB) Reset()         { *m = createPB{} }
func (m *createPB) String() string { return proto.CompactTextString(m) }
func (*createPB) ProtoMessage()    {}

func (m *releasePB) Reset()         { *m = releasePB{} }
func (m *releasePB) String() string { return proto.CompactTextString(m) }
func (*releasePB) ProtoMessage()    {}

func (m *cancelPB) Reset()         { *m = cancelPB{} }
func (m *cancelPB) String() string { return proto.CompactTextString(m) }
func (*cancelPB) ProtoMessage()    {}

func (m *updateConfPB) Reset()         { *m = updateConfPB{} }
func (m *updateConfPB) String() string { return proto.CompactTextString(m) }
func (*updateConfPB) ProtoMessage()    {}

func decode(raw []byte, dst proto.Message, kind *errors.Error) error {
	if err := proto.Unmarshal(raw, dst); err != nil {
		return errors.Wrap(kind, err.Error())
	}
	return nil
}

func (e *Escrow) Marshal() ([]byte, error) {
	return proto.Marshal((*escrowPB)(e))
}

func (e *Escrow) Unmarshal(raw []byte) error {
	return decode(raw, (*escrowPB)(e), errors.ErrInvalidModel)
}

func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationPB)(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return decode(raw, (*configurationPB)(c), errors.ErrInvalidModel)
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*createPB)(m))
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	return decode(raw, (*createPB)(m), errors.ErrInvalidMsg)
}

func (m *ReleaseMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*releasePB)(m))
}

func (m *ReleaseMsg) Unmarshal(raw []byte) error {
	return decode(raw, (*releasePB)(m), errors.ErrInvalidMsg)
}

func (m *CancelMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*cancelPB)(m))
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	return decode(raw, (*cancelPB)(m), errors.ErrInvalidMsg)
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*updateConfPB)(m))
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return decode(raw, (*updateConfPB)(m), errors.ErrInvalidMsg)
}
