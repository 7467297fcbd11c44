package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd/errors"
)

type (
	userDataPB     UserData
	bumpSequencePB BumpSequenceMsg
	signaturePB    StdSignature
)

func (m *userDataPB) Reset()         { *m = userDataPB{} }
func (m *userDataPB) String() string { return proto.CompactTextString(m) }
func (*userDataPB) ProtoMessage()    {}

func (m *bumpSequencePB) Reset()         { *m = bumpSequencePB{} }
func (m *bumpSequencePB) String() string { return proto.CompactTextString(m) }
func (*bumpSequencePB) ProtoMessage()    {}

func (m *signaturePB) Reset()         { *m = signaturePB{} }
func (m *signaturePB) String() string { return proto.CompactTextString(m) }
func (*signaturePB) ProtoMessage()    {}

func (u *UserData) Marshal() ([]byte, error) {
	return proto.Marshal((*userDataPB)(u))
}

func (u *UserData) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*userDataPB)(u)); err != nil {
		return errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	return nil
}

func (msg *BumpSequenceMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*bumpSequencePB)(msg))
}

func (msg *BumpSequenceMsg) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*bumpSequencePB)(msg)); err != nil {
		return errors.Wrap(errors.ErrInvalidMsg, err.Error())
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	return proto.Marshal((*signaturePB)(s))
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*signaturePB)(s)); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}
