package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd/errors"
)

type multiRefPB MultiRef

func (m *multiRefPB) Reset()         { *m = multiRefPB{} }
func (m *multiRefPB) String() string { return proto.CompactTextString(m) }
func (*multiRefPB) ProtoMessage()    {}

// Marshal encodes the references as a protobuf message.
func (m *MultiRef) Marshal() ([]byte, error) {
	return proto.Marshal((*multiRefPB)(m))
}

// Unmarshal loads references encoded by Marshal.
func (m *MultiRef) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*multiRefPB)(m)); err != nil {
		return errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	return nil
}
