package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd/errors"
)

// Counter is a minimal model used by the tests of this package.
type Counter struct {
	Count int64  `protobuf:"varint,1,opt,name=count,proto3" json:"count"`
	Owner []byte `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner"`
}

var _ Model = (*Counter)(nil)

type counterPB Counter

func (c *counterPB) Reset()         { *c = counterPB{} }
func (c *counterPB) String() string { return proto.CompactTextString(c) }
func (*counterPB) ProtoMessage()    {}

func (c *Counter) Marshal() ([]byte, error) {
	return proto.Marshal((*counterPB)(c))
}

func (c *Counter) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*counterPB)(c)); err != nil {
		return errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	return nil
}

func (c *Counter) Copy() CloneableData {
	return &Counter{Count: c.Count, Owner: c.Owner}
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInvalidState, "negative count")
	}
	return nil
}

func counterOwner(obj Object) ([]byte, error) {
	c, ok := obj.Value().(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj.Value())
	}
	return c.Owner, nil
}
