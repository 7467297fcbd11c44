package escrowdtest

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Tx carries Msg, or fails with Err when asked for it.
type Tx struct {
	Msg escrowd.Msg
	Err error
}

var _ escrowd.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (escrowd.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

// Marshal encodes the message only.
func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Msg == nil {
		return nil, nil
	}
	return tx.Msg.Marshal()
}

func (tx *Tx) Unmarshal([]byte) error {
	return errors.Wrap(errors.ErrHuman, "test transactions are not decoded")
}

// Msg is routed to RoutePath and encodes to Serialized. A non nil Err is
// returned by Validate and by the codec methods.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ escrowd.Msg = (*Msg)(nil)

func (m *Msg) Path() string { return m.RoutePath }

func (m *Msg) Validate() error { return m.Err }

func (m *Msg) Marshal() ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Serialized, nil
}

func (m *Msg) Unmarshal(raw []byte) error {
	if m.Err != nil {
		return m.Err
	}
	m.Serialized = raw
	return nil
}
