package escrowd

import (
	"reflect"

	"github.com/iov-one/escrowd/errors"
)

// Marshaller serializes a value into its binary form.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent values are stored or sent over the wire. Unmarshal always
// needs a pointer receiver.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is the request part of a transaction: create an escrow, send coins.
// Authorization lives in the enclosing Tx.
type Msg interface {
	Persistent

	// Path routes the message to its handler, for example
	// "escrow/create". Only [0-9A-Za-z_\-/] is allowed.
	Path() string

	// Validate checks the message without looking at the state.
	Validate() error
}

// Tx carries one message together with whatever the decorators need to
// authorize it, such as signatures and fees. The application defines the
// concrete type.
type Tx interface {
	Persistent

	GetMsg() (Msg, error)
}

// TxDecoder parses the raw bytes tendermint hands to the application.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the route of the message in tx, or "(missing)".
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// ExtractMsg returns the only message set in sum, a pointer to a struct
// with one pointer field per message type. Unset fields are nil.
func ExtractMsg(sum interface{}) (Msg, error) {
	v := reflect.ValueOf(sum)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInvalidType, "message container %T", sum)
	}
	v = v.Elem()

	var found Msg
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() != reflect.Ptr || f.IsNil() {
			continue
		}
		msg, ok := f.Interface().(Msg)
		if !ok {
			continue
		}
		if found != nil {
			return nil, errors.Wrapf(errors.ErrInvalidMsg, "both %s and %s set", found.Path(), msg.Path())
		}
		found = msg
	}
	if found == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "no message")
	}
	return found, nil
}

// LoadMsg copies the message of tx into destination, which must point to
// a value of the message type, and validates it.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrInvalidState, "nil message")
	}

	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrapf(errors.ErrHuman, "cannot load message into %T", destination)
	}
	src := reflect.Indirect(reflect.ValueOf(msg))
	if src.Type() != dst.Elem().Type() {
		return errors.Wrapf(errors.ErrInvalidType, "want %s, got %T", dst.Elem().Type(), msg)
	}
	dst.Elem().Set(src)

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}
