package errors

import (
	"fmt"
	"reflect"
)

// Root errors. Codes are part of the client protocol and must never be
// reassigned. Extensions register their own codes starting at 1000.
var (
	ErrUnauthorized       = Register(2, "unauthorized")
	ErrNotFound           = Register(3, "not found")
	ErrInvalidMsg         = Register(4, "invalid message")
	ErrInvalidModel       = Register(5, "invalid model")
	ErrDuplicate          = Register(6, "duplicate")
	ErrHuman              = Register(7, "coding error")
	ErrCannotBeModified   = Register(8, "cannot be modified")
	ErrEmpty              = Register(9, "value is empty")
	ErrInvalidState       = Register(10, "invalid state")
	ErrInvalidType        = Register(11, "invalid type")
	ErrInsufficientAmount = Register(12, "insufficient amount")
	ErrInvalidAmount      = Register(13, "invalid amount")
	ErrInvalidInput       = Register(14, "invalid input")
	ErrExpired            = Register(15, "expired")
	ErrOverflow           = Register(16, "an operation cannot be completed due to value overflow")
	ErrCurrencyMismatch   = Register(17, "currency mismatch")
	ErrDatabase           = Register(18, "database")

	// ErrIteratorDone ends every iteration, it is not a failure.
	ErrIteratorDone = Register(19, "iterator done")

	// ErrNetwork and ErrTimeout are only produced by the client.
	ErrNetwork = Register(20, "network")
	ErrTimeout = Register(21, "timeout")

	// ErrPanic marks a recovered panic. Its message is always redacted.
	ErrPanic = Register(111222, "panic")
)

// registry holds every root error by code. Code 1 stands for any error
// that was never registered.
var registry = map[uint32]*Error{
	internalABCICode: {code: internalABCICode, desc: internalABCILog},
}

// Register declares a root error. It must be called from a package
// variable initializer, a code registered twice panics.
func Register(code uint32, description string) *Error {
	if prev, ok := registry[code]; ok {
		panic(fmt.Sprintf("error code %d already registered as %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error. Errors returned at runtime wrap one of them, the
// root decides the ABCI code of the response.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode is the code this error was registered with.
func (e Error) ABCICode() uint32 {
	return e.code
}

// Is reports whether err has e as its root, looking through wraps and
// through every member of an Append group. A nil *Error matches only a
// nil error.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	for err != nil {
		if err == e {
			return true
		}
		if group, ok := err.(unpacker); ok {
			for _, member := range group.Unpack() {
				if e.Is(member) {
					return true
				}
			}
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

type causer interface {
	Cause() error
}

type unpacker interface {
	Unpack() []error
}

// isNilErr also catches a typed nil pointer stored in the error interface.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
