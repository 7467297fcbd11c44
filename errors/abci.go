package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode is the code of a response without an error.
	SuccessABCICode = 0

	// Every error without a registered root is reported with code 1 and
	// a fixed message.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo gives the code and log of the tendermint response for err. The
// message of an internal error is only revealed in debug mode, where every
// log also carries the stack.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// ABCIError rebuilds an error from a response received by a client. A
// known code wraps its root error, so ErrNotFound.Is works on the result.
// An unknown code never matches any root.
func ABCIError(code uint32, log string) error {
	if root, ok := registry[code]; ok {
		return Wrap(root, log)
	}
	return Wrap(fmt.Errorf("unknown code %d", code), log)
}

// abciCode is the code of the first root found in the chain of err.
func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}
	for {
		if c, ok := err.(interface{ ABCICode() uint32 }); ok {
			return c.ABCICode()
		}
		parent, ok := err.(causer)
		if !ok {
			return internalABCICode
		}
		err = parent.Cause()
	}
}

// Redact replaces an internal error, or a recovered panic, with a plain
// "internal error" unless debug is set.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
