package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Wrap adds context to err. The innermost wrap records a stack trace. A
// nil err stays nil, so the result of a call can be wrapped directly:
//
//   return errors.Wrap(bucket.Put(db, key, obj), "store escrow")
//
// Wrapping an error that has no registered root makes it internal.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover turns a panic into an ErrPanic assigned to *err. It must be
// deferred directly:
//
//   defer errors.Recover(&err)
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}
