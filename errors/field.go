package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches err to a named attribute of a message or model, using the
// Go name of the attribute, for example "Arbiter". The description is
// optional and may be a format string. A nil err gives nil, so validation
// can be written as a chain:
//
//   errs = errors.AppendField(errs, "Amount", e.Amount.Validate())
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{name: name, msg: description, parent: err}
}

// AppendField adds err, attached to the named attribute, to errs.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

type fieldError struct {
	name   string
	msg    string
	parent error
}

func (e *fieldError) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("field %q: %s: %s", e.name, e.msg, e.parent)
	}
	return fmt.Sprintf("field %q: %s", e.name, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}

func (e *fieldError) Field() string {
	return e.name
}

// FieldErrors collects every error in err that is attached to the named
// attribute. Field errors nested below a matching one are not reported
// separately.
func FieldErrors(err error, name string) []error {
	var found []error
	for !isNilErr(err) {
		if f, ok := err.(interface{ Field() string }); ok && f.Field() == name {
			return append(found, err)
		}
		if group, ok := err.(unpacker); ok {
			for _, member := range group.Unpack() {
				found = append(found, FieldErrors(member, name)...)
			}
			return found
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return found
}
