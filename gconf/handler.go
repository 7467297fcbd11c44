package gconf

import (
	"reflect"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x"
)

// OwnedConfig is a configuration that only its owner may change.
type OwnedConfig interface {
	Configuration
	GetOwner() escrowd.Address
}

// UpdateConfigurationHandler applies the "Patch" field of a message to the
// stored configuration of one extension. Fields left at their zero value
// in the patch keep their current value.
type UpdateConfigurationHandler struct {
	pkg  string
	typ  reflect.Type
	auth x.Authenticator
}

var _ escrowd.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler serves updates of the configuration of pkg.
// conf is a pointer to the configuration type, it is only used to learn
// that type. A configuration that is not stored, because genesis did not
// set it or because it is the default one, has no owner and cannot be
// updated.
func NewUpdateConfigurationHandler(pkg string, conf OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:  pkg,
		typ:  reflect.TypeOf(conf).Elem(),
		auth: auth,
	}
}

func (h UpdateConfigurationHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	if err := h.update(ctx, db, tx); err != nil {
		return nil, err
	}
	escrowd.GetLogger(ctx).Info("configuration updated", "pkg", h.pkg)
	return &escrowd.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) update(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) error {
	current := reflect.New(h.typ).Interface().(OwnedConfig)
	err := Load(db, h.pkg, current)
	if errors.ErrNotFound.Is(err) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s has no stored configuration", h.pkg)
	}
	if err != nil {
		return err
	}
	if err := x.RequireSigner(ctx, h.auth, current.GetOwner(), "configuration owner"); err != nil {
		return err
	}

	patch, err := h.patchOf(tx)
	if err != nil {
		return err
	}
	dst := reflect.ValueOf(current).Elem()
	src := reflect.ValueOf(patch).Elem()
	for i := 0; i < dst.NumField(); i++ {
		if v := src.Field(i); !isZero(v) {
			dst.Field(i).Set(v)
		}
	}
	return Save(db, h.pkg, current)
}

// patchOf returns the "Patch" field of the message in tx. It must be a
// pointer to the configuration type of this handler.
func (h UpdateConfigurationHandler) patchOf(tx escrowd.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "%T is not a configuration update", msg)
	}
	field := v.Elem().FieldByName("Patch")
	switch {
	case !field.IsValid():
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "%T has no Patch", msg)
	case field.Type() != reflect.PtrTo(h.typ):
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "patch of %s, want %s", field.Type(), h.typ)
	case field.IsNil():
		return nil, errors.Field("Patch", errors.ErrEmpty, "required")
	}
	return field.Interface().(OwnedConfig), nil
}

func isZero(v reflect.Value) bool {
	return reflect.DeepEqual(v.Interface(), reflect.Zero(v.Type()).Interface())
}
