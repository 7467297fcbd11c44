package gconf

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// ReadStore is the part of escrowd.ReadOnlyKVStore needed to load a
// configuration.
type ReadStore interface {
	Get(key []byte) ([]byte, error)
}

// Store is the part of escrowd.KVStore needed to save a configuration.
type Store interface {
	ReadStore
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Configuration is the state of one extension. Marshal of the zero value
// may return no bytes at all.
type Configuration interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Validate() error
}

// key is the singleton key of the configuration of pkg.
func key(pkg string) []byte {
	return append([]byte("_c:"), pkg...)
}

// Save validates conf and stores it as the configuration of pkg. A
// configuration that encodes to nothing is the default one, it is
// removed instead, because the store does not accept empty values. Load
// reports it as missing and the extension falls back to its defaults.
func Save(db Store, pkg string, conf Configuration) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrapf(err, "configuration of %s", pkg)
	}
	raw, err := conf.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal configuration of %s", pkg)
	}
	if len(raw) == 0 {
		return db.Delete(key(pkg))
	}
	return db.Set(key(pkg), raw)
}

// Load fills dst with the configuration of pkg. It fails with ErrNotFound
// when nothing is stored.
func Load(db ReadStore, pkg string, dst Configuration) error {
	raw, err := db.Get(key(pkg))
	switch {
	case err != nil:
		return errors.Wrapf(err, "read configuration of %s", pkg)
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "configuration of %s", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal configuration of %s", pkg)
	}
	return nil
}

// InitConfig reads the genesis entry conf.<pkg> into conf and saves it. An
// entry that is missing gives ErrNotFound, the caller decides if a
// configuration is required.
func InitConfig(db Store, opts escrowd.Options, pkg string, conf Configuration) error {
	var section escrowd.Options
	if err := opts.ReadOptions("conf", &section); err != nil {
		return err
	}
	if _, ok := section[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "genesis has no conf.%s", pkg)
	}
	if err := section.ReadOptions(pkg, conf); err != nil {
		return err
	}
	return Save(db, pkg, conf)
}
