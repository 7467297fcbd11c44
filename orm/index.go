package orm

import (
	"bytes"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Index maps a value computed from an object to the primary keys of all
// objects producing it.
type Index interface {
	escrowd.QueryHandler

	// Update moves the entry of one object. A nil prev inserts, a nil next
	// removes. Both must have the same primary key when neither is nil.
	Update(db escrowd.KVStore, prev, next Object) error

	// GetAt returns the primary keys stored under value.
	GetAt(db escrowd.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

// Indexer computes the index value of an object. An empty value leaves the
// object out of the index.
type Indexer func(Object) ([]byte, error)

// index entries live under "_i.<name>:<value>". A unique index stores the
// primary key directly. Any other index stores a MultiRef.
type index struct {
	name    string
	prefix  []byte
	unique  bool
	valueOf Indexer
	dbKey   func([]byte) []byte
}

var _ Index = index{}

// NewIndex creates an index named name. dbKey turns a primary key into the
// full key of the indexed object and is used to answer queries.
func NewIndex(name string, indexer Indexer, unique bool, dbKey func([]byte) []byte) Index {
	return index{
		name:    name,
		prefix:  []byte("_i." + name + ":"),
		unique:  unique,
		valueOf: indexer,
		dbKey:   dbKey,
	}
}

func (i index) key(value []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+len(value))
	out = append(out, i.prefix...)
	return append(out, value...)
}

func (i index) Update(db escrowd.KVStore, prev, next Object) error {
	if prev == nil && next == nil {
		return errors.Wrap(errors.ErrHuman, "index update without an object")
	}
	if prev != nil && next != nil && !bytes.Equal(prev.Key(), next.Key()) {
		return errors.Wrap(errors.ErrCannotBeModified, "primary key cannot change")
	}

	var before, after []byte
	var err error
	if prev != nil {
		if before, err = i.valueOf(prev); err != nil {
			return err
		}
	}
	if next != nil {
		if after, err = i.valueOf(next); err != nil {
			return err
		}
	}
	if prev != nil && next != nil && bytes.Equal(before, after) {
		return nil
	}
	if prev != nil {
		if err := i.remove(db, before, prev.Key()); err != nil {
			return err
		}
	}
	if next != nil {
		return i.add(db, after, next.Key())
	}
	return nil
}

func (i index) GetAt(db escrowd.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.key(value))
	if err != nil || raw == nil {
		return nil, err
	}
	return i.decode(raw)
}

func (i index) decode(raw []byte) ([][]byte, error) {
	if i.unique {
		return [][]byte{raw}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return nil, err
	}
	return refs.GetRefs(), nil
}

// Query resolves a value, or every value starting with a prefix, into the
// indexed objects.
func (i index) Query(db escrowd.ReadOnlyKVStore, mod string, data []byte) ([]escrowd.Model, error) {
	var entries []escrowd.Model
	var err error
	switch mod {
	case escrowd.KeyQueryMod:
		entries, err = queryKey(db, i.key(data))
	case escrowd.PrefixQueryMod:
		entries, err = queryPrefix(db, i.key(data))
	default:
		return nil, errors.Wrapf(errors.ErrHuman, "unsupported query mode %q", mod)
	}
	if err != nil {
		return nil, err
	}

	var res []escrowd.Model
	for _, e := range entries {
		refs, err := i.decode(e.Value)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			key := i.dbKey(ref)
			value, err := db.Get(key)
			if err != nil {
				return nil, err
			}
			res = append(res, escrowd.Model{Key: key, Value: value})
		}
	}
	return res, nil
}

func (i index) add(db escrowd.KVStore, value, pk []byte) error {
	if len(value) == 0 {
		return nil
	}
	key := i.key(value)
	raw, err := db.Get(key)
	if err != nil {
		return err
	}
	if i.unique {
		if raw != nil {
			return errors.Wrapf(errors.ErrDuplicate, "unique index %s", i.name)
		}
		return db.Set(key, pk)
	}
	var refs MultiRef
	if raw != nil {
		if err := refs.Unmarshal(raw); err != nil {
			return err
		}
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	return i.storeRefs(db, key, &refs)
}

func (i index) remove(db escrowd.KVStore, value, pk []byte) error {
	if len(value) == 0 {
		return nil
	}
	key := i.key(value)
	raw, err := db.Get(key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s has no entry", i.name)
	}
	if i.unique {
		if !bytes.Equal(raw, pk) {
			return errors.Wrapf(errors.ErrNotFound, "index %s entry belongs to %X", i.name, raw)
		}
		return db.Delete(key)
	}
	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	return i.storeRefs(db, key, &refs)
}

// storeRefs deletes the entry once the last reference is gone.
func (i index) storeRefs(db escrowd.KVStore, key []byte, refs *MultiRef) error {
	if refs.Size() == 0 {
		return db.Delete(key)
	}
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, raw)
}
