package orm

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// ModelIterator walks all entities of a single bucket in key order.
type ModelIterator struct {
	prefix []byte
	it     escrowd.Iterator
}

// IterAll returns an iterator over every entity stored in the bucket with
// the given name. The database is only touched on the first call to Next.
func IterAll(bucketName string) *ModelIterator {
	return &ModelIterator{prefix: append([]byte(bucketName), ':')}
}

// Next loads the next entity into dest and returns its key without the
// bucket prefix. ErrIteratorDone is returned when there is no more data,
// after which the iterator is released.
func (m *ModelIterator) Next(db escrowd.ReadOnlyKVStore, dest Model) ([]byte, error) {
	if m.it == nil {
		it, err := db.Iterator(prefixRange(m.prefix))
		if err != nil {
			return nil, errors.Wrap(err, "iterator")
		}
		m.it = it
	}
	key, value, err := m.it.Next()
	if err != nil {
		if errors.ErrIteratorDone.Is(err) {
			m.Release()
		}
		return nil, err
	}
	if err := dest.Unmarshal(value); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %X", key)
	}
	return key[len(m.prefix):], nil
}

// Release frees the underlying database iterator. It is safe to call more
// than once.
func (m *ModelIterator) Release() {
	if m.it != nil {
		m.it.Release()
		m.it = nil
	}
}
