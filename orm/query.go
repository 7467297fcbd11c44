package orm

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// prefixRange returns the iterator bounds covering every key that starts
// with prefix. The end is nil when no key sorts after the whole range.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return prefix, end
		}
	}
	return prefix, nil
}

func queryKey(db escrowd.ReadOnlyKVStore, key []byte) ([]escrowd.Model, error) {
	value, err := db.Get(key)
	if err != nil || value == nil {
		return nil, err
	}
	return []escrowd.Model{{Key: key, Value: value}}, nil
}

func queryPrefix(db escrowd.ReadOnlyKVStore, prefix []byte) ([]escrowd.Model, error) {
	it, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []escrowd.Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, escrowd.Model{Key: key, Value: value})
	}
}

// RegisterQuery exposes the whole store under "/". Keys are not prefixed,
// so the content of any bucket can be read through it.
func RegisterQuery(qr escrowd.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db escrowd.ReadOnlyKVStore, mod string, data []byte) ([]escrowd.Model, error) {
	switch mod {
	case escrowd.KeyQueryMod:
		return queryKey(db, data)
	case escrowd.PrefixQueryMod:
		return queryPrefix(db, data)
	}
	return nil, errors.Wrapf(errors.ErrHuman, "unsupported query mode %q", mod)
}
