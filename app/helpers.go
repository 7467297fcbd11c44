package app

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Querier answers abci queries. Both the application and remote clients
// implement it.
type Querier interface {
	Query(abci.RequestQuery) abci.ResponseQuery
}

// ABCIStore reads committed state through raw "/" queries, so buckets can
// be used against a remote node. Iterators cover the whole store only.
type ABCIStore struct {
	q Querier
}

var _ escrowd.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(q Querier) *ABCIStore {
	return &ABCIStore{q: q}
}

func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query("/", key)
	if err != nil {
		return nil, err
	}
	switch len(models) {
	case 0:
		return nil, nil
	case 1:
		return models[0].Value, nil
	}
	return nil, errors.Wrapf(errors.ErrInvalidState, "%d results for one key", len(models))
}

func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return len(v) > 0, err
}

func (a *ABCIStore) Iterator(start, end []byte) (escrowd.Iterator, error) {
	models, err := a.all(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) ReverseIterator(start, end []byte) (escrowd.Iterator, error) {
	models, err := a.all(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) all(start, end []byte) ([]escrowd.Model, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrHuman, "only full range iteration is supported")
	}
	return a.query("/?prefix", nil)
}

func (a *ABCIStore) query(path string, data []byte) ([]escrowd.Model, error) {
	res := a.q.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return toModels(res.Key, res.Value)
}

func toModels(keys, values []byte) ([]escrowd.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return JoinResults(&k, &v)
}
