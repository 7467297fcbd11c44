package app

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	amino "github.com/tendermint/go-amino"
)

// resultCodec encodes query results. Clients written against the amino
// layout of ResultSet decode it without generated code.
var resultCodec = amino.NewCodec()

// ResultSet is one half of a query response: either all keys or all
// values, in the same order.
type ResultSet struct {
	Results [][]byte
}

func (r *ResultSet) Marshal() ([]byte, error) {
	return resultCodec.MarshalBinaryBare(r)
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	if err := resultCodec.UnmarshalBinaryBare(raw, r); err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "result set: %s", err)
	}
	return nil
}

func ResultsFromKeys(models []escrowd.Model) *ResultSet {
	rs := &ResultSet{Results: make([][]byte, len(models))}
	for i, m := range models {
		rs.Results[i] = m.Key
	}
	return rs
}

func ResultsFromValues(models []escrowd.Model) *ResultSet {
	rs := &ResultSet{Results: make([][]byte, len(models))}
	for i, m := range models {
		rs.Results[i] = m.Value
	}
	return rs
}

// JoinResults pairs the keys and values of a query response back into
// models.
func JoinResults(keys, values *ResultSet) ([]escrowd.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrInvalidState, "%d keys for %d values", len(keys.Results), len(values.Results))
	}
	models := make([]escrowd.Model, len(keys.Results))
	for i, k := range keys.Results {
		models[i] = escrowd.Pair(k, values.Results[i])
	}
	return models, nil
}

// UnmarshalOneResult decodes the first value of a query response into
// dest. An empty response leaves dest untouched.
func UnmarshalOneResult(raw []byte, dest escrowd.Persistent) error {
	var rs ResultSet
	if err := rs.Unmarshal(raw); err != nil {
		return err
	}
	if len(rs.Results) == 0 {
		return nil
	}
	return dest.Unmarshal(rs.Results[0])
}
