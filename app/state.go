package app

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// state keeps the committed tree together with the two working caches of
// the current block. DeliverTx writes go to deliver and become the next
// version on Commit. CheckTx writes go to check and are dropped on Commit.
type state struct {
	committed escrowd.CommitKVStore
	deliver   escrowd.KVCacheWrap
	check     escrowd.KVCacheWrap
}

// loadState opens the latest version of db. It panics if the version
// cannot be loaded, as the node cannot start without it.
func loadState(db escrowd.CommitKVStore) *state {
	if err := db.LoadLatestVersion(); err != nil {
		panic(errors.Wrap(err, "load latest version"))
	}
	s := &state{committed: db}
	s.reset()
	return s
}

func (s *state) reset() {
	s.deliver = s.committed.CacheWrap()
	s.check = s.committed.CacheWrap()
}

func (s *state) latest() (escrowd.CommitID, error) {
	return s.committed.LatestVersion()
}

// commit saves the delivered transactions as a new version.
func (s *state) commit() (escrowd.CommitID, error) {
	if err := s.deliver.Write(); err != nil {
		return escrowd.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	s.check.Discard()
	id, err := s.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	s.reset()
	return id, nil
}

// chainIDKey holds the chain id given at genesis. The _esc: prefix is
// reserved for application data.
const chainIDKey = "_esc:chainID"

func loadChainID(db escrowd.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID stores the chain id once. A second call fails.
func saveChainID(db escrowd.KVStore, chainID string) error {
	if !escrowd.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id %q", chainID)
	}
	switch has, err := db.Has([]byte(chainIDKey)); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case has:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis only")
	}
	return db.Set([]byte(chainIDKey), []byte(chainID))
}
