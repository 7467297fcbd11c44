package store

import "github.com/iov-one/escrowd/errors"

// NonAtomicBatch queues writes and replays them in order on Write. It is
// only safe in front of in-memory stores, as a failure halfway leaves the
// target partially written.
type NonAtomicBatch struct {
	target SetDeleter
	queue  []change
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(target SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{target: target}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.queue = append(b.queue, change{key: key, value: value})
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.queue = append(b.queue, change{key: key, remove: true})
	return nil
}

// Write applies the queue and resets it, even on failure.
func (b *NonAtomicBatch) Write() error {
	queue := b.queue
	b.queue = nil
	for i, c := range queue {
		if err := c.apply(b.target); err != nil {
			return errors.Wrapf(err, "change %d of %d", i+1, len(queue))
		}
	}
	return nil
}

type change struct {
	key    []byte
	value  []byte
	remove bool
}

func (c change) apply(target SetDeleter) error {
	if c.remove {
		return target.Delete(c.key)
	}
	return target.Set(c.key, c.value)
}

// SliceIterator iterates over models already loaded in memory.
type SliceIterator struct {
	models []Model
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(models []Model) *SliceIterator {
	return &SliceIterator{models: models}
}

func (s *SliceIterator) Next() ([]byte, []byte, error) {
	if len(s.models) == 0 {
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "slice iterator")
	}
	m := s.models[0]
	s.models = s.models[1:]
	return m.Key, m.Value, nil
}

func (s *SliceIterator) Release() {
	s.models = nil
}

// EmptyKVStore holds nothing and ignores writes. MemStore caches on top of
// it.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }

func (EmptyKVStore) Has([]byte) (bool, error) { return false, nil }

func (EmptyKVStore) Set(_, _ []byte) error { return nil }

func (EmptyKVStore) Delete([]byte) error { return nil }

func (e EmptyKVStore) NewBatch() Batch { return NewNonAtomicBatch(e) }

func (EmptyKVStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}
