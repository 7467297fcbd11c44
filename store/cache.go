package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/escrowd/errors"
)

// btreeDegree is small on purpose: caches live for a single transaction or
// block and rarely hold more than a few hundred keys.
const btreeDegree = 2

// BTreeCacheable gives any KVStore a CacheWrap method backed by a btree.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore is an in-memory store without persistence. Writes made to it
// are visible right away and Write discards everything.
func MemStore() CacheableKVStore {
	var empty EmptyKVStore
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// BTreeCacheWrap keeps pending writes in a btree on top of a read only
// parent. Reads see the pending writes first. Write flushes them through
// batch.
type BTreeCacheWrap struct {
	pending *btree.BTree
	free    *btree.FreeList
	parent  ReadOnlyKVStore
	batch   Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap builds a cache over parent. All writes also go to batch
// so the parent itself is never modified before Write. free can be shared
// between nested caches, nil allocates a new one.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		pending: btree.NewWithFreeList(btreeDegree, free),
		free:    free,
		parent:  parent,
		batch:   batch,
	}
}

// CacheWrap nests another cache. It shares the free list with this one.
func (c BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(c, c.NewBatch(), c.free)
}

func (c BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(c)
}

// Write flushes pending changes to the parent and empties the cache.
func (c BTreeCacheWrap) Write() error {
	err := c.batch.Write()
	c.Discard()
	return err
}

// Discard drops all pending changes. The nodes go back to the free list.
func (c BTreeCacheWrap) Discard() {
	for c.pending.DeleteMin() != nil {
	}
}

func (c BTreeCacheWrap) Set(key, value []byte) error {
	c.pending.ReplaceOrInsert(entry{key: key, value: value})
	return c.batch.Set(key, value)
}

func (c BTreeCacheWrap) Delete(key []byte) error {
	c.pending.ReplaceOrInsert(entry{key: key, deleted: true})
	return c.batch.Delete(key)
}

func (c BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, ok := c.lookup(key)
	if !ok {
		return c.parent.Get(key)
	}
	if e.deleted {
		return nil, nil
	}
	return e.value, nil
}

func (c BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, ok := c.lookup(key)
	if !ok {
		return c.parent.Has(key)
	}
	return !e.deleted, nil
}

func (c BTreeCacheWrap) lookup(key []byte) (entry, bool) {
	item := c.pending.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

// Iterator walks start <= key < end in ascending order, merging pending
// changes with the parent content.
func (c BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "parent iterator")
	}
	return newMergedIterator(c.pendingRange(start, end), parent, false), nil
}

// ReverseIterator walks start <= key < end in descending order.
func (c BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "parent iterator")
	}
	entries := c.pendingRange(start, end)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return newMergedIterator(entries, parent, true), nil
}

// pendingRange copies the pending entries of [start, end) in ascending
// order. A nil bound is open.
func (c BTreeCacheWrap) pendingRange(start, end []byte) []entry {
	var res []entry
	visit := func(item btree.Item) bool {
		res = append(res, item.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		c.pending.Ascend(visit)
	case start == nil:
		c.pending.AscendLessThan(entry{key: end}, visit)
	case end == nil:
		c.pending.AscendGreaterOrEqual(entry{key: start}, visit)
	default:
		c.pending.AscendRange(entry{key: start}, entry{key: end}, visit)
	}
	return res
}

// entry is a pending change. A deleted entry hides the parent value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
