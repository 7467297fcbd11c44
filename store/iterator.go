package store

import (
	"bytes"

	"github.com/iov-one/escrowd/errors"
)

// mergedIterator yields pending cache entries interleaved with the parent
// iterator results. When both hold the same key the pending entry wins,
// and a pending delete skips the key altogether.
type mergedIterator struct {
	pending []entry
	reverse bool

	parent    Iterator
	head      *Model
	exhausted bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(pending []entry, parent Iterator, reverse bool) *mergedIterator {
	return &mergedIterator{
		pending: pending,
		parent:  parent,
		reverse: reverse,
	}
}

func (m *mergedIterator) Next() ([]byte, []byte, error) {
	for {
		if err := m.fill(); err != nil {
			return nil, nil, err
		}
		if len(m.pending) == 0 {
			if m.head == nil {
				return nil, nil, errors.Wrap(errors.ErrIteratorDone, "merged iterator")
			}
			return m.popParent()
		}
		if m.head != nil {
			order := bytes.Compare(m.head.Key, m.pending[0].key)
			if m.reverse {
				order = -order
			}
			if order < 0 {
				return m.popParent()
			}
			if order == 0 {
				m.head = nil
			}
		}
		e := m.pending[0]
		m.pending = m.pending[1:]
		if !e.deleted {
			return e.key, e.value, nil
		}
	}
}

func (m *mergedIterator) popParent() ([]byte, []byte, error) {
	head := m.head
	m.head = nil
	return head.Key, head.Value, nil
}

// fill reads the next parent result unless one is already buffered.
func (m *mergedIterator) fill() error {
	if m.head != nil || m.exhausted {
		return nil
	}
	key, value, err := m.parent.Next()
	if err != nil {
		if errors.ErrIteratorDone.Is(err) {
			m.exhausted = true
			return nil
		}
		return err
	}
	m.head = &Model{Key: key, Value: value}
	return nil
}

func (m *mergedIterator) Release() {
	m.parent.Release()
	m.pending = nil
	m.head = nil
}
