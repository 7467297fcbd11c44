package orm

import (
	"bytes"
	"sort"

	"github.com/iov-one/escrowd/errors"
)

// MultiRef holds the primary keys referenced by one value of a non unique
// index. Refs is kept sorted and free of duplicates.
type MultiRef struct {
	Refs [][]byte `protobuf:"bytes,1,rep,name=refs,proto3" json:"refs"`
}

var _ CloneableData = (*MultiRef)(nil)

// NewMultiRef returns a set holding all given keys. A repeated key is an
// ErrDuplicate.
func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	var m MultiRef
	for _, ref := range refs {
		if err := m.Add(ref); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// GetRefs is nil safe.
func (m *MultiRef) GetRefs() [][]byte {
	if m == nil {
		return nil
	}
	return m.Refs
}

func (m *MultiRef) Size() int {
	return len(m.GetRefs())
}

// Add places ref at its sorted position.
func (m *MultiRef) Add(ref []byte) error {
	pos, ok := m.search(ref)
	if ok {
		return errors.Wrapf(errors.ErrDuplicate, "reference %X", ref)
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[pos+1:], m.Refs[pos:])
	m.Refs[pos] = ref
	return nil
}

func (m *MultiRef) Remove(ref []byte) error {
	pos, ok := m.search(ref)
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "reference %X", ref)
	}
	m.Refs = append(m.Refs[:pos], m.Refs[pos+1:]...)
	return nil
}

// search returns the position of ref, or the position it must be inserted
// at when it is not present.
func (m *MultiRef) search(ref []byte) (int, bool) {
	pos := sort.Search(len(m.Refs), func(i int) bool {
		return bytes.Compare(m.Refs[i], ref) >= 0
	})
	return pos, pos < len(m.Refs) && bytes.Equal(m.Refs[pos], ref)
}

// Copy duplicates the slice, not the referenced keys.
func (m *MultiRef) Copy() CloneableData {
	return &MultiRef{Refs: append([][]byte(nil), m.Refs...)}
}

// Validate rejects an empty set. Indexes delete the entry instead of
// storing one.
func (m *MultiRef) Validate() error {
	if m.Size() == 0 {
		return errors.Wrap(errors.ErrEmpty, "no references")
	}
	return nil
}
