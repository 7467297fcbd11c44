package orm

import (
	"reflect"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// CloneableData is a persistent value that knows how to validate and copy
// itself. Buckets store it wrapped in an Object.
type CloneableData interface {
	escrowd.Persistent
	Validate() error
	Copy() CloneableData
}

// Model is the value type accepted by a ModelBucket. It has the same method
// set as CloneableData.
type Model interface {
	escrowd.Persistent
	Validate() error
	Copy() CloneableData
}

// Object pairs a bucket key with the value stored under it.
type Object interface {
	Key() []byte
	SetKey([]byte)
	Value() escrowd.Persistent
	Validate() error
	// Clone returns an empty object of the same value type, ready to be
	// loaded from raw bytes.
	Clone() Object
}

// SimpleObj is the Object implementation used by every bucket.
type SimpleObj struct {
	key   []byte
	value CloneableData
}

var _ Object = (*SimpleObj)(nil)

// NewSimpleObj wraps value so it can be saved under key.
func NewSimpleObj(key []byte, value CloneableData) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte {
	return o.key
}

func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

func (o SimpleObj) Value() escrowd.Persistent {
	return o.value
}

// Validate requires both a key and a value, then validates the value.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Field("Key", errors.ErrEmpty, "object without a key")
	case o.value == nil:
		return errors.Field("Value", errors.ErrEmpty, "object without a value")
	}
	return o.value.Validate()
}

func (o *SimpleObj) Clone() Object {
	empty := reflect.New(reflect.TypeOf(o.value).Elem()).Interface()
	clone := &SimpleObj{value: empty.(CloneableData)}
	if len(o.key) != 0 {
		clone.key = append([]byte(nil), o.key...)
	}
	return clone
}
