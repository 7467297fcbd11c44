package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

var validBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket stores objects of a single type under the "<name>:" key prefix and
// keeps its secondary indexes in sync on every write.
//
// Extensions do not use a Bucket directly. They wrap it in a ModelBucket.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Object
	indexes map[string]Index
}

var _ escrowd.QueryHandler = Bucket{}

// NewBucket panics when name is not 3 to 10 lowercase letters or
// underscores. proto is cloned to decode every stored value.
func NewBucket(name string, proto Object) Bucket {
	if !validBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{
		name:   name,
		prefix: []byte(name + ":"),
		proto:  proto,
	}
}

func (b Bucket) Name() string {
	return b.name
}

// DBKey returns a fresh slice holding the bucket prefix followed by key.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	out = append(out, b.prefix...)
	return append(out, key...)
}

// WithIndex returns a copy of the bucket maintaining one more index. A
// repeated index name is a programming error and panics.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("index %q declared twice on bucket %q", name, b.name))
	}
	indexes := map[string]Index{
		name: NewIndex(b.name+"_"+name, indexer, unique, b.DBKey),
	}
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	b.indexes = indexes
	return b
}

// Register exposes the bucket under "/<name>" and each index under
// "/<name>/<index>". An empty name falls back to the bucket name.
func (b Bucket) Register(name string, r escrowd.QueryRouter) {
	if name == "" {
		name = b.name
	}
	path := "/" + name
	r.Register(path, b)
	for idxName, idx := range b.indexes {
		r.Register(path+"/"+idxName, idx)
	}
}

// Query answers key and prefix lookups. Returned keys include the bucket
// prefix.
func (b Bucket) Query(db escrowd.ReadOnlyKVStore, mod string, data []byte) ([]escrowd.Model, error) {
	switch mod {
	case escrowd.KeyQueryMod:
		return queryKey(db, b.DBKey(data))
	case escrowd.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	}
	return nil, errors.Wrapf(errors.ErrHuman, "unsupported query mode %q", mod)
}

// Get returns nil without an error when nothing is stored under key.
func (b Bucket) Get(db escrowd.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	return b.Parse(key, raw)
}

func (b Bucket) Has(db escrowd.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Parse decodes raw into a new object of the bucket type.
func (b Bucket) Parse(key, raw []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(raw); err != nil {
		return nil, err
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates obj, updates every index and writes the encoded value.
func (b Bucket) Save(db escrowd.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.reindex(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

func (b Bucket) Delete(db escrowd.KVStore, key []byte) error {
	if err := b.reindex(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

// reindex moves the index entries of key from the stored object to next.
// A nil next removes them.
func (b Bucket) reindex(db escrowd.KVStore, key []byte, next Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	if prev == nil && next == nil {
		return nil
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, prev, next); err != nil {
			return err
		}
	}
	return nil
}

// GetIndexed loads every object referenced by key in the named index.
func (b Bucket) GetIndexed(db escrowd.ReadOnlyKVStore, name string, key []byte) ([]Object, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "bucket %q has no index %q", b.name, name)
	}
	refs, err := idx.GetAt(db, key)
	if err != nil {
		return nil, err
	}
	var objs []Object
	for _, ref := range refs {
		obj, err := b.Get(db, ref)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			return nil, errors.Wrapf(errors.ErrNotFound, "index %q points to missing %X", name, ref)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
