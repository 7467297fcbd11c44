package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/iov-one/escrowd/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewStoreFunc returns an empty store for a single test.
type NewStoreFunc func(t testing.TB) CacheableKVStore

// RunConformance checks that a store behaves like every other KVStore of
// this repository: reads see the latest writes, caches are isolated until
// written, and iterators merge caches with their parent in key order.
func RunConformance(t *testing.T, newStore NewStoreFunc) {
	t.Run("read your writes", func(t *testing.T) { readYourWrites(t, newStore(t)) })
	t.Run("cache isolation", func(t *testing.T) { cacheIsolation(t, newStore(t)) })
	t.Run("shadowed keys", func(t *testing.T) { shadowedKeys(t, newStore) })
	t.Run("random ranges", func(t *testing.T) { randomRanges(t, newStore) })
}

// AssertValue checks both Get and Has for key. A nil want means the key
// must be absent.
func AssertValue(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, want, got, "value of %q", key)
	has, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, want != nil, has, "presence of %q", key)
}

func readYourWrites(t *testing.T, db CacheableKVStore) {
	balance := []byte("wallet/alice")
	AssertValue(t, db, balance, nil)

	require.NoError(t, db.Set(balance, []byte("100 IOV")))
	AssertValue(t, db, balance, []byte("100 IOV"))

	require.NoError(t, db.Set(balance, []byte("40 IOV")))
	AssertValue(t, db, balance, []byte("40 IOV"))

	require.NoError(t, db.Delete(balance))
	AssertValue(t, db, balance, nil)

	b := db.NewBatch()
	require.NoError(t, b.Set(balance, []byte("7 IOV")))
	AssertValue(t, db, balance, nil)
	require.NoError(t, b.Write())
	AssertValue(t, db, balance, []byte("7 IOV"))
}

func cacheIsolation(t *testing.T, db CacheableKVStore) {
	payer, custody := []byte("wallet/payer"), []byte("wallet/custody")
	require.NoError(t, db.Set(payer, []byte("100")))

	discarded := db.CacheWrap()
	require.NoError(t, discarded.Set(payer, []byte("0")))
	require.NoError(t, discarded.Set(custody, []byte("100")))
	AssertValue(t, discarded, custody, []byte("100"))
	AssertValue(t, db, payer, []byte("100"))
	discarded.Discard()
	AssertValue(t, db, payer, []byte("100"))
	AssertValue(t, db, custody, nil)

	written := db.CacheWrap()
	reader := db.CacheWrap()
	require.NoError(t, written.Delete(payer))
	require.NoError(t, written.Set(custody, []byte("100")))
	AssertValue(t, reader, payer, []byte("100"))
	require.NoError(t, written.Write())
	AssertValue(t, db, payer, nil)
	AssertValue(t, db, custody, []byte("100"))

	// A cache reads through to the parent on keys it did not touch.
	AssertValue(t, reader, custody, []byte("100"))

	outer := db.CacheWrap()
	require.NoError(t, outer.Set(payer, []byte("5")))
	inner := outer.CacheWrap()
	AssertValue(t, inner, payer, []byte("5"))
	require.NoError(t, inner.Delete(custody))
	require.NoError(t, inner.Write())
	AssertValue(t, outer, custody, nil)
	AssertValue(t, db, custody, []byte("100"))
	require.NoError(t, outer.Write())
	AssertValue(t, db, custody, nil)
	AssertValue(t, db, payer, []byte("5"))
}

func shadowedKeys(t *testing.T, newStore NewStoreFunc) {
	m := randomModels(5, 12, 20)
	a, b, c, d := m[0], m[1], m[2], m[3]
	a2 := Pair(a.Key, m[4].Value)

	cases := map[string]struct {
		parent []change
		child  []change
		want   []Model
	}{
		"child only": {
			child: sets(a, b, c),
			want:  byKey(a, b, c),
		},
		"parent only": {
			parent: sets(a, b, c),
			want:   byKey(a, b, c),
		},
		"child overwrites parent": {
			parent: sets(a, b),
			child:  append(sets(a2), sets(c)...),
			want:   byKey(a2, b, c),
		},
		"child deletes parent": {
			parent: sets(a, b, c),
			child:  deletes(a, c, d),
			want:   []Model{b},
		},
		"deleted then set again": {
			parent: sets(a),
			child:  append(deletes(a), sets(a2)...),
			want:   []Model{a2},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := newStore(t)
			apply(t, db, tc.parent)
			child := db.CacheWrap()
			apply(t, child, tc.child)

			assertRange(t, child, nil, nil, false, tc.want)
			assertRange(t, child, nil, nil, true, reversed(tc.want))
			if len(tc.want) > 1 {
				assertRange(t, child, tc.want[1].Key, nil, false, tc.want[1:])
				assertRange(t, child, nil, tc.want[1].Key, true, tc.want[:1])
			}

			require.NoError(t, child.Write())
			assertRange(t, db, nil, nil, false, tc.want)
		})
	}
}

func randomRanges(t *testing.T, newStore NewStoreFunc) {
	const size = 40

	parentData := randomModels(size, 8, 30)
	childData := randomModels(size, 8, 30)
	all := byKey(append(append([]Model{}, parentData...), childData...)...)

	db := newStore(t)
	apply(t, db, append(sets(parentData...), deletes(randomModels(10, 8, 1)...)...))
	child := db.CacheWrap()
	apply(t, child, append(sets(childData...), deletes(randomModels(10, 8, 1)...)...))

	cases := []struct {
		from, to int
	}{
		{0, len(all)},
		{13, len(all)},
		{0, 52},
		{7, 61},
		{30, 31},
		{44, 44},
	}
	for _, tc := range cases {
		want := all[tc.from:tc.to]
		var start, end []byte
		if tc.from > 0 {
			start = all[tc.from].Key
		}
		if tc.to < len(all) {
			end = all[tc.to].Key
		}
		assertRange(t, child, start, end, false, want)
		assertRange(t, child, start, end, true, reversed(want))
	}
}

func assertRange(t testing.TB, kv ReadOnlyKVStore, start, end []byte, descending bool, want []Model) {
	t.Helper()
	var (
		it  Iterator
		err error
	)
	if descending {
		it, err = kv.ReverseIterator(start, end)
	} else {
		it, err = kv.Iterator(start, end)
	}
	require.NoError(t, err)
	defer it.Release()

	var got []Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		require.NoError(t, err)
		got = append(got, Pair(key, value))
	}
	if len(want) == 0 {
		assert.Empty(t, got)
		return
	}
	assert.Equal(t, want, got)
}

func apply(t testing.TB, db SetDeleter, changes []change) {
	t.Helper()
	for _, c := range changes {
		require.NoError(t, c.apply(db))
	}
}

func sets(models ...Model) []change {
	res := make([]change, len(models))
	for i, m := range models {
		res[i] = change{key: m.Key, value: m.Value}
	}
	return res
}

func deletes(models ...Model) []change {
	res := make([]change, len(models))
	for i, m := range models {
		res[i] = change{key: m.Key, remove: true}
	}
	return res
}

func randomModels(count, keyLen, valueLen int) []Model {
	res := make([]Model, count)
	for i := range res {
		res[i] = Pair(randomBytes(keyLen), randomBytes(valueLen))
	}
	return res
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

func byKey(models ...Model) []Model {
	res := append([]Model{}, models...)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func reversed(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}
