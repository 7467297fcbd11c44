package orm

import (
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/store"
	"github.com/stretchr/testify/require"
)

func TestRawQuery(t *testing.T) {
	db := store.MemStore()
	require.Nil(t, db.Set([]byte("esc:a1"), []byte("one")))
	require.Nil(t, db.Set([]byte("esc:a2"), []byte("two")))
	require.Nil(t, db.Set([]byte("cash:x"), []byte("three")))

	qr := escrowd.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/")
	if h == nil {
		t.Fatal("raw query handler not registered")
	}

	res, err := h.Query(db, escrowd.KeyQueryMod, []byte("cash:x"))
	require.Nil(t, err)
	require.Equal(t, 1, len(res))
	require.Equal(t, []byte("three"), res[0].Value)

	res, err = h.Query(db, escrowd.KeyQueryMod, []byte("missing"))
	require.Nil(t, err)
	require.Equal(t, 0, len(res))

	res, err = h.Query(db, escrowd.PrefixQueryMod, []byte("esc:"))
	require.Nil(t, err)
	require.Equal(t, 2, len(res))
	require.Equal(t, []byte("esc:a1"), res[0].Key)

	res, err = h.Query(db, escrowd.PrefixQueryMod, nil)
	require.Nil(t, err)
	require.Equal(t, 3, len(res))
}
