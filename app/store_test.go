package app

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/escrowdtest"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

func TestStoreAppLifecycle(t *testing.T) {
	app := newTestApp(t)
	app.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain-7",
		AppStateBytes: []byte(`{}`),
	})
	require.Equal(t, "test-chain-7", app.GetChainID())

	require.Nil(t, app.DeliverStore().Set([]byte("k"), []byte("v")))
	hash := commitBlock(app, 1)
	if len(hash) == 0 {
		t.Fatal("commit must produce an app hash")
	}

	info := app.Info(abci.RequestInfo{})
	require.Equal(t, "test", info.Data)
	require.Equal(t, int64(1), info.LastBlockHeight)
	require.Equal(t, hash, info.LastBlockAppHash)

	// an empty block does not change the hash
	require.Equal(t, hash, commitBlock(app, 2))

	// the check cache was reset by commit and sees committed data
	v, err := app.CheckStore().Get([]byte("k"))
	require.Nil(t, err)
	require.Equal(t, []byte("v"), v)
}

func TestStoreAppQuery(t *testing.T) {
	app := newTestApp(t)
	require.Nil(t, app.DeliverStore().Set([]byte("pre:1"), []byte("one")))
	require.Nil(t, app.DeliverStore().Set([]byte("pre:2"), []byte("two")))

	// uncommitted data is not visible
	res := app.Query(abci.RequestQuery{Path: "/", Data: []byte("pre:1")})
	require.Equal(t, uint32(errors.SuccessABCICode), res.Code)
	var empty ResultSet
	require.Nil(t, empty.Unmarshal(res.Value))
	require.Equal(t, 0, len(empty.Results))

	commitBlock(app, 1)

	res = app.Query(abci.RequestQuery{Path: "/?prefix", Data: []byte("pre:")})
	require.Equal(t, uint32(errors.SuccessABCICode), res.Code)
	require.Equal(t, int64(1), res.Height)
	models, err := toModels(res.Key, res.Value)
	require.Nil(t, err)
	require.Equal(t, 2, len(models))
	require.Equal(t, []byte("two"), models[1].Value)

	res = app.Query(abci.RequestQuery{Path: "/unknown"})
	require.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	res = app.Query(abci.RequestQuery{Path: "/?range"})
	require.Equal(t, errors.ErrHuman.ABCICode(), res.Code)
}

func TestStoreAppReload(t *testing.T) {
	db, cleanup := escrowdtest.CommitKVStore(t)
	defer cleanup()

	app := NewStoreApp("test", db, escrowd.NewQueryRouter(), context.Background())
	app.InitChain(abci.RequestInitChain{
		ChainId:       "reload-chain",
		AppStateBytes: []byte(`{}`),
	})
	hash := commitBlock(app, 1)

	// a new app over the same store picks up the chain id and height
	again := NewStoreApp("test", db, escrowd.NewQueryRouter(), context.Background())
	require.Equal(t, "reload-chain", again.GetChainID())
	require.Equal(t, "reload-chain", escrowd.GetChainID(again.BlockContext()))
	height, _ := escrowd.GetHeight(again.BlockContext())
	require.Equal(t, int64(1), height)
	require.Equal(t, hash, again.Info(abci.RequestInfo{}).LastBlockAppHash)

	// genesis cannot be loaded twice
	require.Panics(t, func() {
		again.InitChain(abci.RequestInitChain{
			ChainId:       "reload-chain",
			AppStateBytes: []byte(`{}`),
		})
	})
}

func TestBeginBlockContext(t *testing.T) {
	app := newTestApp(t)
	now := time.Date(2019, 3, 1, 12, 0, 0, 0, time.UTC)
	app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{Height: 5, Time: now},
	})

	ctx := app.BlockContext()
	height, ok := escrowd.GetHeight(ctx)
	require.Equal(t, true, ok)
	require.Equal(t, int64(5), height)

	bt, err := escrowd.BlockTime(ctx)
	require.Nil(t, err)
	require.Equal(t, true, now.Equal(bt))

	header, ok := escrowd.GetHeader(ctx)
	require.Equal(t, true, ok)
	require.Equal(t, int64(5), header.Height)
}
