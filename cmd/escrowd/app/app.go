/*
Package app assembles the escrowd application: the transaction envelope,
the decorator stack, the routes of every extension, genesis loading and the
state export.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/app"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
	"github.com/iov-one/escrowd/store/iavl"
	"github.com/iov-one/escrowd/x"
	"github.com/iov-one/escrowd/x/cash"
	"github.com/iov-one/escrowd/x/escrow"
	"github.com/iov-one/escrowd/x/sigs"
	"github.com/iov-one/escrowd/x/utils"
)

// Name is reported through abci Info.
const Name = "escrowd"

// Stack returns the handler processing every escrowd transaction.
//
// Signatures are verified and the fee is taken before the message is
// routed. The savepoint below the fee keeps the fee and the bumped
// sequence of a delivered transaction whose message failed. Checks never
// change the state.
func Stack() escrowd.Handler {
	auth := x.ChainAuth(sigs.Authenticate{})
	wallets := cash.NewController(cash.NewWalletBucket())

	r := app.NewRouter()
	cash.RegisterRoutes(r, auth, wallets)
	escrow.RegisterRoutes(r, auth, wallets)
	sigs.RegisterRoutes(r, auth)

	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewKeyTagger(),
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		cash.NewFeeDecorator(auth, wallets),
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	).WithHandler(r)
}

// QueryRouter serves "/wallets", "/auth" and "/escrows" with their
// indexes, and the raw store under "/".
func QueryRouter() escrowd.QueryRouter {
	r := escrowd.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		escrow.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Initializers loads the genesis state. Cash runs first because genesis
// escrows are minted into custody through the wallet controller.
func Initializers() escrowd.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		&escrow.Initializer{Minter: cash.NewController(cash.NewWalletBucket())},
	)
}

// Application serves h over the store at dbPath. An empty dbPath keeps the
// state in memory.
func Application(name string, h escrowd.Handler, decoder escrowd.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	state := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	state.WithInit(Initializers())
	return app.NewBaseApp(state, decoder, h, debug), nil
}

// CommitKVStore opens the iavl store at dbPath, or an in-memory one for an
// empty path. A ".db" extension is ignored, as leveldb appends its own.
func CommitKVStore(dbPath string) (escrowd.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "database path %q", dbPath)
	}
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
}
