package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the parts of abci.Application that deal with state:
// handshake, genesis, block boundaries, commits and queries. BaseApp adds
// transaction processing on top.
//
// ABCI calls that carry no user input panic on failure. Tendermint cannot
// recover from them and a crashed node is easier to notice than a forked
// one.
type StoreApp struct {
	name        string
	logger      log.Logger
	state       *state
	init        escrowd.Initializer
	queryRouter escrowd.QueryRouter

	// chainID is empty until genesis is loaded.
	chainID string
	// appCtx lives as long as the application, blockCtx is replaced on
	// every BeginBlock.
	appCtx   escrowd.Context
	blockCtx escrowd.Context
}

// NewStoreApp opens db and restores the chain id and height of the last
// commit. It panics when db cannot be read.
func NewStoreApp(name string, db escrowd.CommitKVStore, qr escrowd.QueryRouter, ctx escrowd.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		state:       loadState(db),
		queryRouter: qr,
		appCtx:      ctx,
	}
	s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(s.DeliverStore())
	if err != nil {
		panic(err)
	}
	if chainID != "" {
		s.setChainID(chainID)
	}
	id, err := s.state.latest()
	if err != nil {
		panic(err)
	}
	s.blockCtx = escrowd.WithHeight(s.appCtx, id.Version)
	return s
}

// WithInit sets the genesis loader called by InitChain.
func (s *StoreApp) WithInit(init escrowd.Initializer) *StoreApp {
	s.init = init
	return s
}

// WithLogger sets the logger of the application and of every context it
// creates from now on.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.appCtx = escrowd.WithLogger(s.appCtx, logger)
	return s
}

func (s *StoreApp) Logger() log.Logger { return s.logger }

// GetChainID is empty before genesis.
func (s *StoreApp) GetChainID() string { return s.chainID }

// BlockContext carries the chain id, logger, height, header and time of
// the current block.
func (s *StoreApp) BlockContext() escrowd.Context { return s.blockCtx }

// DeliverStore is the working state of the current block.
func (s *StoreApp) DeliverStore() escrowd.CacheableKVStore { return s.state.deliver }

// CheckStore is the scratch state used to validate mempool transactions.
func (s *StoreApp) CheckStore() escrowd.CacheableKVStore { return s.state.check }

func (s *StoreApp) setChainID(chainID string) {
	s.chainID = chainID
	s.appCtx = escrowd.WithChainID(s.appCtx, chainID)
}

func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	id, err := s.state.latest()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          escrowd.Version(),
		LastBlockHeight:  id.Version,
		LastBlockAppHash: id.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not supported"}
}

// InitChain stores the chain id and loads app_state through the
// initializer. It runs once in the life of a chain.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (s *StoreApp) loadGenesis(chainID string, appState []byte) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrInvalidState, "genesis of %s already loaded", s.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "genesis has no app_state, run init first")
	}
	var opts escrowd.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "app_state: %s", err)
	}
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.setChainID(chainID)
	if s.init == nil {
		return nil
	}
	return s.init.FromGenesis(opts, s.DeliverStore())
}

func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := escrowd.WithHeader(s.appCtx, req.Header)
	ctx = escrowd.WithHeight(ctx, req.Header.Height)
	if !req.Header.Time.IsZero() {
		ctx = escrowd.WithBlockTime(ctx, req.Header.Time)
	}
	s.blockCtx = ctx
	return abci.ResponseBeginBlock{}
}

// EndBlock never changes the validator set.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.state.commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// Query reads the last committed state. The path selects a registered
// handler: "/" for raw keys or "/<bucket>" for a bucket. A "?<mod>"
// suffix is passed to the handler, "?prefix" turns a key lookup into a
// prefix scan. Key and Value of the response are ResultSets of equal
// length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := req.Path, ""
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path, mod = path[:i], path[i+1:]
	}
	h := s.queryRouter.Handler(path)
	if h == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}

	id, err := s.state.latest()
	if err != nil {
		return queryError(err)
	}
	db := s.state.committed.CacheWrap()
	defer db.Discard()

	models, err := h.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	keys, err := ResultsFromKeys(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	values, err := ResultsFromValues(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	return abci.ResponseQuery{Height: id.Version, Key: keys, Value: values}
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}
