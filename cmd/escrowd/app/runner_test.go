package app

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/app"
	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x/cash"
	"github.com/iov-one/escrowd/x/sigs"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

const testChainID = "escrowd-test"

// runner drives an application through blocks the way tendermint does.
type runner struct {
	t      *testing.T
	app    app.BaseApp
	height int64
	now    time.Time
}

func newRunner(t *testing.T, genesis interface{}) *runner {
	t.Helper()
	application, err := Application(Name, Stack(), TxDecoder, "", false)
	require.NoError(t, err)

	raw, err := json.Marshal(genesis)
	require.NoError(t, err)

	r := &runner{
		t:   t,
		app: application,
		now: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	// genesis state is committed with the first block
	r.app.InitChain(abci.RequestInitChain{
		ChainId:       testChainID,
		AppStateBytes: raw,
	})
	r.inBlock(func() {})
	return r
}

// inBlock wraps fn between BeginBlock and Commit.
func (r *runner) inBlock(fn func()) {
	r.height++
	r.now = r.now.Add(5 * time.Second)
	r.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: testChainID, Height: r.height, Time: r.now},
	})
	fn()
	r.app.EndBlock(abci.RequestEndBlock{Height: r.height})
	r.app.Commit()
}

// sign builds a transaction for msg signed by all signers with their
// current nonces.
func (r *runner) sign(msg escrowd.Msg, fees *cash.FeeInfo, signers ...*crypto.PrivateKey) *Tx {
	r.t.Helper()
	tx, err := NewTx(msg)
	require.NoError(r.t, err)
	tx.Fees = fees
	for _, s := range signers {
		nonce, err := sigs.NextNonce(r.store(), s.PublicKey().Address())
		require.NoError(r.t, err)
		sig, err := sigs.SignTx(s, tx, testChainID, nonce)
		require.NoError(r.t, err)
		tx.Signatures = append(tx.Signatures, sig)
	}
	return tx
}

// deliver runs CheckTx and DeliverTx of tx in its own block and returns
// the deliver result.
func (r *runner) deliver(tx *Tx) (*escrowd.DeliverResult, error) {
	r.t.Helper()
	raw, err := tx.Marshal()
	require.NoError(r.t, err)

	var (
		res      *escrowd.DeliverResult
		checkErr error
	)
	r.inBlock(func() {
		check := r.app.CheckTx(raw)
		if check.Code != errors.SuccessABCICode {
			checkErr = errors.ABCIError(check.Code, check.Log)
			return
		}
		res, err = escrowd.ParseDeliverOrError(r.app.DeliverTx(raw))
	})
	if checkErr != nil {
		return nil, checkErr
	}
	return res, err
}

func (r *runner) store() escrowd.ReadOnlyKVStore {
	return app.NewABCIStore(r.app)
}

func (r *runner) balance(addr escrowd.Address) uint64 {
	r.t.Helper()
	var w cash.Wallet
	switch err := cash.NewWalletBucket().One(r.store(), addr, &w); {
	case err == nil:
		return w.Balance.Amount
	case errors.ErrNotFound.Is(err):
		return 0
	default:
		r.t.Fatalf("cannot load wallet: %s", err)
		return 0
	}
}

// query runs a raw abci query and returns the number of matching models.
func (r *runner) query(path string, data []byte) int {
	r.t.Helper()
	res := r.app.Query(abci.RequestQuery{Path: path, Data: data})
	require.Equal(r.t, uint32(errors.SuccessABCICode), res.Code, res.Log)
	var values app.ResultSet
	require.NoError(r.t, values.Unmarshal(res.Value))
	return len(values.Results)
}
