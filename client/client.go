package client

import (
	"context"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	nm "github.com/tendermint/tendermint/node"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	tmtypes "github.com/tendermint/tendermint/types"
)

// searchPageSize is the number of transactions requested per TxSearch page.
const searchPageSize = 50

// Client reads the state of an escrowd node and submits transactions to
// it. The escrow operations are in escrow.go.
type Client struct {
	conn rpcclient.Client
	// name prefixes every subscription made by this client.
	name string
}

// NewClient uses an existing tendermint rpc connection.
func NewClient(conn rpcclient.Client) *Client {
	return &Client{conn: conn, name: "escrowd-" + cmn.RandStr(8)}
}

// NewLocalClient talks to a node running in the same process.
func NewLocalClient(node *nm.Node) *Client {
	return NewClient(rpcclient.NewLocal(node))
}

// NewHTTPClient talks to the rpc server at remote, for example
// "tcp://localhost:26657". Subscriptions go through its websocket endpoint.
func NewHTTPClient(remote string) *Client {
	return NewClient(rpcclient.NewHTTP(remote, "/websocket"))
}

func networkErr(op string, err error) error {
	return errors.Wrapf(errors.ErrNetwork, "%s: %s", op, err)
}

func (c *Client) Status(ctx context.Context) (*Status, error) {
	res, err := c.conn.Status()
	if err != nil {
		return nil, networkErr("status", err)
	}
	return &Status{
		Height:     res.SyncInfo.LatestBlockHeight,
		CatchingUp: res.SyncInfo.CatchingUp,
	}, nil
}

// ChainID is read from the genesis document of the node.
func (c *Client) ChainID(ctx context.Context) (string, error) {
	res, err := c.conn.Genesis()
	if err != nil {
		return "", networkErr("genesis", err)
	}
	return res.Genesis.ChainID, nil
}

// Header returns ErrNotFound for a height the node has not reached.
func (c *Client) Header(ctx context.Context, height int64) (*Header, error) {
	res, err := c.conn.BlockchainInfo(height, height)
	if err != nil {
		return nil, networkErr("blockchain info", err)
	}
	if len(res.BlockMetas) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "header at height %d", height)
	}
	return &res.BlockMetas[0].Header, nil
}

// SubmitTx returns once the node accepted tx into its mempool. A failed
// check is returned as the registered error of its code. Use WatchTx or
// CommitTx to learn the delivery result.
func (c *Client) SubmitTx(ctx context.Context, tx escrowd.Tx) (TransactionID, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "encode tx")
	}
	res, err := c.conn.BroadcastTxSync(raw)
	if err != nil {
		return nil, networkErr("broadcast", err)
	}
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return res.Hash, nil
}

// Query implements the abci query call, so the client can back an
// app.ABCIStore. A transport failure is reported as an ErrNetwork code.
func (c *Client) Query(q RequestQuery) ResponseQuery {
	opts := rpcclient.ABCIQueryOptions{Height: q.Height, Prove: q.Prove}
	res, err := c.conn.ABCIQueryWithOptions(q.Path, q.Data, opts)
	if err != nil {
		code, log := errors.ABCIInfo(networkErr("abci query", err), false)
		return ResponseQuery{Code: code, Log: log}
	}
	return res.Response
}

// GetTxByID fails when the transaction is not indexed yet.
func (c *Client) GetTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	res, err := c.conn.Tx(id, false)
	if err != nil {
		return nil, networkErr("tx", err)
	}
	r := commitResult(res.Hash, res.Height, res.TxResult)
	return &r, nil
}

// SearchTx walks all result pages and returns every matching transaction.
func (c *Client) SearchTx(ctx context.Context, query TxQuery) ([]*CommitResult, error) {
	var found []*CommitResult
	for page := 1; ; page++ {
		res, err := c.conn.TxSearch(query, false, page, searchPageSize)
		if err != nil {
			return nil, networkErr("tx search", err)
		}
		for _, tx := range res.Txs {
			r := commitResult(tx.Hash, tx.Height, tx.TxResult)
			found = append(found, &r)
		}
		if len(res.Txs) == 0 || len(found) >= res.TotalCount {
			return found, nil
		}
	}
}

func commitResult(id TransactionID, height int64, deliver abci.ResponseDeliverTx) CommitResult {
	res, err := escrowd.ParseDeliverOrError(deliver)
	return CommitResult{ID: id, Height: height, Result: res, Err: err}
}

func eventResult(ev tmtypes.EventDataTx) CommitResult {
	return commitResult(ev.Tx.Hash(), ev.Height, ev.Result)
}
