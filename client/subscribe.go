package client

import (
	"context"
	"fmt"

	"github.com/iov-one/escrowd/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmquery "github.com/tendermint/tendermint/libs/pubsub/query"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// subscribe returns the raw event stream for query. The subscription is
// removed from the node once ctx is done.
func (c *Client) subscribe(ctx context.Context, query string) (<-chan ctypes.ResultEvent, error) {
	q, err := tmquery.New(query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "query %q: %s", query, err)
	}
	subscriber := c.name + "-" + cmn.RandStr(8)
	events, err := c.conn.Subscribe(ctx, subscriber, q.String())
	if err != nil {
		return nil, networkErr("subscribe", err)
	}
	go func() {
		<-ctx.Done()
		_ = c.conn.Unsubscribe(context.Background(), subscriber, q.String())
	}()
	return events, nil
}

// SubscribeHeaders sends every new block header to out until ctx is done.
// out is closed when the subscription ends.
func (c *Client) SubscribeHeaders(ctx context.Context, out chan<- Header) error {
	events, err := c.subscribe(ctx, eventQuery(tmtypes.EventNewBlockHeader))
	if err != nil {
		return err
	}
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if h, ok := ev.Data.(tmtypes.EventDataNewBlockHeader); ok {
					select {
					case out <- h.Header:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
	return nil
}

// SubscribeTx sends every delivered transaction matching query to out
// until ctx is done. out is closed when the subscription ends.
func (c *Client) SubscribeTx(ctx context.Context, query TxQuery, out chan<- CommitResult) error {
	q := fmt.Sprintf("%s AND %s", eventQuery(tmtypes.EventTx), query)
	events, err := c.subscribe(ctx, q)
	if err != nil {
		return err
	}
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if tx, ok := ev.Data.(tmtypes.EventDataTx); ok {
					select {
					case out <- eventResult(tx):
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
	return nil
}

// WatchTx blocks until the transaction is in a block. A transaction
// committed before the call is found through the tx index.
func (c *Client) WatchTx(ctx context.Context, id TransactionID) (*CommitResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	txs := make(chan CommitResult, 1)
	if err := c.SubscribeTx(ctx, QueryTxByID(id), txs); err != nil {
		return nil, err
	}
	if res, err := c.GetTxByID(ctx, id); err == nil {
		return res, nil
	}
	select {
	case res, ok := <-txs:
		if ok {
			return &res, nil
		}
	case <-ctx.Done():
	}
	return nil, errors.Wrapf(errors.ErrTimeout, "tx %X not committed", id)
}

// WaitForNextBlock returns the first header published after the call.
func (c *Client) WaitForNextBlock(ctx context.Context) (*Header, error) {
	return c.waitForHeader(ctx, func(Header) bool { return true })
}

// WaitForHeight returns the first new header at height or above. When the
// chain is already past height this is the next block.
func (c *Client) WaitForHeight(ctx context.Context, height int64) (*Header, error) {
	return c.waitForHeader(ctx, func(h Header) bool { return h.Height >= height })
}

func (c *Client) waitForHeader(ctx context.Context, accept func(Header) bool) (*Header, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headers := make(chan Header, 2)
	if err := c.SubscribeHeaders(ctx, headers); err != nil {
		return nil, err
	}
	for h := range headers {
		if accept(h) {
			waitForIndex()
			return &h, nil
		}
	}
	return nil, errors.Wrap(errors.ErrTimeout, "header subscription closed")
}
