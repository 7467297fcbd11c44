package client

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// indexDelay is the time the node needs to index a block after its header
// was published.
const indexDelay = 100 * time.Millisecond

// waitForIndex lets SearchTx and the queries see the block that was just
// announced.
func waitForIndex() {
	time.Sleep(indexDelay)
}

// CommitTx submits tx and waits for its block.
func (c *Client) CommitTx(ctx context.Context, tx escrowd.Tx) (*CommitResult, error) {
	id, err := c.SubmitTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	res, err := c.WatchTx(ctx, id)
	if err != nil {
		return nil, err
	}
	waitForIndex()
	return res, nil
}

// CommitTxs submits all transactions in order, then waits for all of them.
// The first rejected submission stops the call.
func (c *Client) CommitTxs(ctx context.Context, txs []escrowd.Tx) ([]*CommitResult, error) {
	ids := make([]TransactionID, 0, len(txs))
	for i, tx := range txs {
		id, err := c.SubmitTx(ctx, tx)
		if err != nil {
			return nil, errors.Wrapf(err, "tx %d", i)
		}
		ids = append(ids, id)
	}
	return c.WatchTxs(ctx, ids)
}

// WatchTxs watches all transactions concurrently. Every failure is
// returned, combined into one error.
func (c *Client) WatchTxs(ctx context.Context, ids []TransactionID) ([]*CommitResult, error) {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	results := make([]*CommitResult, len(ids))
	for i, id := range ids {
		if id == nil {
			continue
		}
		wg.Add(1)
		go func(i int, id TransactionID) {
			defer wg.Done()
			res, err := c.WatchTx(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			results[i] = res
			errs = errors.Append(errs, err)
		}(i, id)
	}
	wg.Wait()
	if errs != nil {
		return nil, errs
	}
	return results, nil
}
