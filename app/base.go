package app

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds transaction processing to a StoreApp. Raw bytes are turned
// into a Tx by decode and handed to handler, normally the decorator chain
// that ends in the Router.
type BaseApp struct {
	*StoreApp
	decode  escrowd.TxDecoder
	handler escrowd.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns the application. With debug set, error responses
// carry the full error chain.
func NewBaseApp(s *StoreApp, decode escrowd.TxDecoder, h escrowd.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: s, decode: decode, handler: h, debug: debug}
}

func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decodeTx(raw)
	if err != nil {
		return escrowd.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(b.txContext(tx, "check_tx"), b.CheckStore(), tx)
	return escrowd.CheckOrError(res, err, b.debug)
}

func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decodeTx(raw)
	if err != nil {
		return escrowd.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(b.txContext(tx, "deliver_tx"), b.DeliverStore(), tx)
	return escrowd.DeliverOrError(res, err, b.debug)
}

// txContext is the block context with a logger naming the abci call and
// the message path.
func (b BaseApp) txContext(tx escrowd.Tx, call string) escrowd.Context {
	return escrowd.WithLogInfo(b.BlockContext(), "call", call, "path", escrowd.GetPath(tx))
}

// decodeTx reports a panicking decoder as ErrPanic.
func (b BaseApp) decodeTx(raw []byte) (tx escrowd.Tx, err error) {
	defer errors.Recover(&err)
	return b.decode(raw)
}
