package escrowd

import (
	"github.com/iov-one/escrowd/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is what a handler returns after a successful state
// transition. A failed transition is always reported with an error, never
// with a result carrying a code.
type DeliverResult struct {
	// Data is returned to the client, for example the handle of a new escrow.
	Data []byte
	Log  string
	// Tags are indexed by tendermint and make the transaction searchable,
	// for example by the escrow it created or closed.
	Tags    []common.KVPair
	GasUsed int64
}

// AddTag attaches a searchable key/value pair to the result.
func (d *DeliverResult) AddTag(key, value []byte) {
	d.Tags = append(d.Tags, common.KVPair{Key: key, Value: value})
}

// ToABCI returns the tendermint response with a success code.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{Data: d.Data, Log: d.Log, Tags: d.Tags, GasUsed: d.GasUsed}
}

// CheckResult is what a handler returns when a transaction may enter the
// mempool.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the cost the handler expects the delivery to have.
	GasAllocated int64
}

// ToABCI returns the tendermint response with a success code.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{Data: c.Data, Log: c.Log, GasWanted: c.GasAllocated}
}

// DeliverOrError converts the outcome of a Deliver call into a response.
// Unless debug is set, errors that are not registered are redacted.
func DeliverOrError(res *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err == nil {
		return res.ToABCI()
	}
	return DeliverTxError(err, debug)
}

// CheckOrError converts the outcome of a Check call into a response.
func CheckOrError(res *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err == nil {
		return res.ToABCI()
	}
	return CheckTxError(err, debug)
}

// DeliverTxError builds a failed DeliverTx response. The code is the one
// registered for the root cause of err.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := failure("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError builds a failed CheckTx response.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := failure("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func failure(stage string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, "cannot " + stage + " tx: " + log
}

// ParseDeliverOrError reads a DeliverTx response the way a client sees it.
// A response with a failure code becomes an error of the matching
// registered type, so callers can test it with Is.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	out := DeliverResult{
		Data:    res.Data,
		Log:     res.Log,
		Tags:    res.Tags,
		GasUsed: res.GasUsed,
	}
	return &out, nil
}
