package client

import (
	"fmt"

	"github.com/iov-one/escrowd"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmtypes "github.com/tendermint/tendermint/types"
)

type (
	// TransactionID is the tendermint hash of an encoded transaction.
	TransactionID = cmn.HexBytes

	// TxQuery is a tendermint tag query, for example "escrow.created='AB12'".
	TxQuery = string

	Header        = tmtypes.Header
	RequestQuery  = abci.RequestQuery
	ResponseQuery = abci.ResponseQuery
)

// CommitResult describes a transaction included in a block. Result is set
// when the transaction was delivered successfully and Err otherwise.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *escrowd.DeliverResult
	Err    error
}

// Status is what the connected node reports about its own progress.
type Status struct {
	Height     int64
	CatchingUp bool
}

// QueryTxByID matches the transaction with the given hash.
func QueryTxByID(id TransactionID) TxQuery {
	return fmt.Sprintf("%s='%X'", tmtypes.TxHashKey, id)
}

// QueryEscrowEvent matches the transaction that tagged handle with an
// escrow event, for example escrow.TagReleased.
func QueryEscrowEvent(tag string, handle []byte) TxQuery {
	return fmt.Sprintf("%s='%X'", tag, handle)
}

func eventQuery(event string) string {
	return fmt.Sprintf("%s='%s'", tmtypes.EventTypeKey, event)
}
