package client

import (
	"context"
	"fmt"
	"time"

	abci "github.com/tendermint/tendermint/abci/types"
	nm "github.com/tendermint/tendermint/node"
	rpctest "github.com/tendermint/tendermint/rpc/test"
)

// TestRunner is satisfied by *testing.M.
type TestRunner interface {
	Run() int
}

// RunWithTendermint serves app from an in-process tendermint node, waits
// for the first block and then runs the tests. setup receives the node
// before any test starts. The node is stopped before returning the exit
// code of the tests.
func RunWithTendermint(app abci.Application, setup func(*nm.Node), tests TestRunner) int {
	node := rpctest.StartTendermint(app)
	defer func() {
		_ = node.Stop()
		node.Wait()
	}()
	setup(node)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := NewLocalClient(node).WaitForNextBlock(ctx); err != nil {
		fmt.Printf("tendermint did not produce a block: %s\n", err)
		return 1
	}
	return tests.Run()
}
