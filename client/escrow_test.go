package client

import (
	"context"
	"testing"

	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/escrowdtest"
	"github.com/iov-one/escrowd/x/cash"
	"github.com/iov-one/escrowd/x/escrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feesFrom(key *crypto.PrivateKey) *cash.FeeInfo {
	return &cash.FeeInfo{
		Payer: key.PublicKey().Address(),
		Fees:  coin.NewCoinp(1, "ESC"),
	}
}

func TestChainID(t *testing.T) {
	c := NewLocalClient(node)
	chainID, err := c.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, getChainID(), chainID)
}

func TestWalletQuery(t *testing.T) {
	c := NewLocalClient(node)

	_, err := c.GetWallet([]byte{1, 2, 3, 4})
	assert.Error(t, err)

	wallet, err := c.GetWallet(GenPrivateKey().PublicKey().Address())
	require.NoError(t, err)
	assert.Nil(t, wallet)

	// the faucet balance only goes down while the tests run
	wallet, err = c.GetWallet(faucet.PublicKey().Address())
	require.NoError(t, err)
	require.NotNil(t, wallet)
	assert.Equal(t, "ESC", wallet.Balance.Ticker)
	assert.True(t, wallet.Balance.Amount > 0)
	assert.True(t, wallet.Balance.Amount <= initBalance)
}

func TestEscrowLifecycle(t *testing.T) {
	c := NewLocalClient(node)
	ctx, cancel := timeoutCtx()
	defer cancel()

	alice := GenPrivateKey()
	bob := GenPrivateKey()
	faucetNonce := NewNonce(c, faucet.PublicKey().Address())
	aliceNonce := NewNonce(c, alice.PublicKey().Address())

	// fund alice so she can pay for the escrow, its reserve and the fees
	send := BuildSendTx(faucet.PublicKey().Address(), alice.PublicKey().Address(),
		coin.NewCoin(1000, "ESC"), "funding", feesFrom(faucet))
	_, err := c.SignAndCommit(ctx, send, faucet, faucetNonce)
	require.NoError(t, err)

	create, handle := BuildCreateEscrowTx(alice.PublicKey().Address(), bob.PublicKey().Address(),
		coin.NewCoin(300, "ESC"), feesFrom(alice))
	res, err := c.SignAndCommit(ctx, create, alice, aliceNonce)
	require.NoError(t, err)
	assert.True(t, res.Height > 0)

	e, err := c.GetEscrow(handle)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, uint64(300), e.Amount.Amount)
	assert.Equal(t, alice.PublicKey().Address(), e.Initializer)

	byInit, err := c.EscrowsByInitializer(alice.PublicKey().Address())
	require.NoError(t, err)
	require.Len(t, byInit, 1)
	assert.Equal(t, handle, byInit[0].Handle)

	byRcpt, err := c.EscrowsByRecipient(bob.PublicKey().Address())
	require.NoError(t, err)
	require.Len(t, byRcpt, 1)

	// 1000 - 300 custody - 1 reserve - 1 fee
	wallet, err := c.GetWallet(alice.PublicKey().Address())
	require.NoError(t, err)
	assert.Equal(t, uint64(698), wallet.Balance.Amount)

	release := BuildReleaseEscrowTx(handle, alice.PublicKey().Address(), bob.PublicKey().Address(), feesFrom(alice))
	_, err = c.SignAndCommit(ctx, release, alice, aliceNonce)
	require.NoError(t, err)

	wallet, err = c.GetWallet(bob.PublicKey().Address())
	require.NoError(t, err)
	require.NotNil(t, wallet)
	assert.Equal(t, uint64(300), wallet.Balance.Amount)

	e, err = c.GetEscrow(handle)
	require.NoError(t, err)
	assert.Nil(t, e)

	for _, tag := range []string{escrow.TagCreated, escrow.TagReleased} {
		found, err := c.SearchTx(ctx, QueryEscrowEvent(tag, handle))
		require.NoError(t, err)
		require.Len(t, found, 1, tag)
		assert.NoError(t, found[0].Err)
	}

	// a released escrow cannot be cancelled
	cancelTx := BuildCancelEscrowTx(handle, alice.PublicKey().Address(), feesFrom(alice))
	_, err = c.SignAndCommit(ctx, cancelTx, alice, aliceNonce)
	assert.True(t, errors.ErrNotFound.Is(err), "unexpected error: %v", err)

	user, err := c.GetUser(alice.PublicKey().Address())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(2), user.Sequence)
}

func TestEscrowCancelByClient(t *testing.T) {
	c := NewLocalClient(node)
	ctx, cancel := timeoutCtx()
	defer cancel()

	rcpt := GenPrivateKey().PublicKey().Address()
	nonce := NewNonce(c, faucet.PublicKey().Address())

	create, handle := BuildCreateEscrowTx(faucet.PublicKey().Address(), rcpt, coin.NewCoin(50, "ESC"), feesFrom(faucet))
	_, err := c.SignAndCommit(ctx, create, faucet, nonce)
	require.NoError(t, err)

	before, err := c.GetWallet(faucet.PublicKey().Address())
	require.NoError(t, err)

	cancelTx := BuildCancelEscrowTx(handle, faucet.PublicKey().Address(), feesFrom(faucet))
	_, err = c.SignAndCommit(ctx, cancelTx, faucet, nonce)
	require.NoError(t, err)

	after, err := c.GetWallet(faucet.PublicKey().Address())
	require.NoError(t, err)
	// custody and reserve come back, the fee is paid
	assert.Equal(t, before.Balance.Amount+50+1-1, after.Balance.Amount)

	e, err := c.GetEscrow(handle)
	require.NoError(t, err)
	assert.Nil(t, e)

	w, err := c.GetWallet(rcpt)
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestNonceCache(t *testing.T) {
	c := NewLocalClient(node)
	addr := GenPrivateKey().PublicKey().Address()
	n := NewNonce(c, addr)

	first, err := n.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(0), first)

	second, err := n.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), second)

	n.Reset()
	again, err := n.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(0), again)
}

func TestGetEscrowInvalidHandle(t *testing.T) {
	c := NewLocalClient(node)
	_, err := c.GetEscrow([]byte("short"))
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestNewHandle(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		h := NewHandle()
		require.NoError(t, escrow.ValidateHandle(h))
		require.False(t, seen[string(h)], "handle %X returned twice", h)
		seen[string(h)] = true
	}

	tx, handle := BuildCreateEscrowTx(escrowdtest.RandomAddr(t), escrowdtest.RandomAddr(t), coin.NewCoin(5, "ESC"), nil)
	msg, err := tx.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, handle, msg.(*escrow.CreateMsg).EscrowID)
}
