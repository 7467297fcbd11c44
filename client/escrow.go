package client

import (
	"context"
	"sync"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/app"
	escrowdapp "github.com/iov-one/escrowd/cmd/escrowd/app"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x/cash"
	"github.com/iov-one/escrowd/x/escrow"
	"github.com/iov-one/escrowd/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
	tmcrypto "github.com/tendermint/tendermint/crypto"
)

// Store returns a read only view of the committed application state.
// Only key lookups and full range iteration are supported.
func (c *Client) Store() escrowd.ReadOnlyKVStore {
	return app.NewABCIStore(c)
}

// GetWallet returns the wallet of the given address or nil if the address
// holds no funds.
func (c *Client) GetWallet(addr escrowd.Address) (*cash.Wallet, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	var w cash.Wallet
	switch err := cash.NewWalletBucket().One(c.Store(), addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// GetUser returns the signature state of the given address or nil if the
// address never signed a transaction.
func (c *Client) GetUser(addr escrowd.Address) (*sigs.UserData, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	obj, err := sigs.NewBucket().Get(c.Store(), addr)
	if err != nil {
		return nil, err
	}
	return sigs.AsUser(obj), nil
}

// GetEscrow returns the escrow stored under the handle or nil if there is
// none.
func (c *Client) GetEscrow(handle []byte) (*escrow.Escrow, error) {
	if err := escrow.ValidateHandle(handle); err != nil {
		return nil, err
	}
	var e escrow.Escrow
	switch err := escrow.NewBucket().One(c.Store(), handle, &e); {
	case err == nil:
		return &e, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// EscrowEntry is an escrow together with its handle.
type EscrowEntry struct {
	Handle []byte
	Escrow *escrow.Escrow
}

// EscrowsByInitializer lists all active escrows created by the address.
func (c *Client) EscrowsByInitializer(addr escrowd.Address) ([]EscrowEntry, error) {
	return c.escrowsByIndex(escrow.IndexInitializer, addr)
}

// EscrowsByRecipient lists all active escrows paying to the address.
func (c *Client) EscrowsByRecipient(addr escrowd.Address) ([]EscrowEntry, error) {
	return c.escrowsByIndex(escrow.IndexRecipient, addr)
}

func (c *Client) escrowsByIndex(index string, addr escrowd.Address) ([]EscrowEntry, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	models, err := c.queryModels("/escrows/"+index, addr)
	if err != nil {
		return nil, err
	}
	out := make([]EscrowEntry, 0, len(models))
	for _, m := range models {
		var e escrow.Escrow
		if err := e.Unmarshal(m.Value); err != nil {
			return nil, errors.Wrap(err, "escrow")
		}
		// Stored keys are the bucket prefix followed by the handle.
		if len(m.Key) < escrow.HandleLength {
			return nil, errors.Wrapf(errors.ErrInvalidState, "escrow key too short: %X", m.Key)
		}
		out = append(out, EscrowEntry{
			Handle: m.Key[len(m.Key)-escrow.HandleLength:],
			Escrow: &e,
		})
	}
	return out, nil
}

// queryModels runs an abci query and joins the returned keys and values.
func (c *Client) queryModels(path string, data []byte) ([]escrowd.Model, error) {
	resp := c.Query(abci.RequestQuery{Path: path, Data: data})
	if resp.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(resp.Code, resp.Log)
	}
	if len(resp.Key) == 0 {
		return nil, nil
	}
	var keys, vals app.ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		return nil, err
	}
	if err := vals.Unmarshal(resp.Value); err != nil {
		return nil, err
	}
	return app.JoinResults(&keys, &vals)
}

// Nonce has a client/address pair, queries for the nonce
// and caches recent nonce locally to quickly sign
type Nonce struct {
	mutex  sync.Mutex
	client *Client
	addr   escrowd.Address
	nonce  int64
	loaded bool
}

// NewNonce creates a nonce for a client / address pair.
// Call Query to force a query, Next to use cache if possible
func NewNonce(client *Client, addr escrowd.Address) *Nonce {
	return &Nonce{client: client, addr: addr}
}

// Query always queries the blockchain for the next nonce
func (n *Nonce) Query() (int64, error) {
	nonce, err := sigs.NextNonce(n.client.Store(), n.addr)
	if err != nil {
		return 0, err
	}
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.nonce = nonce
	n.loaded = true
	return nonce, nil
}

// Next will use a cached value if present, otherwise Query.
// Each call after the first increments the nonce by one, assuming the last
// one was used in a successful transaction.
func (n *Nonce) Next() (int64, error) {
	n.mutex.Lock()
	if n.loaded {
		n.nonce++
		nonce := n.nonce
		n.mutex.Unlock()
		return nonce, nil
	}
	n.mutex.Unlock()
	return n.Query()
}

// Reset drops the cached value, so the next call queries the chain again.
func (n *Nonce) Reset() {
	n.mutex.Lock()
	n.loaded = false
	n.mutex.Unlock()
}

// NewHandle returns a random escrow handle read from the operating system
// entropy source. Handles must not be predictable.
func NewHandle() []byte {
	return tmcrypto.CRandBytes(escrow.HandleLength)
}

// BuildCreateEscrowTx returns an unsigned transaction locking amount for the
// recipient. A random handle is used for the new escrow and returned.
func BuildCreateEscrowTx(initializer, recipient escrowd.Address, amount coin.Coin, fees *cash.FeeInfo) (*escrowdapp.Tx, []byte) {
	handle := NewHandle()
	tx := &escrowdapp.Tx{
		CreateEscrowMsg: &escrow.CreateMsg{
			EscrowID:    handle,
			Initializer: initializer,
			Recipient:   recipient,
			Amount:      &amount,
		},
		Fees: fees,
	}
	return tx, handle
}

// BuildReleaseEscrowTx returns an unsigned transaction paying the escrow to
// its recipient.
func BuildReleaseEscrowTx(handle []byte, initializer, recipient escrowd.Address, fees *cash.FeeInfo) *escrowdapp.Tx {
	return &escrowdapp.Tx{
		ReleaseEscrowMsg: &escrow.ReleaseMsg{
			EscrowID:    handle,
			Initializer: initializer,
			Recipient:   recipient,
		},
		Fees: fees,
	}
}

// BuildCancelEscrowTx returns an unsigned transaction refunding the escrow
// to its initializer.
func BuildCancelEscrowTx(handle []byte, initializer escrowd.Address, fees *cash.FeeInfo) *escrowdapp.Tx {
	return &escrowdapp.Tx{
		CancelEscrowMsg: &escrow.CancelMsg{
			EscrowID:    handle,
			Initializer: initializer,
		},
		Fees: fees,
	}
}

// BuildSendTx returns an unsigned transaction moving funds between wallets.
func BuildSendTx(src, dest escrowd.Address, amount coin.Coin, memo string, fees *cash.FeeInfo) *escrowdapp.Tx {
	return &escrowdapp.Tx{
		SendMsg: &cash.SendMsg{
			Source:      src,
			Destination: dest,
			Amount:      &amount,
			Memo:        memo,
		},
		Fees: fees,
	}
}

// SignTx modifies the tx in-place, adding signatures
func SignTx(tx *escrowdapp.Tx, signer *crypto.PrivateKey, chainID string, nonce int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, nonce)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// SignAndCommit signs the transaction with the next nonce of the signer and
// blocks until it is included in a block. A failed delivery is returned as
// an error.
func (c *Client) SignAndCommit(ctx context.Context, tx *escrowdapp.Tx, signer *crypto.PrivateKey, nonce *Nonce) (*CommitResult, error) {
	chainID, err := c.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	seq, err := nonce.Next()
	if err != nil {
		return nil, errors.Wrap(err, "nonce")
	}
	if err := SignTx(tx, signer, chainID, seq); err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	res, err := c.CommitTx(ctx, tx)
	if err != nil {
		nonce.Reset()
		return nil, err
	}
	if res.Err != nil {
		nonce.Reset()
	}
	return res, res.Err
}
