package cash

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/gconf"
	"github.com/iov-one/escrowd/x"
)

// sendTxCost is the gas allocated to a SendMsg.
const sendTxCost = 100

func RegisterRoutes(r escrowd.Registry, auth x.Authenticator, control Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
	r.Handle((&UpdateConfigurationMsg{}).Path(), NewConfigHandler(auth))
}

// RegisterQuery exposes wallets under the "/wallets" path.
func RegisterQuery(qr escrowd.QueryRouter) {
	NewWalletBucket().Register("wallets", qr)
}

// SendHandler moves coins between wallets.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ escrowd.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{auth: auth, control: control}
}

func (h SendHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if _, err := h.load(ctx, tx); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h SendHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	msg, err := h.load(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	escrowd.GetLogger(ctx).Debug("send",
		"from", msg.Source, "to", msg.Destination, "amount", msg.Amount.String())
	return &escrowd.DeliverResult{}, nil
}

// load returns the validated message, signed by its source.
func (h SendHandler) load(ctx escrowd.Context, tx escrowd.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Source, "account owner"); err != nil {
		return nil, err
	}
	return &msg, nil
}

// NewConfigHandler lets the configuration owner patch the cash
// configuration.
func NewConfigHandler(auth x.Authenticator) escrowd.Handler {
	var conf Configuration
	return gconf.NewUpdateConfigurationHandler(confPkg, &conf, auth)
}
