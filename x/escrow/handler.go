package escrow

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/gconf"
	"github.com/iov-one/escrowd/x"
	"github.com/iov-one/escrowd/x/cash"
)

const (
	// pay escrow cost up-front
	createEscrowCost  int64 = 300
	releaseEscrowCost int64 = 0
	cancelEscrowCost  int64 = 0
)

// Tag keys set on successful results. The value is the upper case hex
// encoded escrow handle.
const (
	TagCreated   = "escrow.created"
	TagReleased  = "escrow.released"
	TagCancelled = "escrow.cancelled"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r escrowd.Registry, auth x.Authenticator, cashctrl cash.Controller) {
	ctrl := newController(cashctrl, NewBucket())

	r.Handle(pathCreate, CreateEscrowHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathRelease, ReleaseEscrowHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathCancel, CancelEscrowHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathUpdateConfig, NewConfigHandler(auth))
}

// RegisterQuery will register this bucket as "/escrows"
func RegisterQuery(qr escrowd.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// NewConfigHandler returns a handler updating the escrow configuration.
func NewConfigHandler(auth x.Authenticator) escrowd.Handler {
	var conf Configuration
	return gconf.NewUpdateConfigurationHandler(confPkg, &conf, auth)
}

func handleTag(handle []byte) []byte {
	return []byte(strings.ToUpper(hex.EncodeToString(handle)))
}

// CreateEscrowHandler locks funds of the initializer in a new escrow.
type CreateEscrowHandler struct {
	auth x.Authenticator
	ctrl *controller
}

var _ escrowd.Handler = CreateEscrowHandler{}

// Check verifies that the escrow can be created and returns the cost of
// executing it.
func (h CreateEscrowHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{GasAllocated: createEscrowCost}, nil
}

// Deliver stores the escrow and moves the amount together with the reserve
// from the initializer to the custodial account.
func (h CreateEscrowHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	req, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	msg := req.msg

	esc := &Escrow{
		Initializer: req.initializer,
		Recipient:   msg.Recipient,
		Amount:      *msg.Amount,
		Address:     Condition(msg.EscrowID).Address(),
	}
	if now, err := escrowd.BlockTime(ctx); err == nil {
		esc.CreatedAt = escrowd.AsUnixTime(now)
	}
	if err := h.ctrl.deposit(db, msg.EscrowID, esc, req.custody); err != nil {
		return nil, err
	}

	escrowd.GetLogger(ctx).Info("escrow created",
		"escrow", esc.Address,
		"initializer", esc.Initializer,
		"recipient", esc.Recipient,
		"amount", esc.Amount.String())

	res := &escrowd.DeliverResult{Data: msg.EscrowID}
	res.AddTag([]byte(TagCreated), handleTag(msg.EscrowID))
	return res, nil
}

type createRequest struct {
	msg         *CreateMsg
	initializer escrowd.Address
	// custody is the amount together with the reserve.
	custody coin.Coin
}

// validate does all common pre-processing between Check and Deliver.
func (h CreateEscrowHandler) validate(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*createRequest, error) {
	var msg CreateMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	initializer := msg.Initializer
	if len(initializer) == 0 {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		initializer = signer.Address()
	}
	if err := x.RequireSigner(ctx, h.auth, initializer, "initializer"); err != nil {
		return nil, err
	}

	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if initializer.Equals(msg.Recipient) && !conf.SelfEscrowAllowed() {
		return nil, errors.Field("Recipient", errors.ErrInvalidInput, "recipient must differ from initializer")
	}

	cashConf, err := cash.LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if msg.Amount.Ticker != cashConf.Ticker {
		return nil, errors.Wrapf(errors.ErrCurrencyMismatch, "escrow must hold %s", cashConf.Ticker)
	}

	if err := h.ctrl.ensureUnused(db, msg.EscrowID); err != nil {
		return nil, err
	}

	custody, err := msg.Amount.Add(cashConf.NativeReserve())
	if err != nil {
		return nil, errors.Wrap(err, "custody")
	}
	balance, err := h.ctrl.cash.Balance(db, initializer)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "initializer has no funds, needs %s", custody)
	case err != nil:
		return nil, err
	case !balance.IsGTE(custody):
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "initializer holds %s, needs %s", balance, custody)
	}
	return &createRequest{msg: &msg, initializer: initializer, custody: custody}, nil
}

// loadActive loads the escrow and runs the checks shared by release and
// cancel, in order: existence, initializer signature, parties match and
// state. A nil recipient is not compared.
func loadActive(ctx escrowd.Context, auth x.Authenticator, ctrl *controller, db escrowd.KVStore, handle []byte, initializer, recipient escrowd.Address) (*Escrow, error) {
	var esc Escrow
	if err := ctrl.bucket.One(db, handle, &esc); err != nil {
		return nil, errors.Wrap(err, "cannot load escrow from the store")
	}
	if err := x.RequireSigner(ctx, auth, esc.Initializer, "initializer"); err != nil {
		return nil, err
	}
	if !esc.Initializer.Equals(initializer) {
		return nil, errors.Wrapf(ErrPartyMismatch, "initializer %s", initializer)
	}
	if recipient != nil && !esc.Recipient.Equals(recipient) {
		return nil, errors.Wrapf(ErrPartyMismatch, "recipient %s", recipient)
	}
	if esc.Released {
		return nil, errors.Wrap(errors.ErrInvalidState, "escrow already released")
	}
	return &esc, nil
}

// ReleaseEscrowHandler pays an escrow out to its recipient.
type ReleaseEscrowHandler struct {
	auth x.Authenticator
	ctrl *controller
}

var _ escrowd.Handler = ReleaseEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h ReleaseEscrowHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{GasAllocated: releaseEscrowCost}, nil
}

// Deliver moves the escrowed amount to the recipient, the reserve back to
// the initializer and deletes the escrow.
func (h ReleaseEscrowHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	msg, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.release(db, msg.EscrowID, esc); err != nil {
		return nil, err
	}

	escrowd.GetLogger(ctx).Info("escrow released",
		"escrow", esc.Address,
		"recipient", esc.Recipient,
		"amount", esc.Amount.String(),
		"released", esc.Released)

	res := &escrowd.DeliverResult{Data: msg.EscrowID}
	res.AddTag([]byte(TagReleased), handleTag(msg.EscrowID))
	return res, nil
}

func (h ReleaseEscrowHandler) validate(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*ReleaseMsg, *Escrow, error) {
	var msg ReleaseMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	esc, err := loadActive(ctx, h.auth, h.ctrl, db, msg.EscrowID, msg.Initializer, msg.Recipient)
	if err != nil {
		return nil, nil, err
	}
	return &msg, esc, nil
}

// CancelEscrowHandler returns all escrowed funds to the initializer.
type CancelEscrowHandler struct {
	auth x.Authenticator
	ctrl *controller
}

var _ escrowd.Handler = CancelEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h CancelEscrowHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{GasAllocated: cancelEscrowCost}, nil
}

// Deliver moves the whole custody back to the initializer and deletes the
// escrow.
func (h CancelEscrowHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	msg, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	refunded, err := h.ctrl.refund(db, msg.EscrowID, esc)
	if err != nil {
		return nil, err
	}

	escrowd.GetLogger(ctx).Info("escrow cancelled",
		"escrow", esc.Address,
		"initializer", esc.Initializer,
		"refunded", refunded.String())

	res := &escrowd.DeliverResult{Data: msg.EscrowID}
	res.AddTag([]byte(TagCancelled), handleTag(msg.EscrowID))
	return res, nil
}

func (h CancelEscrowHandler) validate(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*CancelMsg, *Escrow, error) {
	var msg CancelMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	esc, err := loadActive(ctx, h.auth, h.ctrl, db, msg.EscrowID, msg.Initializer, nil)
	if err != nil {
		return nil, nil, err
	}
	return &msg, esc, nil
}
