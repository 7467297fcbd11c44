package escrowdtest

import "github.com/iov-one/escrowd"

// Handler answers with the configured results and counts its calls. A
// non nil CheckErr or DeliverErr replaces the result.
type Handler struct {
	CheckResult   escrowd.CheckResult
	CheckErr      error
	DeliverResult escrowd.DeliverResult
	DeliverErr    error

	Checks   int
	Delivers int
}

var _ escrowd.Handler = (*Handler)(nil)

func (h *Handler) Check(escrowd.Context, escrowd.KVStore, escrowd.Tx) (*escrowd.CheckResult, error) {
	h.Checks++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(escrowd.Context, escrowd.KVStore, escrowd.Tx) (*escrowd.DeliverResult, error) {
	h.Delivers++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// Calls is the number of Check and Deliver calls together.
func (h *Handler) Calls() int { return h.Checks + h.Delivers }

// Decorator passes calls to the next handler unless CheckErr or DeliverErr
// is set, and counts them either way.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	Checks   int
	Delivers int
}

var _ escrowd.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	d.Checks++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	d.Delivers++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Calls is the number of Check and Deliver calls together.
func (d *Decorator) Calls() int { return d.Checks + d.Delivers }

// Decorate returns h wrapped by d.
func Decorate(h escrowd.Handler, d escrowd.Decorator) escrowd.Handler {
	return decorated{next: h, dec: d}
}

type decorated struct {
	next escrowd.Handler
	dec  escrowd.Decorator
}

func (d decorated) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}

// WriteHandler stores Value under Key and then fails with Err, if set. It
// shows whether writes of a failed call are rolled back.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ escrowd.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(_ escrowd.Context, db escrowd.KVStore, _ escrowd.Tx) (*escrowd.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &escrowd.CheckResult{}, nil
}

func (h *WriteHandler) Deliver(_ escrowd.Context, db escrowd.KVStore, _ escrowd.Tx) (*escrowd.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &escrowd.DeliverResult{}, nil
}

// PanicHandler panics with Msg on every call.
type PanicHandler struct {
	Msg string
}

func (p PanicHandler) Check(escrowd.Context, escrowd.KVStore, escrowd.Tx) (*escrowd.CheckResult, error) {
	panic(p.Msg)
}

func (p PanicHandler) Deliver(escrowd.Context, escrowd.KVStore, escrowd.Tx) (*escrowd.DeliverResult, error) {
	panic(p.Msg)
}
