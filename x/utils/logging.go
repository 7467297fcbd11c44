package utils

import (
	"time"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// Logging writes one line per processed transaction with its message path,
// its duration in microseconds and the result log. Failures are logged as
// errors. Successful checks are logged at debug level and successful
// deliveries at info level.
type Logging struct{}

var _ escrowd.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var msg string
	if res != nil {
		msg = res.Log
	}
	logTx(ctx, tx, start, msg, err, true)
	return res, err
}

func (Logging) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var msg string
	if res != nil {
		msg = res.Log
	}
	logTx(ctx, tx, start, msg, err, false)
	return res, err
}

// logTx emits an entry even when msg is empty, for the path and duration.
func logTx(ctx escrowd.Context, tx escrowd.Tx, start time.Time, msg string, err error, check bool) {
	logger := escrowd.GetLogger(ctx).With(
		"path", escrowd.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond,
	)
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case check:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}

// Recovery turns a panic in the wrapped handler into an ErrPanic and logs
// it.
type Recovery struct{}

var _ escrowd.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (_ *escrowd.CheckResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (_ *escrowd.DeliverResult, err error) {
	defer logPanic(ctx, &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

// logPanic is deferred first, so it sees the error set by errors.Recover.
func logPanic(ctx escrowd.Context, err *error) {
	if errors.ErrPanic.Is(*err) {
		escrowd.GetLogger(ctx).Error("recovered from panic", "err", *err)
	}
}
