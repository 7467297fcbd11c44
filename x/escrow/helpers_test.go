package escrow

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/escrowdtest"
	"github.com/iov-one/escrowd/gconf"
	"github.com/iov-one/escrowd/store"
	"github.com/iov-one/escrowd/x/cash"
)

const reserve = 10

// fixture is a ledger with a cash configuration and two funded parties.
type fixture struct {
	db          store.CacheableKVStore
	cash        cash.Controller
	router      *router
	initializer escrowd.Condition
	recipient   escrowd.Condition
}

func newFixture(t testing.TB, funds uint64) *fixture {
	t.Helper()
	db := store.MemStore()
	conf := &cash.Configuration{
		Ticker:           "ESC",
		Reserve:          coin.NewCoin(reserve, "ESC"),
		CollectorAddress: escrowdtest.NewCondition().Address(),
	}
	if err := gconf.Save(db, "cash", conf); err != nil {
		t.Fatalf("cannot save cash configuration: %s", err)
	}
	ctrl := cash.NewController(cash.NewWalletBucket())
	f := &fixture{
		db:          db,
		cash:        ctrl,
		router:      &router{handlers: make(map[string]escrowd.Handler)},
		initializer: escrowdtest.NewCondition(),
		recipient:   escrowdtest.NewCondition(),
	}
	if funds > 0 {
		if err := ctrl.IssueCoins(db, f.initializer.Address(), coin.NewCoin(funds, "ESC")); err != nil {
			t.Fatalf("cannot fund initializer: %s", err)
		}
	}
	return f
}

// deliver runs check and deliver of msg signed by given conditions. Check
// runs on a discarded cache so that it never influences the state.
func (f *fixture) deliver(t testing.TB, msg escrowd.Msg, signers ...escrowd.Condition) (*escrowd.DeliverResult, error) {
	t.Helper()
	auth := &escrowdtest.Auth{Signers: signers}
	h := f.router.with(auth, f.cash).handlers[msg.Path()]
	tx := &escrowdtest.Tx{Msg: msg}
	ctx := context.Background()

	cache := f.db.CacheWrap()
	_, checkErr := h.Check(ctx, cache, tx)
	cache.Discard()

	res, err := h.Deliver(ctx, f.db, tx)
	if (checkErr == nil) != (err == nil) {
		t.Fatalf("check and deliver disagree: %v != %v", checkErr, err)
	}
	return res, err
}

func (f *fixture) balance(t testing.TB, addr escrowd.Address) uint64 {
	t.Helper()
	c, err := f.cash.Balance(f.db, addr)
	if err != nil {
		return 0
	}
	return c.Amount
}

func (f *fixture) escrow(handle []byte) (*Escrow, error) {
	var esc Escrow
	if err := NewBucket().One(f.db, handle, &esc); err != nil {
		return nil, err
	}
	return &esc, nil
}

// router collects handlers registered by RegisterRoutes.
type router struct {
	handlers map[string]escrowd.Handler
}

func (r *router) Handle(path string, h escrowd.Handler) {
	r.handlers[path] = h
}

func (r *router) with(auth *escrowdtest.Auth, ctrl cash.Controller) *router {
	RegisterRoutes(r, auth, ctrl)
	return r
}

func saveConf(f *fixture, c *Configuration) error {
	return gconf.Save(f.db, confPkg, c)
}

func saveCashConf(db escrowd.KVStore, c *cash.Configuration) error {
	return gconf.Save(db, "cash", c)
}

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("cannot decode %q: %s", s, err)
	}
	return b
}
