package cash

import (
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/escrowdtest"
	"github.com/iov-one/escrowd/gconf"
)

// testConfig returns a valid configuration using ESC as the native ticker.
func testConfig(t testing.TB) *Configuration {
	t.Helper()
	return &Configuration{
		Owner:            escrowdtest.NewCondition().Address(),
		Ticker:           "ESC",
		Reserve:          coin.NewCoin(10, "ESC"),
		CollectorAddress: escrowdtest.NewCondition().Address(),
	}
}

func saveConfig(t testing.TB, db escrowd.KVStore, c *Configuration) {
	t.Helper()
	if err := gconf.Save(db, confPkg, c); err != nil {
		t.Fatalf("cannot save configuration: %s", err)
	}
}

func setBalance(t testing.TB, db escrowd.KVStore, addr escrowd.Address, c coin.Coin) {
	t.Helper()
	w := Wallet{Balance: c}
	if err := NewWalletBucket().Put(db, addr, &w); err != nil {
		t.Fatalf("cannot set %s balance: %s", addr, err)
	}
}
