package cash

import (
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/escrowdtest"
	"github.com/iov-one/escrowd/store"
	"github.com/stretchr/testify/require"
)

func TestConfigurationValidate(t *testing.T) {
	collector := escrowdtest.NewCondition().Address()

	cases := map[string]struct {
		conf    Configuration
		wantErr *errors.Error
	}{
		"minimal": {
			conf: Configuration{Ticker: "ESC", CollectorAddress: collector},
		},
		"complete": {
			conf: Configuration{
				Owner:            escrowdtest.NewCondition().Address(),
				Ticker:           "ESC",
				Reserve:          coin.NewCoin(5, "ESC"),
				MinimalFee:       coin.NewCoin(1, "ESC"),
				CollectorAddress: collector,
			},
		},
		"missing ticker": {
			conf:    Configuration{CollectorAddress: collector},
			wantErr: errors.ErrCurrencyMismatch,
		},
		"missing collector": {
			conf:    Configuration{Ticker: "ESC"},
			wantErr: errors.ErrInvalidState,
		},
		"invalid owner": {
			conf:    Configuration{Ticker: "ESC", CollectorAddress: collector, Owner: escrowd.Address{0xff}},
			wantErr: errors.ErrInvalidInput,
		},
		"reserve in a foreign ticker": {
			conf:    Configuration{Ticker: "ESC", CollectorAddress: collector, Reserve: coin.NewCoin(1, "FOO")},
			wantErr: errors.ErrCurrencyMismatch,
		},
		"fee in a foreign ticker": {
			conf:    Configuration{Ticker: "ESC", CollectorAddress: collector, MinimalFee: coin.NewCoin(1, "FOO")},
			wantErr: errors.ErrCurrencyMismatch,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			require.True(t, tc.wantErr.Is(tc.conf.Validate()))
		})
	}
}

func TestLoadConfiguration(t *testing.T) {
	db := store.MemStore()
	_, err := LoadConfiguration(db)
	require.True(t, errors.ErrNotFound.Is(err))

	conf := testConfig(t)
	saveConfig(t, db, conf)
	got, err := LoadConfiguration(db)
	require.Nil(t, err)
	require.Equal(t, conf, got)
	require.Equal(t, coin.NewCoin(10, "ESC"), got.NativeReserve())
}
