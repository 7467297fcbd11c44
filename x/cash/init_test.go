package cash

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genesisConf = `"conf": {
	"cash": {
		"ticker": "ESC",
		"reserve": "10 ESC",
		"collector_address": "3AFCDAB4CFBF066E959D139251C8F0EE91E99D5A"
	}
}`

func TestGenesisAccounts(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		want    map[string]uint64
	}{
		"no accounts": {
			genesis: `{` + genesisConf + `}`,
			want:    map[string]uint64{},
		},
		"two accounts": {
			genesis: `{` + genesisConf + `, "cash": [
				{"address": "C30A2424104F542576EF01FECA2FF558F5EAA61A", "balance": "50 ESC"},
				{"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "balance": {"ticker": "ESC", "amount": 7}}
			]}`,
			want: map[string]uint64{
				"C30A2424104F542576EF01FECA2FF558F5EAA61A": 50,
				"E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0": 7,
			},
		},
		"foreign ticker": {
			genesis: `{` + genesisConf + `, "cash": [
				{"address": "C30A2424104F542576EF01FECA2FF558F5EAA61A", "balance": "50 FOO"}
			]}`,
			wantErr: errors.ErrCurrencyMismatch,
		},
		"duplicated account": {
			genesis: `{` + genesisConf + `, "cash": [
				{"address": "C30A2424104F542576EF01FECA2FF558F5EAA61A", "balance": "50 ESC"},
				{"address": "C30A2424104F542576EF01FECA2FF558F5EAA61A", "balance": "1 ESC"}
			]}`,
			wantErr: errors.ErrDuplicate,
		},
		"missing configuration": {
			genesis: `{"cash": []}`,
			wantErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts escrowd.Options
			require.NoError(t, json.Unmarshal([]byte(tc.genesis), &opts))

			db := store.MemStore()
			err := Initializer{}.FromGenesis(opts, db)
			require.True(t, tc.wantErr.Is(err), "%+v", err)
			if tc.wantErr != nil {
				return
			}

			conf, err := LoadConfiguration(db)
			require.NoError(t, err)
			assert.Equal(t, coin.NewCoin(10, "ESC"), conf.Reserve)

			ctrl := NewController(NewWalletBucket())
			for hexAddr, amount := range tc.want {
				addr, err := escrowd.ParseAddress(hexAddr)
				require.NoError(t, err)
				got, err := ctrl.Balance(db, addr)
				require.NoError(t, err)
				assert.Equal(t, coin.NewCoin(amount, "ESC"), got)
			}
		})
	}
}
