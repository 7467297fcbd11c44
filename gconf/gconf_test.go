package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/escrowdtest"
	"github.com/iov-one/escrowd/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	owner := escrowdtest.RandomAddr(t)

	cases := map[string]struct {
		conf    *feeConfig
		wantErr *errors.Error
	}{
		"complete configuration": {
			conf: &feeConfig{Owner: owner, Limit: 300, Label: "escrow", Fee: coin.NewCoin(5, "ESC")},
		},
		"owner of a wrong length": {
			conf:    &feeConfig{Owner: escrowd.Address("short"), Fee: coin.NewCoin(5, "ESC")},
			wantErr: errors.ErrInvalidInput,
		},
		"fee without a ticker": {
			conf:    &feeConfig{Owner: owner},
			wantErr: errors.ErrCurrencyMismatch,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			err := Save(db, "fees", tc.conf)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)

			var got feeConfig
			require.NoError(t, Load(db, "fees", &got))
			assert.Equal(t, tc.conf, &got)

			err = Load(db, "escrow", &got)
			assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
		})
	}
}

func TestSaveDefaultRemovesConfiguration(t *testing.T) {
	db := store.MemStore()

	require.NoError(t, Save(db, "flags", &flagConfig{}))
	has, err := db.Has([]byte("_c:flags"))
	require.NoError(t, err)
	assert.False(t, has, "empty value must not be written")

	var got flagConfig
	assert.True(t, errors.ErrNotFound.Is(Load(db, "flags", &got)))

	require.NoError(t, Save(db, "flags", &flagConfig{Enabled: true}))
	require.NoError(t, Load(db, "flags", &got))
	assert.True(t, got.Enabled)

	require.NoError(t, Save(db, "flags", &flagConfig{}))
	assert.True(t, errors.ErrNotFound.Is(Load(db, "flags", &got)))
}

func TestInitConfig(t *testing.T) {
	owner := escrowdtest.RandomAddr(t)
	raw := `{
		"conf": {
			"fees": {
				"owner": "` + owner.String() + `",
				"limit": 42,
				"label": "hello",
				"fee": "3 ESC"
			},
			"flags": {}
		}
	}`
	var opts escrowd.Options
	require.NoError(t, json.Unmarshal([]byte(raw), &opts))
	db := store.MemStore()

	var conf feeConfig
	require.NoError(t, InitConfig(db, opts, "fees", &conf))
	var got feeConfig
	require.NoError(t, Load(db, "fees", &got))
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, int64(42), got.Limit)
	assert.Equal(t, coin.NewCoin(3, "ESC"), got.Fee)

	var flags flagConfig
	require.NoError(t, InitConfig(db, opts, "flags", &flags))
	assert.True(t, errors.ErrNotFound.Is(Load(db, "flags", &flags)))

	err := InitConfig(db, opts, "escrow", &conf)
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
}

type feeConfig struct {
	Owner escrowd.Address `json:"owner"`
	Limit int64           `json:"limit"`
	Label string          `json:"label"`
	Fee   coin.Coin       `json:"fee"`
}

func (c *feeConfig) GetOwner() escrowd.Address  { return c.Owner }
func (c *feeConfig) Marshal() ([]byte, error)   { return json.Marshal(c) }
func (c *feeConfig) Unmarshal(raw []byte) error { return json.Unmarshal(raw, c) }

func (c *feeConfig) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Field("Owner", err, "")
	}
	return errors.Field("Fee", c.Fee.Validate(), "")
}

// flagConfig encodes its zero value as no bytes at all.
type flagConfig struct {
	Enabled bool `json:"enabled"`
}

func (c *flagConfig) Validate() error { return nil }

func (c *flagConfig) Marshal() ([]byte, error) {
	if !c.Enabled {
		return nil, nil
	}
	return []byte{1}, nil
}

func (c *flagConfig) Unmarshal(raw []byte) error {
	c.Enabled = len(raw) == 1 && raw[0] == 1
	return nil
}
