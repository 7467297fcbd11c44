package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

// setupViper creates a homedir to run inside.
func setupViper(t *testing.T) (string, func()) {
	rootDir, err := ioutil.TempDir("", "escrowd-cmd")
	require.NoError(t, err)
	viper.Set(FlagHome, rootDir)
	return rootDir, func() {
		viper.Set(FlagHome, "")
		os.RemoveAll(rootDir)
	}
}

func staticOptions(raw string) GenOptions {
	return func(args []string) (json.RawMessage, error) {
		return json.RawMessage(raw), nil
	}
}

func loadGenesis(t *testing.T, home string) GenesisDoc {
	bz, err := ioutil.ReadFile(GenesisFile(home))
	require.NoError(t, err)
	var doc GenesisDoc
	require.NoError(t, json.Unmarshal(bz, &doc))
	return doc
}

func TestInitCreatesGenesis(t *testing.T) {
	home, cleanup := setupViper(t)
	defer cleanup()

	cmd := InitCmd(staticOptions(`{"cash":[]}`), log.NewNopLogger())
	require.NoError(t, cmd.RunE(cmd, nil))

	doc := loadGenesis(t, home)
	assert.JSONEq(t, `{"cash":[]}`, string(doc["app_state"]))
	var chainID string
	require.NoError(t, json.Unmarshal(doc["chain_id"], &chainID))
	assert.Contains(t, chainID, "test-chain-")
}

func TestInitKeepsExistingGenesis(t *testing.T) {
	home, cleanup := setupViper(t)
	defer cleanup()

	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0700))
	existing := `{"chain_id": "my-chain", "validators": [], "app_state": {"old": true}}`
	require.NoError(t, ioutil.WriteFile(GenesisFile(home), []byte(existing), 0600))

	cmd := InitCmd(staticOptions(`{"new": 1}`), log.NewNopLogger())
	require.NoError(t, cmd.RunE(cmd, nil))

	doc := loadGenesis(t, home)
	assert.JSONEq(t, `"my-chain"`, string(doc["chain_id"]))
	assert.JSONEq(t, `[]`, string(doc["validators"]))
	assert.JSONEq(t, `{"new": 1}`, string(doc["app_state"]))
}

func TestInitGeneratorFailure(t *testing.T) {
	_, cleanup := setupViper(t)
	defer cleanup()

	fail := func([]string) (json.RawMessage, error) {
		return nil, assert.AnError
	}
	cmd := InitCmd(fail, log.NewNopLogger())
	assert.Equal(t, assert.AnError, cmd.RunE(cmd, []string{"ESC"}))
}
