package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	tmtypes "github.com/tendermint/tendermint/types"
	tmtime "github.com/tendermint/tendermint/types/time"
)

// GenesisFile is where tendermint keeps the genesis of a home directory.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// GenesisDoc keeps every top level entry of a genesis file as raw JSON, so
// that app_state can be replaced without understanding the rest.
type GenesisDoc map[string]json.RawMessage

func readGenesis(path string) (GenesisDoc, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "genesis %s: %s", path, err)
	}
	var doc GenesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "genesis %s: %s", path, err)
	}
	return doc, nil
}

// InitCmd writes the app_state produced by gen into the genesis file of
// the home directory. A genesis without validators is created first when
// tendermint has not written one yet. A nil gen leaves app_state alone.
func InitCmd(gen GenOptions, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "init [ticker] [address]",
		Short: "Initialize app_state in the genesis file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := GenesisFile(viper.GetString(FlagHome))
			if err := createGenesis(path, logger); err != nil {
				return err
			}
			if gen == nil {
				return nil
			}
			state, err := gen(args)
			if err != nil {
				return err
			}
			if err := setAppState(path, state); err != nil {
				return err
			}
			logger.Info("Wrote app_state", "path", path)
			return nil
		},
	}
}

func createGenesis(path string, logger log.Logger) error {
	if _, err := os.Stat(path); err == nil {
		logger.Info("Found genesis file", "path", path)
		return nil
	}
	if err := cmn.EnsureDir(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "config directory")
	}
	doc := tmtypes.GenesisDoc{
		ChainID:     "test-chain-" + cmn.RandStr(6),
		GenesisTime: tmtime.Now(),
	}
	if err := doc.SaveAs(path); err != nil {
		return errors.Wrap(err, "save genesis")
	}
	logger.Info("Generated genesis file", "path", path)
	return nil
}

func setAppState(path string, state json.RawMessage) error {
	doc, err := readGenesis(path)
	if err != nil {
		return err
	}
	doc["app_state"] = state
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return ioutil.WriteFile(path, raw, 0600)
}

// ValidateCmd runs ini over the app_state of every given genesis file.
func ValidateCmd(ini escrowd.Initializer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis.json>...",
		Short: "Check that genesis files can be loaded",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ValidateGenesis(ini, args)
		},
	}
}

// ValidateGenesis loads each genesis into its own in-memory store and
// stops at the first failure.
func ValidateGenesis(ini escrowd.Initializer, paths []string) error {
	for _, path := range paths {
		doc, err := readGenesis(path)
		if err != nil {
			return err
		}
		var state escrowd.Options
		if raw, ok := doc["app_state"]; ok {
			if err := json.Unmarshal(raw, &state); err != nil {
				return errors.Wrapf(errors.ErrInvalidInput, "%s app_state: %s", path, err)
			}
		}
		if err := ini.FromGenesis(state, store.MemStore()); err != nil {
			return errors.Wrapf(err, "load %s", path)
		}
	}
	return nil
}
