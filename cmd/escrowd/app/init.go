package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/commands/server"
	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// DefaultTicker is the native asset used when init is given no ticker.
const DefaultTicker = "ESC"

// genesisFunds is the balance of the generated development account.
const genesisFunds = 123456789000

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// args may hold a ticker and an address (hex) of the funded account.
// Without an address a new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := DefaultTicker
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrencyMismatch, "invalid ticker %s", ticker)
		}
	}

	var addr escrowd.Address
	if len(args) > 1 {
		var err error
		if addr, err = escrowd.ParseAddress(args[1]); err != nil {
			return nil, err
		}
		if err := addr.Validate(); err != nil {
			return nil, errors.Wrap(err, "genesis account")
		}
	} else {
		a, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	opts := fmt.Sprintf(`{
  "conf": {
    "cash": {
      "owner": "%[1]s",
      "ticker": "%[2]s",
      "reserve": "1 %[2]s",
      "collector_address": "%[1]s"
    },
    "escrow": {
      "owner": "%[1]s",
      "self_escrow": "deny"
    }
  },
  "cash": [
    {"address": "%[1]s", "balance": "%[3]d %[2]s"}
  ]
}`, addr, ticker, genesisFunds)
	return []byte(opts), nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "escrowd.db")
	}

	application, err := Application(Name, Stack(), TxDecoder, dbPath, options.Debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(options.Logger)
	return application, nil
}

type output struct {
	Address escrowd.Address    `json:"address"`
	Pubkey  *crypto.PublicKey  `json:"pub_key"`
	Secret  *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
// You can give coins to this address and
// import the keys in the client to use them
func GenerateCoinKey() (escrowd.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Address: addr, Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(err, "marshal keys")
	}
	return addr, string(keys), nil
}
