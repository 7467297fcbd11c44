package app

import (
	"encoding/hex"
	"encoding/json"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/orm"
	"github.com/iov-one/escrowd/store/iavl"
	"github.com/iov-one/escrowd/x/cash"
	"github.com/iov-one/escrowd/x/escrow"
)

// ExportedState is an app_state document that recreates the ledger of a
// running chain in a new genesis file.
type ExportedState struct {
	Conf   ExportedConf           `json:"conf"`
	Cash   []cash.GenesisAccount  `json:"cash"`
	Escrow []escrow.GenesisEscrow `json:"escrow,omitempty"`
}

// ExportedConf holds the configuration of each extension.
type ExportedConf struct {
	Cash   *cash.Configuration   `json:"cash"`
	Escrow *escrow.Configuration `json:"escrow"`
}

// ExportState reads configuration, wallets and active escrows from db.
//
// Genesis escrows issue their custody again, so only the part of a custody
// balance above amount plus reserve is exported as a wallet. Every other
// wallet is exported, including the empty ones.
func ExportState(db escrowd.ReadOnlyKVStore) (*ExportedState, error) {
	cashConf, err := cash.LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	escrowConf, err := escrow.LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	out := ExportedState{
		Conf: ExportedConf{Cash: cashConf, Escrow: escrowConf},
	}

	custody := make(map[string]uint64)
	it := orm.IterAll(escrow.BucketName)
	for {
		var e escrow.Escrow
		key, err := it.Next(db, &e)
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "escrows")
		}
		locked, err := e.Amount.Add(cashConf.NativeReserve())
		if err != nil {
			return nil, errors.Wrapf(err, "escrow %X", key)
		}
		custody[e.Address.String()] = locked.Amount
		out.Escrow = append(out.Escrow, escrow.GenesisEscrow{
			EscrowID:    hex.EncodeToString(key),
			Initializer: e.Initializer,
			Recipient:   e.Recipient,
			Amount:      e.Amount,
		})
	}

	it = orm.IterAll(cash.BucketName)
	for {
		var w cash.Wallet
		key, err := it.Next(db, &w)
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "wallets")
		}
		addr := escrowd.Address(key)
		if locked, ok := custody[addr.String()]; ok {
			if w.Balance.Amount <= locked {
				continue
			}
			w.Balance.Amount -= locked
		}
		// Empty wallets are exported too. The empty custody of a closed
		// escrow keeps its handle from being used again.
		if w.Balance.Ticker == "" {
			w.Balance.Ticker = cashConf.Ticker
		}
		out.Cash = append(out.Cash, cash.GenesisAccount{Address: addr, Balance: w.Balance})
	}
	return &out, nil
}

// ExportFromDB opens the database at dbPath, loads the given height (zero
// for the latest) and exports its state as JSON.
func ExportFromDB(dbPath string, height int64) (json.RawMessage, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}
	commit, ok := kv.(*iavl.CommitStore)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "cannot export from %T", kv)
	}
	if err := commit.LoadVersion(height); err != nil {
		return nil, err
	}
	state, err := ExportState(commit.CacheWrap())
	if err != nil {
		return nil, err
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return raw, nil
}
