package utils

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/store"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key holding the path of the delivered message, so
// that clients can search for "action='escrow/release'".
const ActionKey = "action"

// ActionTagger tags every successfully delivered transaction with the path
// of its message.
type ActionTagger struct{}

var _ escrowd.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	// An undecodable message fails before the handler runs.
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.AddTag([]byte(ActionKey), []byte(msg.Path()))
	return res, nil
}

// KeyTagger tags a delivered transaction with every store key it wrote.
// The tag key is the store key in upper case hex and the value is "s" for
// a set or "d" for a delete. Tags are sorted by key.
type KeyTagger struct{}

var _ escrowd.Decorator = KeyTagger{}

func NewKeyTagger() KeyTagger {
	return KeyTagger{}
}

func (KeyTagger) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (KeyTagger) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	rec := store.NewRecordingStore(db)
	res, err := next.Deliver(ctx, rec, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, writeTags(rec.(store.Recorder).KVPairs())...)
	return res, nil
}

func writeTags(writes map[string][]byte) common.KVPairs {
	if len(writes) == 0 {
		return nil
	}
	tags := make(common.KVPairs, 0, len(writes))
	for key, value := range writes {
		op := "s"
		if value == nil {
			op = "d"
		}
		tags = append(tags, common.KVPair{
			Key:   []byte(strings.ToUpper(hex.EncodeToString([]byte(key)))),
			Value: []byte(op),
		})
	}
	tags.Sort()
	return tags
}
