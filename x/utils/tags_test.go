package utils

import (
	"context"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/escrowdtest"
	"github.com/iov-one/escrowd/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

func actionTag(path string) common.KVPair {
	return common.KVPair{Key: []byte(ActionKey), Value: []byte(path)}
}

func TestActionTagger(t *testing.T) {
	release := &escrowdtest.Tx{Msg: &escrowdtest.Msg{RoutePath: "escrow/release"}}

	cases := map[string]struct {
		handler escrowd.Handler
		tx      escrowd.Tx
		wantErr *errors.Error
		want    []common.KVPair
	}{
		"path is tagged": {
			handler: &escrowdtest.Handler{},
			tx:      release,
			want:    []common.KVPair{actionTag("escrow/release")},
		},
		"handler tags are kept": {
			handler: &escrowdtest.Handler{
				DeliverResult: escrowd.DeliverResult{Tags: []common.KVPair{actionTag("other")}},
			},
			tx:   release,
			want: []common.KVPair{actionTag("other"), actionTag("escrow/release")},
		},
		"failed delivery": {
			handler: &escrowdtest.Handler{DeliverErr: errors.ErrHuman},
			tx:      release,
			wantErr: errors.ErrHuman,
		},
		"undecodable message": {
			handler: &escrowdtest.Handler{},
			tx:      &escrowdtest.Tx{Err: errors.ErrInvalidMsg},
			wantErr: errors.ErrInvalidMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			db := store.MemStore()
			tagger := NewActionTagger()

			_, err := tagger.Check(ctx, db, tc.tx, tc.handler)
			require.NoError(t, err)

			res, err := tagger.Deliver(ctx, db, tc.tx, tc.handler)
			require.True(t, tc.wantErr.Is(err), "%+v", err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, res.Tags)
			}
		})
	}
}

func TestKeyTagger(t *testing.T) {
	ok, ov := []byte("foo:demo"), []byte("data")
	nk, nv := []byte{1, 0xab, 3}, []byte{4, 5, 6}

	otag, oval := []byte("666F6F3A64656D6F"), []byte("s") // "foo:demo" as upper-case hex
	ntag, nval := []byte("01AB03"), []byte("s")

	cases := map[string]struct {
		handler escrowd.Handler
		wantErr *errors.Error
		tags    []common.KVPair
	}{
		"error adds no tags": {
			handler: &escrowdtest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
			wantErr: errors.ErrHuman,
		},
		"success records tags": {
			handler: &escrowdtest.WriteHandler{Key: nk, Value: nv},
			tags:    []common.KVPair{{Key: ntag, Value: nval}},
		},
		"multiple writes are sorted": {
			handler: escrowdtest.Decorate(
				&escrowdtest.WriteHandler{Key: nk, Value: nv},
				writeDecorator{key: ok, value: ov, after: true}),
			tags: []common.KVPair{{Key: ntag, Value: nval}, {Key: otag, Value: oval}},
		},
		"savepoint reverts writes before tagging": {
			handler: escrowdtest.Decorate(
				&escrowdtest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
				NewSavepoint().OnDeliver()),
			wantErr: errors.ErrHuman,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()

			res, err := NewKeyTagger().Deliver(context.Background(), db, nil, tc.handler)
			require.True(t, tc.wantErr.Is(err), "%+v", err)
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, tc.tags, res.Tags)

			v, err := db.Get(nk)
			require.NoError(t, err)
			assert.Equal(t, nv, v)
		})
	}
}

func TestKeyTaggerDelete(t *testing.T) {
	db := store.MemStore()
	require.NoError(t, db.Set([]byte{0xca, 0xfe}, []byte("x")))

	h := &deleteHandler{key: []byte{0xca, 0xfe}}
	res, err := NewKeyTagger().Deliver(context.Background(), db, nil, h)
	require.NoError(t, err)
	assert.Equal(t, []common.KVPair{{Key: []byte("CAFE"), Value: []byte("d")}}, res.Tags)
}

type deleteHandler struct {
	key []byte
}

func (h *deleteHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	return &escrowd.CheckResult{}, nil
}

func (h *deleteHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	return &escrowd.DeliverResult{}, db.Delete(h.key)
}
