package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/escrowdtest"
	"github.com/iov-one/escrowd/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBumpSequenceMsgValidate(t *testing.T) {
	cases := map[uint32]*errors.Error{
		0:                    errors.ErrInvalidMsg,
		1:                    nil,
		MaxBumpIncrement:     nil,
		MaxBumpIncrement + 1: errors.ErrInvalidMsg,
	}
	for increment, wantErr := range cases {
		err := (&BumpSequenceMsg{Increment: increment}).Validate()
		assert.True(t, wantErr.Is(err), "increment %d: %+v", increment, err)
	}
}

func TestBumpSequence(t *testing.T) {
	signer := escrowdtest.NewKey().PublicKey()

	cases := map[string]struct {
		stored    int64
		increment uint32
		// the decorator already counted the transaction, so the handler
		// adds increment - 1
		want    int64
		wantErr *errors.Error
	}{
		"one step is the transaction itself": {
			stored: 5, increment: 1, want: 5,
		},
		"skip ahead": {
			stored: 5, increment: 10, want: 14,
		},
		"largest increment": {
			stored: 4, increment: MaxBumpIncrement, want: 1003,
		},
		"up to the sequence limit": {
			stored: maxSequence - 20, increment: 21, want: maxSequence,
		},
		"past the sequence limit": {
			stored: maxSequence - 20, increment: 22, wantErr: errors.ErrOverflow,
		},
		"increment above the cap": {
			stored: 5, increment: MaxBumpIncrement + 1, wantErr: errors.ErrInvalidMsg,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			bucket := NewBucket()
			require.NoError(t, bucket.Save(db, NewUserObj(&UserData{Pubkey: signer, Sequence: tc.stored})))

			auth := &escrowdtest.CtxAuth{Key: "auth"}
			ctx := auth.SetConditions(context.Background(), signer.Condition())
			h := bumpSequenceHandler{bucket: bucket, auth: auth}
			tx := &escrowdtest.Tx{Msg: &BumpSequenceMsg{Increment: tc.increment}}

			cache := db.CacheWrap()
			_, err := h.Check(ctx, cache, tx)
			cache.Discard()
			require.True(t, tc.wantErr.Is(err), "check: %+v", err)

			_, err = h.Deliver(ctx, db, tx)
			require.True(t, tc.wantErr.Is(err), "deliver: %+v", err)

			got, err := NextNonce(db, signer.Address())
			require.NoError(t, err)
			if tc.wantErr != nil {
				assert.Equal(t, tc.stored, got)
			} else {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestBumpSequenceSigner(t *testing.T) {
	mainKey := escrowdtest.NewKey().PublicKey()
	other := escrowdtest.NewKey().PublicKey()
	unknown := escrowdtest.NewKey().PublicKey()

	cases := map[string]struct {
		signers []escrowd.Condition
		wantErr *errors.Error
	}{
		"only the main signer moves": {
			signers: []escrowd.Condition{mainKey.Condition(), other.Condition()},
		},
		"unsigned": {
			wantErr: errors.ErrUnauthorized,
		},
		"signer without an account": {
			signers: []escrowd.Condition{unknown.Condition(), mainKey.Condition()},
			wantErr: errors.ErrNotFound,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			bucket := NewBucket()
			require.NoError(t, bucket.Save(db, NewUserObj(&UserData{Pubkey: mainKey, Sequence: 1})))
			require.NoError(t, bucket.Save(db, NewUserObj(&UserData{Pubkey: other, Sequence: 7})))

			auth := &escrowdtest.CtxAuth{Key: "auth"}
			ctx := auth.SetConditions(context.Background(), tc.signers...)
			h := bumpSequenceHandler{bucket: bucket, auth: auth}
			_, err := h.Deliver(ctx, db, &escrowdtest.Tx{Msg: &BumpSequenceMsg{Increment: 3}})
			require.True(t, tc.wantErr.Is(err), "%+v", err)

			wantMain := int64(1)
			if tc.wantErr == nil {
				wantMain = 3
			}
			seq, err := NextNonce(db, mainKey.Address())
			require.NoError(t, err)
			assert.Equal(t, wantMain, seq)
			seq, err = NextNonce(db, other.Address())
			require.NoError(t, err)
			assert.Equal(t, int64(7), seq)
		})
	}
}
