package escrow

import (
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/coin"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/escrowdtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const funds = 2000000000

func createMsg(t testing.TB, f *fixture, amount uint64) *CreateMsg {
	return &CreateMsg{
		EscrowID:  escrowdtest.RandomHandle(t),
		Recipient: f.recipient.Address(),
		Amount:    coin.NewCoinp(amount, "ESC"),
	}
}

func TestCreateEscrow(t *testing.T) {
	cases := map[string]struct {
		funds   uint64
		msg     func(f *fixture) *CreateMsg
		signers func(f *fixture) []escrowd.Condition
		wantErr *errors.Error
	}{
		"success with default initializer": {
			funds: 1000,
			msg: func(f *fixture) *CreateMsg {
				return createMsg(t, f, 990)
			},
		},
		"explicit initializer must sign": {
			funds: 1000,
			msg: func(f *fixture) *CreateMsg {
				m := createMsg(t, f, 5)
				m.Initializer = f.initializer.Address()
				return m
			},
			signers: func(f *fixture) []escrowd.Condition {
				return []escrowd.Condition{f.recipient}
			},
			wantErr: errors.ErrUnauthorized,
		},
		"no signature": {
			funds: 1000,
			msg: func(f *fixture) *CreateMsg {
				return createMsg(t, f, 5)
			},
			signers: func(f *fixture) []escrowd.Condition {
				return nil
			},
			wantErr: errors.ErrUnauthorized,
		},
		"reserve not covered": {
			funds: 1000,
			msg: func(f *fixture) *CreateMsg {
				return createMsg(t, f, 991)
			},
			wantErr: errors.ErrInsufficientAmount,
		},
		"initializer without wallet": {
			msg: func(f *fixture) *CreateMsg {
				return createMsg(t, f, 1)
			},
			wantErr: errors.ErrInsufficientAmount,
		},
		"self escrow": {
			funds: 1000,
			msg: func(f *fixture) *CreateMsg {
				m := createMsg(t, f, 5)
				m.Recipient = f.initializer.Address()
				return m
			},
			wantErr: errors.ErrInvalidInput,
		},
		"foreign currency": {
			funds: 1000,
			msg: func(f *fixture) *CreateMsg {
				m := createMsg(t, f, 5)
				m.Amount = coin.NewCoinp(5, "FOO")
				return m
			},
			wantErr: errors.ErrCurrencyMismatch,
		},
		"short handle": {
			funds: 1000,
			msg: func(f *fixture) *CreateMsg {
				m := createMsg(t, f, 5)
				m.EscrowID = []byte{1, 2, 3}
				return m
			},
			wantErr: errors.ErrInvalidInput,
		},
		"zero amount": {
			funds: 1000,
			msg: func(f *fixture) *CreateMsg {
				return createMsg(t, f, 0)
			},
			wantErr: errors.ErrInvalidAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, tc.funds)
			msg := tc.msg(f)
			signers := []escrowd.Condition{f.initializer}
			if tc.signers != nil {
				signers = tc.signers(f)
			}

			res, err := f.deliver(t, msg, signers...)
			require.True(t, tc.wantErr.Is(err), "%+v", err)
			if tc.wantErr != nil {
				assert.Equal(t, tc.funds, f.balance(t, f.initializer.Address()))
				_, err := f.escrow(msg.EscrowID)
				assert.True(t, errors.ErrNotFound.Is(err))
				return
			}

			assert.Equal(t, msg.EscrowID, res.Data)
			custody := f.balance(t, Condition(msg.EscrowID).Address())
			assert.Equal(t, msg.Amount.Amount+reserve, custody)
			assert.Equal(t, tc.funds-custody, f.balance(t, f.initializer.Address()))
		})
	}
}

// A created escrow holds the amount plus reserve in its custody.
func TestCreatedRecord(t *testing.T) {
	f := newFixture(t, funds)
	msg := createMsg(t, f, 1000000000)

	_, err := f.deliver(t, msg, f.initializer)
	require.NoError(t, err)

	esc, err := f.escrow(msg.EscrowID)
	require.NoError(t, err)
	assert.Equal(t, f.initializer.Address(), esc.Initializer)
	assert.Equal(t, f.recipient.Address(), esc.Recipient)
	assert.Equal(t, coin.NewCoin(1000000000, "ESC"), esc.Amount)
	assert.False(t, esc.Released)
	assert.Equal(t, Condition(msg.EscrowID).Address(), esc.Address)

	var byInit []Escrow
	require.NoError(t, NewBucket().ByIndex(f.db, IndexInitializer, f.initializer.Address(), &byInit))
	assert.Len(t, byInit, 1)
	var byRecipient []Escrow
	require.NoError(t, NewBucket().ByIndex(f.db, IndexRecipient, f.recipient.Address(), &byRecipient))
	assert.Len(t, byRecipient, 1)
}

// Release pays the amount to the recipient and the reserve back.
func TestRelease(t *testing.T) {
	f := newFixture(t, funds)
	msg := createMsg(t, f, 500000000)
	_, err := f.deliver(t, msg, f.initializer)
	require.NoError(t, err)

	initBefore := f.balance(t, f.initializer.Address())
	recipientBefore := f.balance(t, f.recipient.Address())

	release := &ReleaseMsg{
		EscrowID:    msg.EscrowID,
		Initializer: f.initializer.Address(),
		Recipient:   f.recipient.Address(),
	}
	res, err := f.deliver(t, release, f.initializer)
	require.NoError(t, err)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, TagReleased, string(res.Tags[0].Key))

	recipientAfter := f.balance(t, f.recipient.Address())
	assert.True(t, recipientAfter > recipientBefore)
	assert.Equal(t, recipientBefore+500000000, recipientAfter)
	// reserve goes back to the initializer
	assert.Equal(t, initBefore+reserve, f.balance(t, f.initializer.Address()))
	assert.Equal(t, uint64(0), f.balance(t, Condition(msg.EscrowID).Address()))

	_, err = f.escrow(msg.EscrowID)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
}

// Cancel returns the whole custody to the initializer.
func TestCancel(t *testing.T) {
	f := newFixture(t, funds)
	msg := createMsg(t, f, 300000000)
	_, err := f.deliver(t, msg, f.initializer)
	require.NoError(t, err)

	initBefore := f.balance(t, f.initializer.Address())

	res, err := f.deliver(t, &CancelMsg{EscrowID: msg.EscrowID, Initializer: f.initializer.Address()}, f.initializer)
	require.NoError(t, err)
	assert.Equal(t, msg.EscrowID, res.Data)

	initAfter := f.balance(t, f.initializer.Address())
	assert.True(t, initAfter >= initBefore)
	assert.Equal(t, uint64(funds), initAfter)
	assert.Equal(t, uint64(0), f.balance(t, f.recipient.Address()))

	_, err = f.escrow(msg.EscrowID)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
}

// A closed escrow cannot be closed a second time.
func TestCloseOnlyOnce(t *testing.T) {
	closers := map[string]func(f *fixture, handle []byte) escrowd.Msg{
		"release": func(f *fixture, handle []byte) escrowd.Msg {
			return &ReleaseMsg{EscrowID: handle, Initializer: f.initializer.Address(), Recipient: f.recipient.Address()}
		},
		"cancel": func(f *fixture, handle []byte) escrowd.Msg {
			return &CancelMsg{EscrowID: handle, Initializer: f.initializer.Address()}
		},
	}

	for firstName, first := range closers {
		for secondName, second := range closers {
			t.Run(firstName+" then "+secondName, func(t *testing.T) {
				f := newFixture(t, funds)
				msg := createMsg(t, f, 1000)
				_, err := f.deliver(t, msg, f.initializer)
				require.NoError(t, err)

				_, err = f.deliver(t, first(f, msg.EscrowID), f.initializer)
				require.NoError(t, err)

				initBalance := f.balance(t, f.initializer.Address())
				recipientBalance := f.balance(t, f.recipient.Address())

				_, err = f.deliver(t, second(f, msg.EscrowID), f.initializer)
				require.True(t, errors.ErrNotFound.Is(err), "%+v", err)

				assert.Equal(t, initBalance, f.balance(t, f.initializer.Address()))
				assert.Equal(t, recipientBalance, f.balance(t, f.recipient.Address()))
			})
		}
	}
}

// Release and cancel check existence, signature, parties and state in this order.
func TestCloseChecks(t *testing.T) {
	stranger := escrowdtest.NewCondition()

	cases := map[string]struct {
		msg     func(f *fixture, handle []byte) escrowd.Msg
		signer  func(f *fixture) escrowd.Condition
		wantErr *errors.Error
	}{
		"release by stranger": {
			msg: func(f *fixture, handle []byte) escrowd.Msg {
				return &ReleaseMsg{EscrowID: handle, Initializer: f.initializer.Address(), Recipient: f.recipient.Address()}
			},
			signer:  func(*fixture) escrowd.Condition { return stranger },
			wantErr: errors.ErrUnauthorized,
		},
		"release by recipient": {
			msg: func(f *fixture, handle []byte) escrowd.Msg {
				return &ReleaseMsg{EscrowID: handle, Initializer: f.initializer.Address(), Recipient: f.recipient.Address()}
			},
			signer:  func(f *fixture) escrowd.Condition { return f.recipient },
			wantErr: errors.ErrUnauthorized,
		},
		"cancel by stranger naming itself": {
			msg: func(f *fixture, handle []byte) escrowd.Msg {
				return &CancelMsg{EscrowID: handle, Initializer: stranger.Address()}
			},
			signer:  func(*fixture) escrowd.Condition { return stranger },
			wantErr: errors.ErrUnauthorized,
		},
		"unknown escrow": {
			msg: func(f *fixture, handle []byte) escrowd.Msg {
				return &CancelMsg{EscrowID: escrowdtest.RandomHandle(t), Initializer: stranger.Address()}
			},
			signer:  func(*fixture) escrowd.Condition { return stranger },
			wantErr: errors.ErrNotFound,
		},
		"release with wrong recipient": {
			msg: func(f *fixture, handle []byte) escrowd.Msg {
				return &ReleaseMsg{EscrowID: handle, Initializer: f.initializer.Address(), Recipient: stranger.Address()}
			},
			signer:  func(f *fixture) escrowd.Condition { return f.initializer },
			wantErr: ErrPartyMismatch,
		},
		"cancel with wrong initializer": {
			msg: func(f *fixture, handle []byte) escrowd.Msg {
				return &CancelMsg{EscrowID: handle, Initializer: stranger.Address()}
			},
			signer:  func(f *fixture) escrowd.Condition { return f.initializer },
			wantErr: ErrPartyMismatch,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, funds)
			msg := createMsg(t, f, 1000)
			_, err := f.deliver(t, msg, f.initializer)
			require.NoError(t, err)

			before := map[string]uint64{
				"initializer": f.balance(t, f.initializer.Address()),
				"recipient":   f.balance(t, f.recipient.Address()),
				"custody":     f.balance(t, Condition(msg.EscrowID).Address()),
			}
			stored, err := f.escrow(msg.EscrowID)
			require.NoError(t, err)

			_, err = f.deliver(t, tc.msg(f, msg.EscrowID), tc.signer(f))
			require.True(t, tc.wantErr.Is(err), "%+v", err)

			after := map[string]uint64{
				"initializer": f.balance(t, f.initializer.Address()),
				"recipient":   f.balance(t, f.recipient.Address()),
				"custody":     f.balance(t, Condition(msg.EscrowID).Address()),
			}
			assert.Equal(t, before, after)
			got, err := f.escrow(msg.EscrowID)
			require.NoError(t, err)
			assert.Equal(t, stored, got)
		})
	}
}

func TestReleasedRecordIsInvalidState(t *testing.T) {
	f := newFixture(t, funds)
	handle := escrowdtest.RandomHandle(t)
	esc := &Escrow{
		Initializer: f.initializer.Address(),
		Recipient:   f.recipient.Address(),
		Amount:      coin.NewCoin(5, "ESC"),
		Released:    true,
		Address:     Condition(handle).Address(),
	}
	require.NoError(t, NewBucket().Put(f.db, handle, esc))

	_, err := f.deliver(t, &CancelMsg{EscrowID: handle, Initializer: f.initializer.Address()}, f.initializer)
	assert.True(t, errors.ErrInvalidState.Is(err), "%+v", err)
}

func TestHandleIsNeverReused(t *testing.T) {
	f := newFixture(t, funds)
	msg := createMsg(t, f, 1000)
	_, err := f.deliver(t, msg, f.initializer)
	require.NoError(t, err)

	_, err = f.deliver(t, msg, f.initializer)
	require.True(t, errors.ErrDuplicate.Is(err), "%+v", err)

	_, err = f.deliver(t, &CancelMsg{EscrowID: msg.EscrowID, Initializer: f.initializer.Address()}, f.initializer)
	require.NoError(t, err)

	// the record is gone but the custody wallet remains
	_, err = f.deliver(t, msg, f.initializer)
	require.True(t, errors.ErrDuplicate.Is(err), "%+v", err)
}

func TestSelfEscrowConfiguration(t *testing.T) {
	f := newFixture(t, funds)
	owner := escrowdtest.NewCondition()
	require.NoError(t, saveConf(f, &Configuration{Owner: owner.Address()}))

	msg := createMsg(t, f, 1000)
	msg.Recipient = f.initializer.Address()
	_, err := f.deliver(t, msg, f.initializer)
	require.True(t, errors.ErrInvalidInput.Is(err), "%+v", err)

	allow := &UpdateConfigurationMsg{Patch: &Configuration{SelfEscrow: SelfEscrowAllow}}
	_, err = f.deliver(t, allow, f.initializer)
	require.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
	_, err = f.deliver(t, allow, owner)
	require.NoError(t, err)

	_, err = f.deliver(t, msg, f.initializer)
	require.NoError(t, err)

	// releasing to itself returns everything
	release := &ReleaseMsg{EscrowID: msg.EscrowID, Initializer: f.initializer.Address(), Recipient: f.initializer.Address()}
	_, err = f.deliver(t, release, f.initializer)
	require.NoError(t, err)
	assert.Equal(t, uint64(funds), f.balance(t, f.initializer.Address()))

	// a patch without a policy keeps it, deny switches it off again
	_, err = f.deliver(t, &UpdateConfigurationMsg{Patch: &Configuration{Owner: owner.Address()}}, owner)
	require.NoError(t, err)
	conf, err := LoadConfiguration(f.db)
	require.NoError(t, err)
	assert.True(t, conf.SelfEscrowAllowed())

	deny := &UpdateConfigurationMsg{Patch: &Configuration{SelfEscrow: SelfEscrowDeny}}
	_, err = f.deliver(t, deny, owner)
	require.NoError(t, err)
	again := createMsg(t, f, 1000)
	again.Recipient = f.initializer.Address()
	_, err = f.deliver(t, again, f.initializer)
	require.True(t, errors.ErrInvalidInput.Is(err), "%+v", err)

	invalid := &UpdateConfigurationMsg{Patch: &Configuration{SelfEscrow: "sometimes"}}
	_, err = f.deliver(t, invalid, owner)
	require.True(t, errors.ErrInvalidInput.Is(err), "%+v", err)
}
