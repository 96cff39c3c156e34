package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"passpoll/internal/passes"
	"passpoll/internal/poll/events"
	"passpoll/internal/poll/models"
	"passpoll/internal/poll/service/mocks"
	pollstore "passpoll/internal/poll/store"
	dErrors "passpoll/pkg/domain-errors"
	"passpoll/pkg/platform/sentinel"
	"passpoll/pkg/requestcontext"
	"passpoll/pkg/testutil"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Ledger,Publisher

// seedActivePoll stores an active poll 1 over [100, 200] and alice's registration.
func seedActivePoll(t *testing.T, store *pollstore.InMemoryStore) {
	t.Helper()
	ctx := context.Background()
	poll, err := models.NewPoll(admin, 1, "Q?", 100, 200, passClass)
	require.NoError(t, err)
	poll.IsActive = true
	require.NoError(t, store.CreatePoll(ctx, poll))
	require.NoError(t, store.CreateVoterState(ctx, models.NewVoterState(poll.Address, alice)))
}

func fixedClock(unix int64) Option {
	return WithClock(func() time.Time { return time.Unix(unix, 0) })
}

func TestCastVote_BurnFailureLeavesNoTrace(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	store := pollstore.NewInMemory()
	seedActivePoll(t, store)

	// Balance reads positive, then a concurrent spend empties it before the burn.
	ledger.EXPECT().BalanceOf(gomock.Any(), models.TokenClass(passClass), alice).Return(uint64(1), nil)
	ledger.EXPECT().BurnOne(gomock.Any(), alice, models.TokenClass(passClass), alice).
		Return(fmt.Errorf("burn: %w", sentinel.ErrInsufficient))

	svc, err := New(store, ledger, fixedClock(150))
	require.NoError(t, err)

	_, err = svc.CastVote(context.Background(), alice, 1, "", models.VoteYes)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNoPass))

	poll, err := store.FindPoll(context.Background(), models.PollAddress(1))
	require.NoError(t, err)
	assert.Zero(t, poll.TotalYes)
	state, err := store.FindVoterState(context.Background(), models.VoterStateAddress(poll.Address, alice))
	require.NoError(t, err)
	assert.False(t, state.HasVoted)
}

func TestCastVote_LedgerReadFailureIsInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	store := pollstore.NewInMemory()
	seedActivePoll(t, store)

	ledger.EXPECT().BalanceOf(gomock.Any(), gomock.Any(), gomock.Any()).Return(uint64(0), errors.New("connection reset"))

	svc, err := New(store, ledger, fixedClock(150))
	require.NoError(t, err)

	_, err = svc.CastVote(context.Background(), alice, 1, "", models.VoteYes)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestCastVote_LocalChecksSkipTheLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	store := pollstore.NewInMemory()
	seedActivePoll(t, store)

	// No ledger expectations: any ledger call fails the test.
	svc, err := New(store, ledger, fixedClock(250))
	require.NoError(t, err)

	_, err = svc.CastVote(context.Background(), alice, 1, "", models.VoteYes)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotInTimeWindow))
}

func TestCastVote_PublishFailureDoesNotFailVote(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)
	store := pollstore.NewInMemory()
	seedActivePoll(t, store)

	ledger.EXPECT().BalanceOf(gomock.Any(), gomock.Any(), alice).Return(uint64(1), nil)
	ledger.EXPECT().BurnOne(gomock.Any(), alice, gomock.Any(), alice).Return(nil)
	publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, event events.Event) error {
		assert.Equal(t, events.TypeVoteCast, event.Type)
		assert.Equal(t, alice, event.Subject)
		assert.Equal(t, models.VoteNo, event.Choice)
		assert.Equal(t, "req-1", event.RequestID)
		return errors.New("broker unavailable")
	})

	svc, err := New(store, ledger, fixedClock(150), WithPublisher(publisher))
	require.NoError(t, err)

	ctx := requestcontext.WithRequestID(context.Background(), "req-1")
	poll, err := svc.CastVote(ctx, alice, 1, "", models.VoteNo)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), poll.TotalNo)
}

func TestCastVote_StoreFailureIsInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	ledger := mocks.NewMockLedger(ctrl)

	store.EXPECT().FindPoll(gomock.Any(), models.PollAddress(1)).Return(nil, errors.New("disk on fire"))

	svc, err := New(store, ledger, fixedClock(150))
	require.NoError(t, err)

	_, err = svc.CastVote(context.Background(), alice, 1, "", models.VoteYes)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}

var _ ReceiptBurner = (*passes.RedisLedger)(nil)

// lostReplyLedger loses the reply of every receipted burn. applied decides
// whether the burn took effect before the reply was lost.
type lostReplyLedger struct {
	*passes.InMemoryLedger
	applied  bool
	receipts map[string]bool
}

func (l *lostReplyLedger) BurnOneWithReceipt(ctx context.Context, holderAuthority models.Identity, class models.TokenClass, holder models.Identity, receipt string) error {
	if l.applied {
		if err := l.BurnOne(ctx, holderAuthority, class, holder); err != nil {
			return err
		}
	}
	l.receipts[receipt] = l.applied
	return errors.New("read tcp: i/o timeout")
}

func (l *lostReplyLedger) SettleBurn(_ context.Context, _ models.TokenClass, receipt string) (bool, error) {
	return l.receipts[receipt], nil
}

func TestCastVote_LostBurnReplyIsSettled(t *testing.T) {
	for _, tc := range []struct {
		name    string
		applied bool
	}{
		{name: "applied burn commits the vote", applied: true},
		{name: "burn that never applied fails the vote", applied: false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := pollstore.NewInMemory()
			seedActivePoll(t, store)
			ledger := &lostReplyLedger{InMemoryLedger: passes.NewInMemory(), applied: tc.applied, receipts: map[string]bool{}}
			require.NoError(t, ledger.CreateClass(ctx, passClass, admin))
			require.NoError(t, ledger.MintOne(ctx, admin, passClass, alice))

			svc, err := New(store, ledger, fixedClock(150))
			require.NoError(t, err)

			_, err = svc.CastVote(ctx, alice, 1, "", models.VoteYes)

			poll, findErr := store.FindPoll(ctx, models.PollAddress(1))
			require.NoError(t, findErr)
			state, findErr := store.FindVoterState(ctx, models.VoterStateAddress(poll.Address, alice))
			require.NoError(t, findErr)
			balance, balErr := ledger.BalanceOf(ctx, passClass, alice)
			require.NoError(t, balErr)

			if tc.applied {
				require.NoError(t, err)
				assert.Equal(t, uint64(1), poll.TotalYes)
				assert.True(t, state.HasVoted)
				assert.Zero(t, balance)
				return
			}
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
			assert.Zero(t, poll.TotalYes)
			assert.False(t, state.HasVoted)
			assert.Equal(t, uint64(1), balance)
		})
	}
}

func TestCastVote_RejectsUnknownChoice(t *testing.T) {
	svc, err := New(pollstore.NewInMemory(), mocks.NewMockLedger(gomock.NewController(t)))
	require.NoError(t, err)

	_, err = svc.CastVote(context.Background(), alice, 1, "", models.VoteChoice("maybe"))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestRequestTimeIsUsedWithoutClock(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedger(ctrl)
	store := pollstore.NewInMemory()
	poll, err := models.NewPoll(admin, 1, "Q?", 100, 200, passClass)
	require.NoError(t, err)
	require.NoError(t, store.CreatePoll(context.Background(), poll))

	svc, err := New(store, ledger)
	require.NoError(t, err)

	ctx := testutil.ContextAt(150)
	started, err := svc.StartPoll(ctx, admin, 1)
	require.NoError(t, err)
	assert.True(t, started.IsActive)
}
