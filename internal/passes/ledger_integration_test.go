//go:build integration

package passes

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passpoll/internal/poll/models"
	"passpoll/pkg/platform/sentinel"
	"passpoll/pkg/testutil/containers"
)

type ledger interface {
	CreateClass(ctx context.Context, class models.TokenClass, mintAuthority models.Identity) error
	MintOne(ctx context.Context, authority models.Identity, class models.TokenClass, recipient models.Identity) error
	BurnOne(ctx context.Context, holderAuthority models.Identity, class models.TokenClass, holder models.Identity) error
	BalanceOf(ctx context.Context, class models.TokenClass, holder models.Identity) (uint64, error)
}

func TestRedisLedger(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	runLedgerContract(t, NewRedis(rc.Client, WithKeyPrefix("test:passes:")))

	t.Run("balance at the Redis integer limit refuses to wrap", func(t *testing.T) {
		ctx := context.Background()
		l := NewRedis(rc.Client)
		require.NoError(t, l.CreateClass(ctx, "capped", "admin"))
		require.NoError(t, rc.Client.Set(ctx, l.balanceKey("capped", "whale"), strconv.FormatInt(redisMaxBalance, 10), 0).Err())
		assert.ErrorIs(t, l.MintOne(ctx, "admin", "capped", "whale"), ErrBalanceOverflow)
	})

	t.Run("settling a receipted burn reports whether it applied", func(t *testing.T) {
		ctx := context.Background()
		l := NewRedis(rc.Client, WithKeyPrefix("test:receipts:"))
		require.NoError(t, l.CreateClass(ctx, "R", "admin"))
		require.NoError(t, l.MintOne(ctx, "admin", "R", "alice"))

		require.NoError(t, l.BurnOneWithReceipt(ctx, "alice", "R", "alice", "applied"))
		burned, err := l.SettleBurn(ctx, "R", "applied")
		require.NoError(t, err)
		assert.True(t, burned)

		require.NoError(t, l.MintOne(ctx, "admin", "R", "alice"))
		burned, err = l.SettleBurn(ctx, "R", "late")
		require.NoError(t, err)
		assert.False(t, burned)

		err = l.BurnOneWithReceipt(ctx, "alice", "R", "alice", "late")
		assert.ErrorIs(t, err, ErrReceiptSettled)
		balance, err := l.BalanceOf(ctx, "R", "alice")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), balance, "settled receipt burns nothing")
	})
}

func TestPostgresLedger(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	runLedgerContract(t, NewPostgres(pg.DB))

	t.Run("burn inside a rolled back transaction is undone", func(t *testing.T) {
		ctx := context.Background()
		l := NewPostgres(pg.DB)
		require.NoError(t, l.CreateClass(ctx, "tx", "admin"))
		require.NoError(t, l.MintOne(ctx, "admin", "tx", "alice"))

		tx, err := pg.DB.BeginTx(ctx, nil)
		require.NoError(t, err)
		require.NoError(t, NewPostgresTx(tx).BurnOne(ctx, "alice", "tx", "alice"))
		require.NoError(t, tx.Rollback())

		balance, err := l.BalanceOf(ctx, "tx", "alice")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), balance)
	})
}

func runLedgerContract(t *testing.T, l ledger) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, l.CreateClass(ctx, "T", "admin"))

	t.Run("class name is unique", func(t *testing.T) {
		assert.ErrorIs(t, l.CreateClass(ctx, "T", "other"), sentinel.ErrConflict)
	})

	t.Run("mint requires the class authority", func(t *testing.T) {
		assert.ErrorIs(t, l.MintOne(ctx, "mallory", "T", "alice"), sentinel.ErrForbidden)
		assert.ErrorIs(t, l.MintOne(ctx, "admin", "missing", "alice"), sentinel.ErrNotFound)
	})

	t.Run("mint then burn", func(t *testing.T) {
		require.NoError(t, l.MintOne(ctx, "admin", "T", "alice"))
		balance, err := l.BalanceOf(ctx, "T", "alice")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), balance)

		assert.ErrorIs(t, l.BurnOne(ctx, "bob", "T", "alice"), sentinel.ErrForbidden)
		require.NoError(t, l.BurnOne(ctx, "alice", "T", "alice"))
		assert.ErrorIs(t, l.BurnOne(ctx, "alice", "T", "alice"), sentinel.ErrInsufficient)
	})

	t.Run("unknown holder reads as zero", func(t *testing.T) {
		balance, err := l.BalanceOf(ctx, "T", "nobody")
		require.NoError(t, err)
		assert.Zero(t, balance)
	})

	t.Run("concurrent burns never exceed supply", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.NoError(t, l.MintOne(ctx, "admin", "T", "carol"))
		}

		const goroutines = 25
		var burned atomic.Int32
		var wg sync.WaitGroup
		wg.Add(goroutines)
		for i := 0; i < goroutines; i++ {
			go func() {
				defer wg.Done()
				if err := l.BurnOne(ctx, "carol", "T", "carol"); err == nil {
					burned.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(5), burned.Load())
		balance, err := l.BalanceOf(ctx, "T", "carol")
		require.NoError(t, err)
		assert.Zero(t, balance)
	})
}
