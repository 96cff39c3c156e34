package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"passpoll/internal/poll/models"
	dErrors "passpoll/pkg/domain-errors"
)

// PollTx provides the transactional boundary for poll mutations. Implementations
// give fn exclusive access to the records at keys and make its writes all-or-nothing.
// A database implementation wraps one SQL transaction; in memory, sharded locks.
type PollTx interface {
	RunInTx(ctx context.Context, keys []models.Address, fn func(store Store, ledger Ledger) error) error
}

// shardedPollTx provides fine-grained locking using sharded mutexes.
// Records are distributed across N shards by a hash of their address. An operation
// locks every shard its keys fall into, always in ascending shard order, so two
// operations over overlapping keys can never deadlock.
const numPollShards = 128

// defaultPollTxTimeout is the maximum duration for a poll transaction.
const defaultPollTxTimeout = 5 * time.Second

type shardedPollTx struct {
	shards  [numPollShards]sync.Mutex
	store   Store
	ledger  Ledger
	timeout time.Duration
}

func newShardedPollTx(store Store, ledger Ledger) *shardedPollTx {
	return &shardedPollTx{store: store, ledger: ledger}
}

func (t *shardedPollTx) RunInTx(ctx context.Context, keys []models.Address, fn func(store Store, ledger Ledger) error) error {
	// Check if context is already cancelled
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	// Apply timeout if not already set
	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultPollTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shards := selectShards(keys)
	for _, shard := range shards {
		t.shards[shard].Lock()
	}
	defer func() {
		for i := len(shards) - 1; i >= 0; i-- {
			t.shards[shards[i]].Unlock()
		}
	}()

	// Check again after acquiring locks
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(t.store, t.ledger)
}

// selectShards returns the distinct shards for keys in ascending order.
func selectShards(keys []models.Address) []int {
	seen := make(map[int]struct{}, len(keys))
	shards := make([]int, 0, len(keys))
	for _, key := range keys {
		shard := int(hashAddress(string(key)) % numPollShards)
		if _, dup := seen[shard]; dup {
			continue
		}
		seen[shard] = struct{}{}
		shards = append(shards, shard)
	}
	sort.Ints(shards)
	return shards
}

// hashAddress uses FNV-1a for better hash distribution than simple multiply-add.
func hashAddress(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
