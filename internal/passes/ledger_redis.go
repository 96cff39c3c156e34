package passes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"passpoll/internal/poll/models"
	"passpoll/pkg/platform/sentinel"
)

var (
	redisLedgerDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "passpoll_pass_ledger_redis_duration_ms",
		Help:    "Latency of Redis pass ledger operations in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	}, []string{"operation"})
)

const defaultKeyPrefix = "passes:"

// receiptTTL bounds how long a burn receipt is kept for settling a lost reply.
const receiptTTL = 24 * time.Hour

// ErrReceiptSettled is returned by a receipted burn whose receipt was already
// settled, so the burn was refused.
var ErrReceiptSettled = errors.New("burn receipt already settled")

// Script results below zero are failures; see scriptError.
const (
	scriptOK           = 1
	scriptNoClass      = -1
	scriptForbidden    = -2
	scriptInsufficient = -3
	scriptOverflow     = -4
	scriptSettled      = -5
)

// KEYS[1] authority key, KEYS[2] balance key; ARGV[1] acting authority, ARGV[2] max balance.
var mintScript = redis.NewScript(`
local owner = redis.call('GET', KEYS[1])
if not owner then return -1 end
if owner ~= ARGV[1] then return -2 end
local bal = redis.call('GET', KEYS[2])
if bal == ARGV[2] then return -4 end
redis.call('INCR', KEYS[2])
return 1
`)

// KEYS[1] authority key, KEYS[2] balance key.
var burnScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return -1 end
local bal = tonumber(redis.call('GET', KEYS[2]) or '0')
if bal <= 0 then return -3 end
redis.call('DECR', KEYS[2])
return 1
`)

// KEYS[1] authority key, KEYS[2] balance key, KEYS[3] receipt key; ARGV[1] receipt ttl seconds.
var receiptBurnScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[3]) == 1 then return -5 end
if redis.call('EXISTS', KEYS[1]) == 0 then return -1 end
local bal = tonumber(redis.call('GET', KEYS[2]) or '0')
if bal <= 0 then return -3 end
redis.call('DECR', KEYS[2])
redis.call('SET', KEYS[3], 'burned', 'EX', ARGV[1])
return 1
`)

// KEYS[1] receipt key; ARGV[1] receipt ttl seconds. Returns 1 when the burn
// applied. Otherwise the receipt is voided so the burn can no longer apply.
var settleScript = redis.NewScript(`
local state = redis.call('GET', KEYS[1])
if state == 'burned' then return 1 end
if not state then redis.call('SET', KEYS[1], 'void', 'EX', ARGV[1]) end
return 0
`)

// RedisLedger is a Redis-backed pass ledger for deployments that share balances
// across instances. Mint and burn each run as one Lua script, so a check and its
// effect can never interleave with another caller.
//
// Keys hash-tag the class so a class's authority and balances share a cluster slot.
// Balances are bounded by Redis integers at math.MaxInt64.
type RedisLedger struct {
	client    *redis.Client
	keyPrefix string
}

// RedisLedgerOption configures a RedisLedger instance.
type RedisLedgerOption func(*RedisLedger)

// WithKeyPrefix namespaces every key the ledger writes.
func WithKeyPrefix(prefix string) RedisLedgerOption {
	return func(l *RedisLedger) {
		l.keyPrefix = prefix
	}
}

// NewRedis constructs a Redis-backed pass ledger.
func NewRedis(client *redis.Client, opts ...RedisLedgerOption) *RedisLedger {
	l := &RedisLedger{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

func (l *RedisLedger) authorityKey(class models.TokenClass) string {
	return l.keyPrefix + "{" + string(class) + "}:authority"
}

func (l *RedisLedger) balanceKey(class models.TokenClass, holder models.Identity) string {
	return l.keyPrefix + "{" + string(class) + "}:balance:" + string(holder)
}

// CreateClass registers a class with its sole mint authority using SETNX.
func (l *RedisLedger) CreateClass(ctx context.Context, class models.TokenClass, mintAuthority models.Identity) error {
	defer observeRedis("create_class", time.Now())

	created, err := l.client.SetNX(ctx, l.authorityKey(class), string(mintAuthority), 0).Result()
	if err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	if !created {
		return fmt.Errorf("create class %s: %w", class, sentinel.ErrConflict)
	}
	return nil
}

func (l *RedisLedger) MintOne(ctx context.Context, authority models.Identity, class models.TokenClass, recipient models.Identity) error {
	defer observeRedis("mint", time.Now())

	keys := []string{l.authorityKey(class), l.balanceKey(class, recipient)}
	result, err := mintScript.Run(ctx, l.client, keys, string(authority), strconv.FormatInt(redisMaxBalance, 10)).Int()
	if err != nil {
		return fmt.Errorf("mint: %w", err)
	}
	return scriptError("mint", class, result)
}

func (l *RedisLedger) BurnOne(ctx context.Context, holderAuthority models.Identity, class models.TokenClass, holder models.Identity) error {
	if holderAuthority != holder {
		return fmt.Errorf("burn %s: %w", class, sentinel.ErrForbidden)
	}
	defer observeRedis("burn", time.Now())

	keys := []string{l.authorityKey(class), l.balanceKey(class, holder)}
	result, err := burnScript.Run(ctx, l.client, keys).Int()
	if err != nil {
		return fmt.Errorf("burn: %w", err)
	}
	return scriptError("burn", class, result)
}

func (l *RedisLedger) receiptKey(class models.TokenClass, receipt string) string {
	return l.keyPrefix + "{" + string(class) + "}:receipt:" + receipt
}

// BurnOneWithReceipt burns like BurnOne and records receipt in the same script.
// A burn whose reply is lost can then be resolved with SettleBurn.
func (l *RedisLedger) BurnOneWithReceipt(ctx context.Context, holderAuthority models.Identity, class models.TokenClass, holder models.Identity, receipt string) error {
	if holderAuthority != holder {
		return fmt.Errorf("burn %s: %w", class, sentinel.ErrForbidden)
	}
	defer observeRedis("burn", time.Now())

	keys := []string{l.authorityKey(class), l.balanceKey(class, holder), l.receiptKey(class, receipt)}
	result, err := receiptBurnScript.Run(ctx, l.client, keys, int64(receiptTTL/time.Second)).Int()
	if err != nil {
		return fmt.Errorf("burn: %w", err)
	}
	return scriptError("burn", class, result)
}

// SettleBurn reports whether the burn under receipt applied. If it has not,
// the receipt is voided and a delayed BurnOneWithReceipt for it fails with
// ErrReceiptSettled.
func (l *RedisLedger) SettleBurn(ctx context.Context, class models.TokenClass, receipt string) (bool, error) {
	defer observeRedis("settle", time.Now())

	result, err := settleScript.Run(ctx, l.client, []string{l.receiptKey(class, receipt)}, int64(receiptTTL/time.Second)).Int()
	if err != nil {
		return false, fmt.Errorf("settle burn: %w", err)
	}
	return result == 1, nil
}

// BalanceOf reads a holder's balance. Missing keys read as zero.
func (l *RedisLedger) BalanceOf(ctx context.Context, class models.TokenClass, holder models.Identity) (uint64, error) {
	defer observeRedis("balance", time.Now())

	raw, err := l.client.Get(ctx, l.balanceKey(class, holder)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("balance: %w", err)
	}
	balance, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse balance: %w", err)
	}
	return balance, nil
}

func scriptError(op string, class models.TokenClass, result int) error {
	switch result {
	case scriptOK:
		return nil
	case scriptNoClass:
		return fmt.Errorf("%s %s: %w", op, class, sentinel.ErrNotFound)
	case scriptForbidden:
		return fmt.Errorf("%s %s: %w", op, class, sentinel.ErrForbidden)
	case scriptInsufficient:
		return fmt.Errorf("%s %s: %w", op, class, sentinel.ErrInsufficient)
	case scriptOverflow:
		return ErrBalanceOverflow
	case scriptSettled:
		return fmt.Errorf("%s %s: %w", op, class, ErrReceiptSettled)
	default:
		return fmt.Errorf("%s %s: unexpected script result %d", op, class, result)
	}
}

func observeRedis(op string, start time.Time) {
	redisLedgerDurationMs.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}
