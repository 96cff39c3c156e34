// Package passes implements the capability-token ledger that backs voting passes.
//
// A pass class is a fungible token with a single mint authority. Only the mint
// authority may mint, and only the holder may burn their own units. Balances are
// uint64 and never wrap.
//
// Implementations report failures with pkg/platform/sentinel errors, possibly wrapped:
//   - ErrNotFound: the class does not exist (mint, burn)
//   - ErrConflict: CreateClass on an existing class
//   - ErrForbidden: wrong mint authority, or burning someone else's pass
//   - ErrInsufficient: burning from a zero balance
//
// plus ErrBalanceOverflow when a mint would exceed the maximum balance.
// BalanceOf reports zero for unknown classes and holders.
package passes

import (
	"errors"
	"math"
)

// ErrBalanceOverflow is returned when a mint would push a balance past its maximum.
var ErrBalanceOverflow = errors.New("pass balance overflow")

// MaxBalance is the largest balance the in-memory and Postgres ledgers hold.
const MaxBalance = math.MaxUint64

// redisMaxBalance is bounded by Redis' signed 64-bit integers.
const redisMaxBalance = math.MaxInt64
