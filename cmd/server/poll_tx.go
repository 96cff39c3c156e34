package main

import (
	"context"
	"database/sql"
	"time"

	"passpoll/internal/passes"
	"passpoll/internal/poll/models"
	pollservice "passpoll/internal/poll/service"
	pollstore "passpoll/internal/poll/store"
	dErrors "passpoll/pkg/domain-errors"
)

const defaultPollTxTimeout = 5 * time.Second

// pollPostgresTx runs each poll mutation in one SQL transaction. The store and
// ledger handed to fn are bound to it, so the burn, the voted flag and the
// tally commit or roll back together. Row locks replace the in-memory shard
// locks, so keys are not needed here.
type pollPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newPollPostgresTx(db *sql.DB, timeout time.Duration) *pollPostgresTx {
	return &pollPostgresTx{db: db, timeout: timeout}
}

func (t *pollPostgresTx) RunInTx(ctx context.Context, _ []models.Address, fn func(store pollservice.Store, ledger pollservice.Ledger) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultPollTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(pollstore.NewPostgresTx(tx), passes.NewPostgresTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit transaction")
	}
	return nil
}
