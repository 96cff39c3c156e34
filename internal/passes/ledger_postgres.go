package passes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"passpoll/internal/platform/postgres"
	"passpoll/internal/poll/models"
	"passpoll/pkg/platform/sentinel"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresLedger stores pass classes and balances in PostgreSQL.
// Bound to a transaction, its burns commit or roll back with the caller's other writes.
type PostgresLedger struct {
	db querier
}

// NewPostgres constructs a ledger over a connection pool.
func NewPostgres(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// NewPostgresTx constructs a ledger bound to a transaction.
func NewPostgresTx(tx *sql.Tx) *PostgresLedger {
	return &PostgresLedger{db: tx}
}

func (l *PostgresLedger) CreateClass(ctx context.Context, class models.TokenClass, mintAuthority models.Identity) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO pass_classes (class, mint_authority) VALUES ($1, $2)`,
		string(class), string(mintAuthority),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("create class %s: %w", class, sentinel.ErrConflict)
		}
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// MintOne credits one pass. The increment refuses to pass MaxBalance, so a full
// balance leaves the upsert with no affected row.
func (l *PostgresLedger) MintOne(ctx context.Context, authority models.Identity, class models.TokenClass, recipient models.Identity) error {
	owner, err := l.mintAuthority(ctx, class)
	if err != nil {
		return fmt.Errorf("mint %s: %w", class, err)
	}
	if owner != authority {
		return fmt.Errorf("mint %s: %w", class, sentinel.ErrForbidden)
	}

	query := `
		INSERT INTO pass_balances (class, holder, balance)
		VALUES ($1, $2, 1)
		ON CONFLICT (class, holder) DO UPDATE
		SET balance = pass_balances.balance + 1
		WHERE pass_balances.balance < $3::numeric
	`
	result, err := l.db.ExecContext(ctx, query,
		string(class), string(recipient), strconv.FormatUint(MaxBalance, 10),
	)
	if err != nil {
		return fmt.Errorf("mint: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mint rows affected: %w", err)
	}
	if rows == 0 {
		return ErrBalanceOverflow
	}
	return nil
}

// BurnOne debits one pass with a guarded decrement; a zero balance matches no row.
func (l *PostgresLedger) BurnOne(ctx context.Context, holderAuthority models.Identity, class models.TokenClass, holder models.Identity) error {
	if holderAuthority != holder {
		return fmt.Errorf("burn %s: %w", class, sentinel.ErrForbidden)
	}
	if _, err := l.mintAuthority(ctx, class); err != nil {
		return fmt.Errorf("burn %s: %w", class, err)
	}

	result, err := l.db.ExecContext(ctx, `
		UPDATE pass_balances
		SET balance = balance - 1
		WHERE class = $1 AND holder = $2 AND balance > 0
	`, string(class), string(holder))
	if err != nil {
		return fmt.Errorf("burn: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("burn rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("burn %s: %w", class, sentinel.ErrInsufficient)
	}
	return nil
}

func (l *PostgresLedger) BalanceOf(ctx context.Context, class models.TokenClass, holder models.Identity) (uint64, error) {
	var raw string
	err := l.db.QueryRowContext(ctx,
		`SELECT balance::text FROM pass_balances WHERE class = $1 AND holder = $2`,
		string(class), string(holder),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
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

func (l *PostgresLedger) mintAuthority(ctx context.Context, class models.TokenClass) (models.Identity, error) {
	var owner string
	err := l.db.QueryRowContext(ctx,
		`SELECT mint_authority FROM pass_classes WHERE class = $1`, string(class),
	).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return models.Identity(owner), nil
}
