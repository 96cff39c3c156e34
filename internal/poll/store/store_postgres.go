package store

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

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists poll and voter-state records in PostgreSQL.
// This store is pure I/O; validation and state transitions belong in the service.
type PostgresStore struct {
	db        querier
	forUpdate bool
}

// NewPostgres constructs a store over a connection pool. Reads take no row locks.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx constructs a store bound to a transaction. Every read locks the
// row it returns until the transaction ends.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{db: tx, forUpdate: true}
}

func (s *PostgresStore) CreatePoll(ctx context.Context, poll *models.Poll) error {
	query := `
		INSERT INTO polls (address, poll_id, admin, question, start_ts, end_ts, is_active, pass_token_class, total_yes, total_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric, $10::numeric)
	`
	_, err := s.db.ExecContext(ctx, query,
		string(poll.Address),
		strconv.FormatUint(uint64(poll.ID), 10),
		string(poll.Admin),
		poll.Question,
		poll.StartTS,
		poll.EndTS,
		poll.IsActive,
		string(poll.PassTokenClass),
		strconv.FormatUint(poll.TotalYes, 10),
		strconv.FormatUint(poll.TotalNo, 10),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("create poll %d: %w", poll.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create poll: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindPoll(ctx context.Context, addr models.Address) (*models.Poll, error) {
	query := `
		SELECT address, poll_id::text, admin, question, start_ts, end_ts, is_active, pass_token_class, total_yes::text, total_no::text
		FROM polls
		WHERE address = $1
	`
	if s.forUpdate {
		query += " FOR UPDATE"
	}
	poll, err := scanPoll(s.db.QueryRowContext(ctx, query, string(addr)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find poll: %w", err)
	}
	return poll, nil
}

// UpdatePoll writes the mutable columns of a poll: the activity flag and tallies.
func (s *PostgresStore) UpdatePoll(ctx context.Context, poll *models.Poll) error {
	query := `
		UPDATE polls
		SET is_active = $2, total_yes = $3::numeric, total_no = $4::numeric
		WHERE address = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		string(poll.Address),
		poll.IsActive,
		strconv.FormatUint(poll.TotalYes, 10),
		strconv.FormatUint(poll.TotalNo, 10),
	)
	if err != nil {
		return fmt.Errorf("update poll: %w", err)
	}
	return requireRow(result, "update poll")
}

func (s *PostgresStore) CreateVoterState(ctx context.Context, state *models.VoterState) error {
	query := `
		INSERT INTO voter_states (address, poll_address, voter, has_voted)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query,
		string(state.Address),
		string(state.Poll),
		string(state.Voter),
		state.HasVoted,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("create voter state %s: %w", state.Voter, sentinel.ErrConflict)
		}
		return fmt.Errorf("create voter state: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindVoterState(ctx context.Context, addr models.Address) (*models.VoterState, error) {
	query := `
		SELECT address, poll_address, voter, has_voted
		FROM voter_states
		WHERE address = $1
	`
	if s.forUpdate {
		query += " FOR UPDATE"
	}
	var state models.VoterState
	err := s.db.QueryRowContext(ctx, query, string(addr)).
		Scan(&state.Address, &state.Poll, &state.Voter, &state.HasVoted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find voter state: %w", err)
	}
	return &state, nil
}

func (s *PostgresStore) UpdateVoterState(ctx context.Context, state *models.VoterState) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE voter_states SET has_voted = $2 WHERE address = $1`,
		string(state.Address), state.HasVoted,
	)
	if err != nil {
		return fmt.Errorf("update voter state: %w", err)
	}
	return requireRow(result, "update voter state")
}

type pollRow interface {
	Scan(dest ...any) error
}

func scanPoll(row pollRow) (*models.Poll, error) {
	var (
		poll                  models.Poll
		id, totalYes, totalNo string
	)
	if err := row.Scan(
		&poll.Address, &id, &poll.Admin, &poll.Question, &poll.StartTS, &poll.EndTS,
		&poll.IsActive, &poll.PassTokenClass, &totalYes, &totalNo,
	); err != nil {
		return nil, err
	}
	parsedID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse poll_id: %w", err)
	}
	poll.ID = models.PollID(parsedID)
	if poll.TotalYes, err = strconv.ParseUint(totalYes, 10, 64); err != nil {
		return nil, fmt.Errorf("parse total_yes: %w", err)
	}
	if poll.TotalNo, err = strconv.ParseUint(totalNo, 10, 64); err != nil {
		return nil, fmt.Errorf("parse total_no: %w", err)
	}
	return &poll, nil
}

func requireRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
