// Package events defines the domain events the poll service emits after a
// successful commit, and the publishers that deliver them.
//
// Events are notifications, not the source of truth: a publisher failure never
// undoes or fails the operation that produced the event.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"passpoll/internal/poll/models"
)

// Type names what happened.
type Type string

const (
	TypePollCreated     Type = "poll_created"
	TypePollStarted     Type = "poll_started"
	TypeVoterRegistered Type = "voter_registered"
	TypePassIssued      Type = "pass_issued"
	TypeVoteCast        Type = "vote_cast"
)

// Event is transport-agnostic so publishers can fan out to logs or a broker.
type Event struct {
	ID          string            `json:"id"`
	Type        Type              `json:"type"`
	PollID      models.PollID     `json:"poll_id"`
	PollAddress models.Address    `json:"poll_address"`
	Actor       models.Identity   `json:"actor"`
	Subject     models.Identity   `json:"subject,omitempty"`
	Choice      models.VoteChoice `json:"choice,omitempty"`
	RequestID   string            `json:"request_id,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

// New stamps an event with a fresh id.
func New(eventType Type, poll *models.Poll, actor models.Identity, occurredAt time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		PollID:      poll.ID,
		PollAddress: poll.Address,
		Actor:       actor,
		OccurredAt:  occurredAt.UTC(),
	}
}

// LogPublisher writes events to a structured logger. It never fails.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, event Event) error {
	if p.logger == nil {
		return nil
	}
	p.logger.InfoContext(ctx, string(event.Type),
		"event_id", event.ID,
		"poll_id", event.PollID,
		"actor", event.Actor,
		"subject", event.Subject,
		"choice", event.Choice,
		"request_id", event.RequestID,
	)
	return nil
}
