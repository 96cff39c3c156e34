package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"passpoll/pkg/platform/circuit"
)

// Producer writes a keyed record to a message broker.
type Producer interface {
	Produce(ctx context.Context, key, value []byte) error
}

// BrokerPublisher serializes events as JSON keyed by poll address, so one poll's
// events stay ordered on one partition. While the broker is failing, the breaker
// opens and events go to the fallback publisher instead of waiting on the broker.
type BrokerPublisher struct {
	producer Producer
	breaker  *circuit.Breaker
	fallback *LogPublisher
	logger   *slog.Logger
}

// BrokerOption configures a BrokerPublisher.
type BrokerOption func(*BrokerPublisher)

func WithBreaker(b *circuit.Breaker) BrokerOption {
	return func(p *BrokerPublisher) {
		p.breaker = b
	}
}

func WithBrokerLogger(logger *slog.Logger) BrokerOption {
	return func(p *BrokerPublisher) {
		p.logger = logger
	}
}

func NewBrokerPublisher(producer Producer, opts ...BrokerOption) *BrokerPublisher {
	p := &BrokerPublisher{
		producer: producer,
		breaker:  circuit.New("event-broker"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.fallback = NewLogPublisher(p.logger)
	return p
}

func (p *BrokerPublisher) Emit(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if !p.breaker.Allow() {
		return p.fallback.Emit(ctx, event)
	}

	if err := p.producer.Produce(ctx, []byte(event.PollAddress), value); err != nil {
		_, change := p.breaker.RecordFailure()
		if change.Opened && p.logger != nil {
			p.logger.ErrorContext(ctx, "event broker circuit opened",
				"breaker", p.breaker.Name(),
				"error", err,
			)
		}
		_ = p.fallback.Emit(ctx, event)
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	if _, change := p.breaker.RecordSuccess(); change.Closed && p.logger != nil {
		p.logger.InfoContext(ctx, "event broker circuit closed", "breaker", p.breaker.Name())
	}
	return nil
}
