package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passpoll/internal/poll/models"
	"passpoll/pkg/platform/circuit"
)

type record struct {
	key   string
	value []byte
}

type fakeProducer struct {
	mu      sync.Mutex
	err     error
	records []record
	calls   int
}

func (f *fakeProducer) Produce(_ context.Context, key, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record{key: string(key), value: value})
	return nil
}

func testEvent(t *testing.T) Event {
	t.Helper()
	poll, err := models.NewPoll("admin", 1, "Q?", 100, 200, "T")
	require.NoError(t, err)
	event := New(TypeVoteCast, poll, "alice", time.Unix(150, 0))
	event.Subject = "alice"
	event.Choice = models.VoteYes
	return event
}

func TestNew(t *testing.T) {
	event := testEvent(t)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, models.PollAddress(1), event.PollAddress)
	assert.Equal(t, time.Unix(150, 0).UTC(), event.OccurredAt)
	assert.NotEqual(t, event.ID, testEvent(t).ID)
}

func TestBrokerPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("produces JSON keyed by poll address", func(t *testing.T) {
		producer := &fakeProducer{}
		pub := NewBrokerPublisher(producer, WithBrokerLogger(logger))
		event := testEvent(t)

		require.NoError(t, pub.Emit(context.Background(), event))
		require.Len(t, producer.records, 1)
		assert.Equal(t, string(event.PollAddress), producer.records[0].key)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(producer.records[0].value, &decoded))
		assert.Equal(t, "vote_cast", decoded["type"])
		assert.Equal(t, "yes", decoded["choice"])
	})

	t.Run("open breaker stops calling the broker", func(t *testing.T) {
		producer := &fakeProducer{err: errors.New("broker down")}
		breaker := circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
		pub := NewBrokerPublisher(producer, WithBreaker(breaker), WithBrokerLogger(logger))

		assert.Error(t, pub.Emit(context.Background(), testEvent(t)))
		assert.Error(t, pub.Emit(context.Background(), testEvent(t)))
		assert.True(t, breaker.IsOpen())

		assert.NoError(t, pub.Emit(context.Background(), testEvent(t)), "fallback absorbs the event")
		assert.Equal(t, 2, producer.calls)
	})
}

func TestLogPublisher_NilLoggerIsNoop(t *testing.T) {
	assert.NoError(t, NewLogPublisher(nil).Emit(context.Background(), testEvent(t)))
}
