package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.IncrementVotesCast("yes")
	m.IncrementVotesCast("yes")
	m.IncrementVotesCast("no")
	m.IncrementRejection("cast_vote", "already_voted")
	m.IncrementPassesIssued()
	m.IncrementPollsCreated()
	m.ObserveOperationLatency("cast_vote", 3*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.VotesCast.WithLabelValues("yes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VotesCast.WithLabelValues("no")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejections.WithLabelValues("cast_vote", "already_voted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PassesIssued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PollsCreated))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementVotesCast("yes")
		m.IncrementRejection("start_poll", "unauthorized")
		m.IncrementPassesIssued()
		m.IncrementPollsCreated()
		m.ObserveOperationLatency("start_poll", time.Millisecond)
	})
}
