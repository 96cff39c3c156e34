package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the poll module.
type Metrics struct {
	// Accepted votes by choice
	VotesCast *prometheus.CounterVec

	// Failed operations by operation and error code
	Rejections *prometheus.CounterVec

	PassesIssued prometheus.Counter
	PollsCreated prometheus.Counter

	// Service-level latency per operation, including lock wait
	OperationLatency *prometheus.HistogramVec
}

// New registers the poll metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the poll metrics with reg. Tests pass a fresh registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VotesCast: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "passpoll_votes_cast_total",
			Help: "Total votes accepted by choice",
		}, []string{"choice"}), // choice: "yes", "no"

		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "passpoll_operation_rejections_total",
			Help: "Total failed poll operations by operation and error code",
		}, []string{"operation", "code"}),

		PassesIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "passpoll_passes_issued_total",
			Help: "Total voting passes minted",
		}),

		PollsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "passpoll_polls_created_total",
			Help: "Total polls created",
		}),

		OperationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "passpoll_operation_duration_seconds",
			Help:    "Duration of poll operations",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// IncrementVotesCast records an accepted vote.
func (m *Metrics) IncrementVotesCast(choice string) {
	if m != nil {
		m.VotesCast.WithLabelValues(choice).Inc()
	}
}

// IncrementRejection records a failed operation.
func (m *Metrics) IncrementRejection(operation, code string) {
	if m != nil {
		m.Rejections.WithLabelValues(operation, code).Inc()
	}
}

func (m *Metrics) IncrementPassesIssued() {
	if m != nil {
		m.PassesIssued.Inc()
	}
}

func (m *Metrics) IncrementPollsCreated() {
	if m != nil {
		m.PollsCreated.Inc()
	}
}

// ObserveOperationLatency records how long an operation took end to end.
func (m *Metrics) ObserveOperationLatency(operation string, d time.Duration) {
	if m != nil {
		m.OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
