package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.ObserveRequest("POST", "/polls", 201, 0.01)
	m.ObserveRequest("POST", "/polls", 409, 0.02)
	m.ObserveRequest("POST", "/polls", 404, 0.02)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/polls", "2xx")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/polls", "4xx")))
}

func TestObserveRequest_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveRequest("GET", "/", 200, 0) })
}
