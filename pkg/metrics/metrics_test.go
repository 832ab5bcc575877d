package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry("reservations", prometheus.NewRegistry())

	m.RecordReservationCreated()
	m.RecordReservationCreated()
	m.RecordTransition("confirmed")
	m.RecordSwept("expired", 3)
	m.RecordSwept("completed", 0)
	m.ObserveDBQuery("select", nil, time.Millisecond)
	m.ObserveDBQuery("insert", errors.New("boom"), time.Millisecond)
	m.ObserveHTTPRequest("GET", "/api/v1/availability", 200, time.Millisecond)
	m.SetDBPoolStats(5, 2, 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsCreated.WithLabelValues("reservations")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationTransitions.WithLabelValues("reservations", "confirmed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ReservationsSwept.WithLabelValues("reservations", "expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("reservations", "insert", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("reservations", "GET", "/api/v1/availability", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DBInUse.WithLabelValues("reservations")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordReservationCreated()
		m.RecordTransition("cancelled")
		m.RecordSwept("expired", 1)
		m.ObserveDBQuery("select", nil, time.Second)
		m.ObserveHTTPRequest("GET", "/", 200, time.Second)
		m.SetDBPoolStats(1, 1, 0)
	})
	assert.Empty(t, m.ServiceName())
}
