package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestManager_Observations(t *testing.T) {
	m := NewManager("fitness", "test", prometheus.NewRegistry())

	m.ObserveResolution(OutcomeScheduled, 0.01)
	m.ObserveResolution(OutcomeScheduled, 0.02)
	m.ObserveResolution(OutcomeNone, 0.01)
	m.StaleDiscarded()
	m.RoutineCacheLookup(true)
	m.RoutineCacheLookup(false)
	m.RoutineCacheLookup(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterResolutions.WithLabelValues(OutcomeScheduled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterResolutions.WithLabelValues(OutcomeNone)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterStaleDiscards))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRoutineCache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterRoutineCache.WithLabelValues("miss")))
}

func TestManager_SessionsAndRequests(t *testing.T) {
	m := NewTestManager()

	m.NavigatorSessions(3)
	m.NavigatorSessions(2)
	m.RequestServed("GET", 200)
	m.RequestServed("GET", 200)
	m.RequestServed("POST", 503)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GaugeNavigatorSessions))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRequests.WithLabelValues("POST", "503")))
}

func TestManager_NilSafe(t *testing.T) {
	var m *Manager
	assert.NotPanics(t, func() {
		m.ObserveResolution(OutcomeError, 1)
		m.StaleDiscarded()
		m.RoutineCacheLookup(true)
		m.NavigatorSessions(1)
		m.RequestServed("GET", 200)
	})
}
