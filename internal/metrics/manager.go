package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeScheduled = "scheduled"
	OutcomeNone      = "none"
	OutcomeError     = "error"
)

type Manager struct {
	// counters
	CounterRequests      *prometheus.CounterVec
	CounterResolutions   *prometheus.CounterVec
	CounterStaleDiscards prometheus.Counter
	CounterRoutineCache  *prometheus.CounterVec

	// gauges
	GaugeNavigatorSessions prometheus.Gauge

	// histograms
	HistResolutionDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fitness", "test_server", prometheus.NewRegistry())
}

// SetupPrometheus creates a registry with the Go runtime and process collectors registered.
func SetupPrometheus() *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promRegistry
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		CounterResolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "day_resolutions",
			Help:      "The total number of program day resolutions by outcome",
		}, []string{"outcome"}),
		CounterStaleDiscards: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stale_resolutions_discarded",
			Help:      "The total number of resolutions dropped because the selected date moved on",
		}),
		CounterRoutineCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "routine_cache",
			Help:      "Routine detail cache lookups by result",
		}, []string{"result"}),
		GaugeNavigatorSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "navigator_sessions",
			Help:      "The number of live day navigator sessions",
		}),
		HistResolutionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "resolution_duration_seconds",
			Help:      "Duration of program day resolutions",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ObserveResolution records the outcome of one day resolution. Safe on a nil manager.
func (m *Manager) ObserveResolution(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.CounterResolutions.WithLabelValues(outcome).Inc()
	m.HistResolutionDuration.Observe(seconds)
}

// StaleDiscarded counts a dropped out-of-date resolution. Safe on a nil manager.
func (m *Manager) StaleDiscarded() {
	if m == nil {
		return
	}
	m.CounterStaleDiscards.Inc()
}

// RoutineCacheLookup counts cache hits and misses. Safe on a nil manager.
func (m *Manager) RoutineCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CounterRoutineCache.WithLabelValues("hit").Inc()
		return
	}
	m.CounterRoutineCache.WithLabelValues("miss").Inc()
}

// NavigatorSessions sets the number of live navigator sessions. Safe on a nil manager.
func (m *Manager) NavigatorSessions(n int) {
	if m == nil {
		return
	}
	m.GaugeNavigatorSessions.Set(float64(n))
}

// RequestServed counts a handled HTTP request. Safe on a nil manager.
func (m *Manager) RequestServed(method string, status int) {
	if m == nil {
		return
	}
	m.CounterRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
