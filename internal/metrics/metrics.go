// Package metrics instruments search and deletion outcomes with Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Metrics holds registry counters and histograms. A nil *Metrics is valid and
// records nothing, so callers never guard their instrumentation.
type Metrics struct {
	SearchRequests  *prometheus.CounterVec
	SearchDuration  *prometheus.HistogramVec
	SearchTruncated *prometheus.CounterVec
	DeleteOutcomes  *prometheus.CounterVec
	DeleteRetries   prometheus.Counter
	ArchiveFailures prometheus.Counter
}

// New registers all registry metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SearchRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_search_requests_total",
			Help: "Search requests by search type and outcome",
		}, []string{"search", "outcome"}),
		SearchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registry_search_duration_seconds",
			Help:    "Duration of search requests",
			Buckets: latencyBuckets,
		}, []string{"search"}),
		SearchTruncated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_search_truncated_total",
			Help: "Searches whose result set was capped",
		}, []string{"search"}),
		DeleteOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_delete_outcomes_total",
			Help: "Delete flow terminal states by object kind",
		}, []string{"kind", "state"}),
		DeleteRetries: f.NewCounter(prometheus.CounterOpts{
			Name: "registry_delete_conflict_retries_total",
			Help: "Compare-and-apply conflicts that caused a delete to re-evaluate its guard",
		}),
		ArchiveFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "registry_history_archive_failures_total",
			Help: "Committed deletes whose history record could not be archived",
		}),
	}
}

// ObserveSearch records a finished search. Call with time.Now() at the start of the search.
func (m *Metrics) ObserveSearch(search, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.SearchRequests.WithLabelValues(search, outcome).Inc()
	m.SearchDuration.WithLabelValues(search).Observe(time.Since(start).Seconds())
}

// IncrementTruncated records a capped search result.
func (m *Metrics) IncrementTruncated(search string) {
	if m == nil {
		return
	}
	m.SearchTruncated.WithLabelValues(search).Inc()
}

// IncrementDelete records a delete flow outcome.
func (m *Metrics) IncrementDelete(kind, state string) {
	if m == nil {
		return
	}
	m.DeleteOutcomes.WithLabelValues(kind, state).Inc()
}

// IncrementDeleteRetry records a lost compare-and-apply race.
func (m *Metrics) IncrementDeleteRetry() {
	if m == nil {
		return
	}
	m.DeleteRetries.Inc()
}

// IncrementArchiveFailure records a history archive failure.
func (m *Metrics) IncrementArchiveFailure() {
	if m == nil {
		return
	}
	m.ArchiveFailures.Inc()
}
