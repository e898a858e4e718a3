package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cinesearch"

// Metrics groups the collectors shared by the OMDb client and the query cache
type Metrics struct {
	CacheReads       *prometheus.CounterVec
	CacheDeduped     prometheus.Counter
	CacheEntries     prometheus.Gauge
	Revalidations    *prometheus.CounterVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CacheReads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "reads_total",
			Help:      "Cache reads by outcome (hit, stale, miss, idle).",
		}, []string{"outcome"}),
		CacheDeduped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "deduplicated_total",
			Help:      "Fetches that attached to an in-flight request for the same key.",
		}),
		CacheEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Entries currently held by the cache.",
		}),
		Revalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "revalidations_total",
			Help:      "Proactive refresh rounds by trigger (interval, reconnect, focus).",
		}, []string{"reason"}),
		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Upstream requests by outcome (ok, network, http, api).",
		}, []string{"outcome"}),
		UpstreamDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Upstream request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Discard returns collectors registered on a private registry
func Discard() *Metrics {
	return New(prometheus.NewRegistry())
}
