package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Widget events accepted by the ingestion endpoint, by event type
	WidgetEventsIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "widget_events_ingested_total",
		Help: "Total widget events accepted for ingestion",
	}, []string{"event_type"})

	// Snapshot cache effectiveness
	SnapshotCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "widget_snapshot_cache_hits_total",
		Help: "Snapshot requests served from Redis",
	})
	SnapshotCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "widget_snapshot_cache_misses_total",
		Help: "Snapshot requests that required a rebuild from Postgres",
	})

	// Latency of snapshot rebuilds
	SnapshotBuildLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "widget_snapshot_build_latency_seconds",
		Help:    "Latency of building a store snapshot from Postgres",
		Buckets: prometheus.DefBuckets,
	})

	// Outcome of Salla price/coupon sync attempts
	SallaSyncAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "salla_sync_attempts_total",
		Help: "Salla price/coupon sync attempts by outcome",
	}, []string{"kind", "outcome"})
)

func Init() {
	prometheus.MustRegister(
		WidgetEventsIngested,
		SnapshotCacheHits,
		SnapshotCacheMisses,
		SnapshotBuildLatency,
		SallaSyncAttempts,
	)
}
