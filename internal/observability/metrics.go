// Package observability provides prometheus metrics for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibehunt_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vibehunt_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// VotesToggled counts settled vote toggles by resulting state.
	VotesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibehunt_votes_toggled_total",
		Help: "Total number of vote toggles by resulting state",
	}, []string{"state"})

	// CommentsCreated counts comments appended to posts.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vibehunt_comments_created_total",
		Help: "Total number of comments created",
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
