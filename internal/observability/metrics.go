package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maeul_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maeul_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FeedBuildLatency records how long merging the per-source feed queries takes.
	FeedBuildLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maeul_feed_build_latency_seconds",
		Help:    "Latency of activity/news feed aggregation in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"feed"})

	// HeartToggles counts heart toggle outcomes by target and action.
	HeartToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maeul_heart_toggles_total",
		Help: "Total number of heart toggles by target (post/comment) and action (on/off)",
	}, []string{"target", "action"})

	// ImageUploadsTotal counts image uploads by decoded format.
	ImageUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maeul_image_uploads_total",
		Help: "Total number of stored post images by format",
	}, []string{"format"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// TrackFeedBuild returns a function that records feed aggregation latency when called.
func TrackFeedBuild(feed string) func() {
	start := time.Now()
	return func() {
		FeedBuildLatency.WithLabelValues(feed).Observe(time.Since(start).Seconds())
	}
}
