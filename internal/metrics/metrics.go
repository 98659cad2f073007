package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Redis Operations Metrics
var (
	// RedisOpsTotal tracks total Redis operations by operation type and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// RedisConnectionErrors tracks Redis connection errors
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_connection_errors_total",
			Help: "Total Redis connection errors",
		},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// Vote Pipeline Metrics
var (
	// VotesProcessed tracks vote attempts by outcome (applied/duplicate/window_closed/unknown_article)
	VotesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "votes_processed_total",
			Help: "Total number of vote attempts processed, by outcome",
		},
		[]string{"result"},
	)

	// VoteProcessingDuration tracks duration of a full vote attempt in seconds
	VoteProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vote_processing_duration_seconds",
			Help:    "Duration of vote processing in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// ArticlesPosted tracks total articles posted
	ArticlesPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_posted_total",
			Help: "Total number of articles posted",
		},
	)
)

// Group Ranking Cache Metrics
var (
	// GroupCacheLookups tracks group ranking cache lookups by result (hit/miss)
	GroupCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "group_cache_lookups_total",
			Help: "Total group ranking cache lookups, by result (hit/miss)",
		},
		[]string{"result"},
	)

	// GroupCacheRebuildDuration tracks how long a group ranking rebuild takes
	GroupCacheRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "group_cache_rebuild_duration_seconds",
			Help:    "Duration of group ranking cache rebuilds in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)
)
