package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsTotal - итог выполнения задач раннера: success | failed | dropped (не разобрана из очереди).
	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avbot_jobs_total",
		Help: "Search jobs by terminal state, dropped for queue entries that could not be decoded",
	}, []string{"outcome"})

	JobRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "avbot_job_retries_total",
		Help: "Retries scheduled after transport failures",
	})

	JobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "avbot_job_duration_seconds",
		Help:    "Wall time of one job invocation including retries",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avbot_cache_lookups_total",
		Help: "Cache lookups by operation and result (hit | miss | error)",
	}, []string{"op", "result"})

	ProviderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "avbot_provider_request_duration_seconds",
		Help:    "Latency of requests to the plate photo service",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	Classifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avbot_classifications_total",
		Help: "Classifier outcomes: none | single | ambiguous",
	}, []string{"outcome"})
)

// CacheHit / CacheMiss / CacheError - короткие хелперы для мест кэш-запросов.
func CacheHit(op string)   { CacheLookups.WithLabelValues(op, "hit").Inc() }
func CacheMiss(op string)  { CacheLookups.WithLabelValues(op, "miss").Inc() }
func CacheError(op string) { CacheLookups.WithLabelValues(op, "error").Inc() }
