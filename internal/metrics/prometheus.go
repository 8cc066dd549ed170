package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsRegistered counts accepted poll registrations.
	JobsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_jobs_registered_total",
			Help: "Total number of registered relay jobs",
		},
	)

	// JobsFinished counts background executions by outcome (complete, error, discarded).
	JobsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_jobs_finished_total",
			Help: "Total number of relay job executions by outcome",
		},
		[]string{"outcome"},
	)

	// JobDuration tracks how long the collaborator took per job.
	JobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_job_duration_seconds",
			Help:    "Duration of relay job executions in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
	)

	// JobsConsumed counts terminal results handed to a poller, by state.
	JobsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_jobs_consumed_total",
			Help: "Total number of terminal relay results delivered to pollers",
		},
		[]string{"state"},
	)

	// JobsExpired counts records evicted by the sweeper.
	JobsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_jobs_expired_total",
			Help: "Total number of relay jobs evicted after the retention window",
		},
	)

	// JobsLive reports the registry size after each sweep.
	JobsLive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_jobs_live",
			Help: "Number of relay jobs currently held in memory",
		},
	)

	// WorkersActive tracks the number of workers currently executing a job.
	WorkersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_workers_active",
			Help: "Number of currently busy relay worker goroutines",
		},
	)

	// QueueOverflow counts tasks that ran on a dedicated goroutine because the queue was full.
	QueueOverflow = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_queue_overflow_total",
			Help: "Total number of relay tasks spilled past the worker queue",
		},
	)

	// ChatRequests counts synchronous chat replies by provider and response status.
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Total number of chat requests by provider and status",
		},
		[]string{"provider", "status"},
	)
)
