package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Длительность HTTP запросов (секунды)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Вердикты модерации
	ModerationVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_verdicts_total",
			Help: "Moderation results by backend and verdict",
		},
		[]string{"backend", "verdict"}, // verdict: clean, flag, reject, unverified
	)

	// Задержка внешней модерации (миллисекунды)
	ModerationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moderation_latency_ms",
			Help:    "Moderation backend call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1ms to ~4s
		},
		[]string{"backend"},
	)

	// Отклики по итоговому статусу
	BidTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bid_transitions_total",
			Help: "Bid lifecycle transitions",
		},
		[]string{"status"}, // pending, accepted, rejected, withdrawn
	)

	// Попытки принятия отклика
	AcceptAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bid_accept_attempts_total",
			Help: "Bid acceptance attempts by outcome",
		},
		[]string{"outcome"}, // accepted, conflict, invalid_state, forbidden, error
	)

	// Удаление проектов
	ProjectDeletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_deletions_total",
			Help: "Project deletions by mode",
		},
		[]string{"mode"}, // hard, soft
	)

	// Операции с хранилищем
	StorageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_operations_total",
			Help: "Object storage operations by result",
		},
		[]string{"operation", "status"}, // status: success, failed
	)

	// Доставка событий
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Domain events handed to notifiers",
		},
		[]string{"channel", "status"},
	)

	// Активные websocket соединения
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_active_connections",
			Help: "Currently connected websocket clients",
		},
	)
)

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordModeration(backend, verdict string, duration time.Duration) {
	ModerationVerdicts.WithLabelValues(backend, verdict).Inc()
	ModerationLatency.WithLabelValues(backend).Observe(float64(duration.Milliseconds()))
}

func IncrementBidTransition(status string) {
	BidTransitions.WithLabelValues(status).Inc()
}

func IncrementAcceptAttempt(outcome string) {
	AcceptAttempts.WithLabelValues(outcome).Inc()
}

func IncrementProjectDeletion(mode string) {
	ProjectDeletions.WithLabelValues(mode).Inc()
}

func IncrementStorageOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	StorageOperations.WithLabelValues(operation, status).Inc()
}

func IncrementEventPublished(channel string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	EventsPublished.WithLabelValues(channel, status).Inc()
}
