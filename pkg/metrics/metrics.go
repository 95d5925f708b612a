package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Business metrics
	FarePredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_predictions_total",
			Help: "Total number of fare predictions by outcome",
		},
		[]string{"service", "status"},
	)

	FarePredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fare_prediction_duration_seconds",
			Help:    "Model scoring duration in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"service"},
	)

	PredictedFareAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "predicted_fare_amount",
			Help:    "Distribution of predicted fare amounts",
			Buckets: []float64{5, 10, 15, 20, 30, 40, 60, 80, 120, 200},
		},
		[]string{"service"},
	)

	ModelLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_model_loads_total",
			Help: "Total number of model load attempts",
		},
		[]string{"source", "status"},
	)

	FareCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_cache_lookups_total",
			Help: "Fare cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"service", "operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "queue", "status"},
	)

	RabbitMQMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_consumed_total",
			Help: "Total number of messages consumed from RabbitMQ",
		},
		[]string{"service", "queue", "status"},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(service, operation string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseQueriesTotal.WithLabelValues(service, operation, status).Inc()
	DatabaseQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(service, queue string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RabbitMQMessagesPublished.WithLabelValues(service, queue, status).Inc()
}

// RecordRabbitMQConsume records RabbitMQ consume metrics
func RecordRabbitMQConsume(service, queue string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RabbitMQMessagesConsumed.WithLabelValues(service, queue, status).Inc()
}

// RecordPrediction records the outcome of a single scoring call
func RecordPrediction(service string, fare float64, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	FarePredictionsTotal.WithLabelValues(service, status).Inc()
	FarePredictionDuration.WithLabelValues(service).Observe(duration.Seconds())
	if err == nil {
		PredictedFareAmount.WithLabelValues(service).Observe(fare)
	}
}

// RecordModelLoad records a model load attempt
func RecordModelLoad(source string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ModelLoadsTotal.WithLabelValues(source, status).Inc()
}

// RecordCacheLookup records a fare cache lookup result
func RecordCacheLookup(result string) {
	FareCacheLookupsTotal.WithLabelValues(result).Inc()
}
