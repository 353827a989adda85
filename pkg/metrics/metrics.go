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
	FareCalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_calculations_total",
			Help: "Total number of fare calculations by district and outcome",
		},
		[]string{"district", "status"},
	)

	FareRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fare_records_total",
			Help: "Total number of fare record writes by operation",
		},
		[]string{"operation", "status"},
	)

	FareAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fare_total_amount",
			Help:    "Distribution of saved total fares",
			Buckets: []float64{10, 20, 30, 45, 60, 80, 100, 150},
		},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts by result",
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

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "routing_key", "status"},
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

func RecordFareCalculation(district int, err error) {
	FareCalculationsTotal.WithLabelValues(strconv.Itoa(district), statusOf(err)).Inc()
}

// RecordFareRecord counts a save or delete; saved totals also feed FareAmount.
func RecordFareRecord(operation string, totalFare float64, err error) {
	FareRecordsTotal.WithLabelValues(operation, statusOf(err)).Inc()
	if err == nil && operation == "save" {
		FareAmount.Observe(totalFare)
	}
}

func RecordLogin(success bool, err error) {
	result := "failure"
	switch {
	case err != nil:
		result = "error"
	case success:
		result = "success"
	}
	LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(service, routingKey string, err error) {
	RabbitMQMessagesPublished.WithLabelValues(service, routingKey, statusOf(err)).Inc()
}

// RecordRabbitMQConsume records RabbitMQ consume metrics
func RecordRabbitMQConsume(service, queue string, err error) {
	RabbitMQMessagesConsumed.WithLabelValues(service, queue, statusOf(err)).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
