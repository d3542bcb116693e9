package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tracks the number of outbound API calls to BirdDog HR.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birddog_api_requests_total",
			Help: "Total number of BirdDog HR API requests made (by endpoint, method and status).",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Measures duration of API requests to BirdDog HR.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "birddog_api_request_duration_seconds",
			Help:    "Duration of BirdDog HR API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"endpoint", "method"},
	)
)

// IncRequest counts one outbound request. status is the HTTP status code, or
// 0 when the request never produced a response.
func IncRequest(endpoint, method string, status int) {
	RequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
}

// ObserveRequest records the elapsed time of an outbound request.
func ObserveRequest(endpoint, method string, start time.Time) {
	RequestDuration.WithLabelValues(endpoint, method).Observe(time.Since(start).Seconds())
}
