package backend

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts backend calls.
	// Labels: operation, status (HTTP code, "timeout" or "network")
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "educator_insights",
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Total backend API requests by operation and outcome",
	}, []string{"operation", "status"})

	// requestDuration measures backend call latency.
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "educator_insights",
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Backend API request latency in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"operation"})

	// physicalPagesFetched counts physical pages fetched per requested page.
	physicalPagesFetched = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "educator_insights",
		Subsystem: "backend",
		Name:      "physical_pages_per_request",
		Help:      "Physical conversation pages fetched to serve one requested page",
		Buckets:   []float64{0, 1, 2},
	})
)

func observeRequest(operation string, err error, elapsed time.Duration) {
	requestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	requestsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
}

func statusLabel(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "200"
	case errors.As(err, &apiErr):
		return strconv.Itoa(apiErr.statusCode)
	case errors.Is(err, ErrTimeout):
		return "timeout"
	default:
		return "network"
	}
}
