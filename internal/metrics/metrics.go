// Package metrics provides Prometheus metrics for the analysis service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeAnalyzed = "analyzed"
	OutcomeFailed   = "failed"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentiment_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	filesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_files_total",
			Help: "Documents processed by outcome",
		},
		[]string{"outcome"},
	)

	promptFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_prompt_failures_total",
			Help: "Model prompts that returned an error",
		},
		[]string{"prompt"},
	)
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordFile(outcome string) {
	filesTotal.WithLabelValues(outcome).Inc()
}

func RecordPromptFailure(prompt string) {
	promptFailures.WithLabelValues(prompt).Inc()
}
