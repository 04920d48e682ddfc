package transport

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gym_console_requests_total",
			Help: "API requests issued, labelled by method and outcome.",
		}, []string{"method", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gym_console_request_duration_seconds",
			Help:    "API request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

func (c *Client) observe(method, code string, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.requests.WithLabelValues(method, code).Inc()
	c.metrics.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// statusLabel collapses status codes into a stable label value; "network" is
// used when no response was received.
func statusLabel(status int) string {
	return strconv.Itoa(status)
}
