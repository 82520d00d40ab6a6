package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	resultOK          = "ok"
	resultFormatError = "format_error"
)

// metrics lives in a server-local registry so several servers can coexist
// in one process
type metrics struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	duration    prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unifi2icx_conversions_total",
			Help: "Total conversion attempts by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "unifi2icx_conversion_duration_seconds",
			Help:    "Time spent parsing, extracting and rendering one input.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	m.registry.MustRegister(m.conversions, m.duration)
	m.conversions.WithLabelValues(resultOK)
	m.conversions.WithLabelValues(resultFormatError)
	return m
}

func (m *metrics) observe(result string, elapsed time.Duration) {
	m.conversions.WithLabelValues(result).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *metrics) handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
