// Package metrics exposes gateway counters in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns its registry so that tests and multiple instances never
// collide on the global default registerer.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	providerCallsTotal   *prometheus.CounterVec
	providerCallDuration *prometheus.HistogramVec

	imagesGenerated *prometheus.CounterVec
}

// NewCollector registers all metrics under namespace.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"method", "route"},
		),
		providerCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_calls_total",
				Help:      "Inference provider invocations by model and outcome",
			},
			[]string{"model", "outcome"},
		),
		providerCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_call_duration_seconds",
				Help:      "Inference provider latency in seconds",
				Buckets:   []float64{.25, .5, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"model"},
		),
		imagesGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "images_generated_total",
				Help:      "Images returned to clients by model and response format",
			},
			[]string{"model", "format"},
		),
	}
}

// ObserveProviderCall records one provider invocation.
func (c *Collector) ObserveProviderCall(model string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.providerCallsTotal.WithLabelValues(model, outcome).Inc()
	c.providerCallDuration.WithLabelValues(model).Observe(elapsed.Seconds())
}

// RecordImages counts images successfully returned to a client.
func (c *Collector) RecordImages(model, format string, n int) {
	c.imagesGenerated.WithLabelValues(model, format).Add(float64(n))
}

// RecordHTTPRequest records one served request. route should be the route
// pattern, not the raw path, to keep cardinality bounded.
func (c *Collector) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the exposition endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
