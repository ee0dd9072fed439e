// Package metrics holds the Prometheus collectors for the service.
// A nil *Metrics is valid and records nothing, so tests can skip wiring a registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer         prometheus.Gatherer
	providerRequests *prometheus.CounterVec
	fallbacks        *prometheus.CounterVec
	videoCache       *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		providerRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mashup_provider_requests_total",
				Help: "Outbound provider calls by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mashup_fallback_total",
				Help: "Responses served from fallback or mock data",
			},
			[]string{"operation", "reason"},
		),
		videoCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mashup_video_cache_lookups_total",
				Help: "Video cache lookups by result",
			},
			[]string{"result"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mashup_http_request_duration_seconds",
				Help:    "HTTP handler latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
	reg.MustRegister(m.providerRequests, m.fallbacks, m.videoCache, m.requestDuration)
	return m
}

// ProviderRequest counts one outbound call.
func (m *Metrics) ProviderRequest(provider, outcome string) {
	if m == nil {
		return
	}
	m.providerRequests.WithLabelValues(provider, outcome).Inc()
}

// Fallback counts one degraded response.
func (m *Metrics) Fallback(operation, reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(operation, reason).Inc()
}

// VideoCacheLookup counts a cache hit or miss.
func (m *Metrics) VideoCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.videoCache.WithLabelValues(result).Inc()
}

// ObserveRequest records handler latency for route.
func (m *Metrics) ObserveRequest(route string, started time.Time) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route).Observe(time.Since(started).Seconds())
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
