package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/text/language"
)

// Collector implements ports.MetricsCollector using Prometheus
type Collector struct {
	translations    *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	eventFailures   *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector creates a new Prometheus metrics collector registered on reg.
// A nil reg registers on the default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		translations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transrelay_translations_total",
				Help: "Total number of translate requests by outcome and language pair",
			},
			[]string{"outcome", "src", "dest"},
		),
		upstreamLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transrelay_upstream_latency_seconds",
				Help:    "Upstream translation API call latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"provider"},
		),
		eventFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transrelay_event_publish_failures_total",
				Help: "Total number of translation events that could not be published",
			},
			[]string{"topic"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transrelay_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transrelay_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route"},
		),
	}
}

// RecordTranslation increments the translate counter for an outcome
func (c *Collector) RecordTranslation(outcome, sourceLang, destLang string) {
	c.translations.WithLabelValues(outcome, LanguageLabel(sourceLang), LanguageLabel(destLang)).Inc()
}

// ObserveUpstreamLatency records the latency of an upstream call
func (c *Collector) ObserveUpstreamLatency(provider string, duration time.Duration) {
	c.upstreamLatency.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordEventPublishFailure counts an event that could not be published
func (c *Collector) RecordEventPublishFailure(topic string) {
	c.eventFailures.WithLabelValues(topic).Inc()
}

// RecordHTTPRequest records one served HTTP request. route is the matched
// route template, or "unmatched".
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// LanguageLabel reduces a client-supplied language code to its ISO 639 base
// so label cardinality stays bounded.
func LanguageLabel(code string) string {
	switch code {
	case "auto":
		return "auto"
	case "":
		return "none"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "invalid"
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "invalid"
	}
	return base.String()
}
