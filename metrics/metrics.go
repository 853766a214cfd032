// Package metrics exposes parse run counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/ixgest/report"
)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "assocparse"

// ParserMetrics holds the parse run collectors
type ParserMetrics struct {
	LinesTotal        *prometheus.CounterVec
	AssociationsTotal *prometheus.CounterVec
	SkippedTotal      *prometheus.CounterVec
	MessagesTotal     *prometheus.CounterVec
	ParseDuration     *prometheus.HistogramVec
}

// NewParserMetrics creates unregistered collectors under namespace
func NewParserMetrics(namespace string) *ParserMetrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &ParserMetrics{
		LinesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "parser",
				Name:      "lines_total",
				Help:      "Lines read, headers included",
			},
			[]string{"format"},
		),

		AssociationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "parser",
				Name:      "associations_total",
				Help:      "Associations emitted",
			},
			[]string{"format"},
		),

		SkippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "parser",
				Name:      "skipped_lines_total",
				Help:      "Data lines that produced no association",
			},
			[]string{"format"},
		),

		MessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "report",
				Name:      "messages_total",
				Help:      "Diagnostic messages recorded",
			},
			[]string{"format", "severity", "category"},
		),

		ParseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "parser",
				Name:      "duration_seconds",
				Help:      "Wall time of one parse run",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"format"},
		),
	}
}

// Register adds every collector to reg
func (m *ParserMetrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.LinesTotal, m.AssociationsTotal, m.SkippedTotal, m.MessagesTotal, m.ParseDuration,
	} {
		if err := reg.Register(c); err != nil {
			return errors.Wrap(err, "register parser metrics")
		}
	}
	return nil
}

// ObserveRun records the totals of one finished run
func (m *ParserMetrics) ObserveRun(format string, lines, associations, skipped int, duration time.Duration) {
	if m == nil {
		return
	}
	m.LinesTotal.WithLabelValues(format).Add(float64(lines))
	m.AssociationsTotal.WithLabelValues(format).Add(float64(associations))
	m.SkippedTotal.WithLabelValues(format).Add(float64(skipped))
	m.ParseDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// ObserveMessages counts diagnostics by severity and category
func (m *ParserMetrics) ObserveMessages(format string, msgs []report.Message) {
	if m == nil {
		return
	}
	for _, msg := range msgs {
		m.MessagesTotal.WithLabelValues(format, string(msg.Level), string(msg.Type)).Inc()
	}
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
