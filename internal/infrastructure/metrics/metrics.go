package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/ajpbench/ajpbench-go-client/internal/domain/port"
)

const namespace = "ajpbench"

// Metrics holds the collectors of one run. It observes every result record
// and can be exported in the text exposition format.
type Metrics struct {
	registry       *prometheus.Registry
	ActiveSessions prometheus.Gauge
	RoundsTotal    *prometheus.CounterVec
	RoundDuration  *prometheus.HistogramVec
	ResponseBytes  *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry
func NewMetrics() *Metrics {
	r := prometheus.NewRegistry()
	m := &Metrics{
		registry: r,
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of request sessions currently running",
		}),
		RoundsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Total rounds by target, outcome and status code",
		}, []string{"url", "outcome", "status"}),
		RoundDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_duration_seconds",
			Help:      "Round duration from the first write to END_RESPONSE",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
		}, []string{"url"}),
		ResponseBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "response_bytes_total",
			Help:      "Total response body bytes received",
		}, []string{"url"}),
	}
	r.MustRegister(m.ActiveSessions, m.RoundsTotal, m.RoundDuration, m.ResponseBytes)
	return m
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Observe implements port.ResultObserver
func (m *Metrics) Observe(record model.ResultRecord) {
	outcome := string(record.Failure)
	if outcome == "" {
		outcome = "ok"
	}
	m.RoundsTotal.WithLabelValues(record.URL, outcome, strconv.Itoa(record.StatusCode)).Inc()
	m.RoundDuration.WithLabelValues(record.URL).Observe(record.Elapsed.Seconds())
	m.ResponseBytes.WithLabelValues(record.URL).Add(float64(record.BytesReceived))
}

// SessionStarted increments the active session gauge
func (m *Metrics) SessionStarted() { m.ActiveSessions.Inc() }

// SessionFinished decrements the active session gauge
func (m *Metrics) SessionFinished() { m.ActiveSessions.Dec() }

// WriteTextfile writes the current values to path, for the node exporter
// textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

var _ port.ResultObserver = (*Metrics)(nil)
