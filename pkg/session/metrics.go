package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opRestore       = "restore"
	opLogin         = "login"
	opRegister      = "register"
	opLogout        = "logout"
	opDeleteAccount = "delete_account"

	resultSuccess   = "success"
	resultFailure   = "failure"
	resultDiscarded = "discarded"
)

// Metrics holds the coordinator's Prometheus metrics.
type Metrics struct {
	Transitions   *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	Authenticated prometheus.Gauge
}

// NewMetrics creates the session metrics and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "artsy_session_operations_total",
				Help: "Total number of session operations by result",
			},
			[]string{"operation", "result"},
		),
		Duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "artsy_session_operation_duration_seconds",
				Help:    "Session operation duration in seconds, network included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		Authenticated: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "artsy_session_authenticated",
				Help: "1 if the process holds an authenticated session",
			},
		),
	}
}

func (m *Metrics) record(op, result string) {
	m.Transitions.WithLabelValues(op, result).Inc()
}

func (m *Metrics) observe(s State) {
	if s.Authenticated() {
		m.Authenticated.Set(1)
	} else {
		m.Authenticated.Set(0)
	}
}
