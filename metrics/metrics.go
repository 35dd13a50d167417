// Package metrics defines the Prometheus collectors for session and
// permission activity.
//
// Metric naming follows Prometheus conventions:
//   - officesession_ prefix for all metrics
//   - _total suffix for counters
//
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/go-playground/errors/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
	OutcomeStale    = "stale"
)

// Permission source labels.
const (
	SourceRemote   = "remote"
	SourceCache    = "cache"
	SourceDefault  = "default"
	SourceFallback = "fallback"
	SourceUnknown  = "unknown_role"
)

// Metrics holds the collectors.
type Metrics struct {
	logins        *prometheus.CounterVec
	refreshes     *prometheus.CounterVec
	retries       prometheus.Counter
	forcedLogouts prometheus.Counter
	resolutions   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "officesession_logins_total",
				Help: "Total login attempts by outcome.",
			},
			[]string{"outcome"},
		),
		refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "officesession_refreshes_total",
				Help: "Total token refresh operations by outcome. Coalesced callers count once.",
			},
			[]string{"outcome"},
		),
		retries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "officesession_request_retries_total",
				Help: "Total authenticated requests resent after a refresh.",
			},
		),
		forcedLogouts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "officesession_forced_logouts_total",
				Help: "Total sessions ended because a retried request was still unauthorized.",
			},
		),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "officesession_permission_resolutions_total",
				Help: "Total permission resolutions by the source of the matrix.",
			},
			[]string{"source"},
		),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.logins, m.refreshes, m.retries, m.forcedLogouts, m.resolutions} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "prometheus.Registerer.Register()")
		}
	}

	return m, nil
}

func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Refresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Retry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

func (m *Metrics) ForcedLogout() {
	if m == nil {
		return
	}
	m.forcedLogouts.Inc()
}

func (m *Metrics) Resolution(source string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(source).Inc()
}
