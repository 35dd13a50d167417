package session

import (
	"time"

	"github.com/cccteam/officesession/metrics"
)

const (
	// DefaultRenewInterval sits inside a typical 15 to 20 minute access token lifetime.
	DefaultRenewInterval = 14 * time.Minute

	// DefaultRefreshTimeout bounds a shared refresh so waiters are always released.
	DefaultRefreshTimeout = 15 * time.Second
)

// TickerFunc starts a ticker with period d and returns its channel and a stop func.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func newTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)

	return t.C, t.Stop
}

// Option configures a Manager.
type Option func(*Manager)

// WithRenewInterval sets the background renewal period. (default: 14m)
func WithRenewInterval(d time.Duration) Option {
	return Option(func(m *Manager) {
		if d > 0 {
			m.renewInterval = d
		}
	})
}

// WithRefreshTimeout bounds every refresh. (default: 15s)
func WithRefreshTimeout(d time.Duration) Option {
	return Option(func(m *Manager) {
		if d > 0 {
			m.refreshTimeout = d
		}
	})
}

// WithTicker replaces the ticker driving background renewal.
func WithTicker(f TickerFunc) Option {
	return Option(func(m *Manager) {
		if f != nil {
			m.newTicker = f
		}
	})
}

// WithMetrics records session activity.
func WithMetrics(mt *metrics.Metrics) Option {
	return Option(func(m *Manager) {
		m.metrics = mt
	})
}
