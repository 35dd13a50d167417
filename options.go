package officesession

import (
	"net/http"
	"time"

	"github.com/cccteam/officesession/authhttp"
	"github.com/cccteam/officesession/metrics"
	"github.com/cccteam/officesession/permissions"
	"github.com/cccteam/officesession/session"
)

// Option configures an AuthService.
type Option interface {
	isOption()
}

// SessionOption defines a function signature for setting session manager options.
type SessionOption session.Option

func (SessionOption) isOption() {}

// WithRenewInterval sets how often the access token is renewed. (default: 14m)
func WithRenewInterval(d time.Duration) SessionOption {
	return SessionOption(session.WithRenewInterval(d))
}

// WithRefreshTimeout bounds a single refresh round trip. (default: 15s)
func WithRefreshTimeout(d time.Duration) SessionOption {
	return SessionOption(session.WithRefreshTimeout(d))
}

// WithTicker replaces the renewal ticker.
func WithTicker(f session.TickerFunc) SessionOption {
	return SessionOption(session.WithTicker(f))
}

// ExecutorOption defines a function signature for setting request executor options.
type ExecutorOption authhttp.Option

func (ExecutorOption) isOption() {}

// WithHTTPClient sets the client used for API requests. (default: http.DefaultClient)
func WithHTTPClient(c *http.Client) ExecutorOption {
	return ExecutorOption(authhttp.WithHTTPClient(c))
}

// WithRequestTimeout bounds a single API attempt. (default: 10s)
func WithRequestTimeout(d time.Duration) ExecutorOption {
	return ExecutorOption(authhttp.WithTimeout(d))
}

// PermissionOption defines a function signature for setting permission resolver options.
type PermissionOption permissions.Option

func (PermissionOption) isOption() {}

// WithPermissionSource sets the source permissions are fetched from.
func WithPermissionSource(s permissions.Source) PermissionOption {
	return PermissionOption(permissions.WithSource(s))
}

// WithPermissionFallback sets the policy applied when the permissions source
// fails. (default: permissions.FallbackMinimal)
func WithPermissionFallback(f permissions.Fallback) PermissionOption {
	return PermissionOption(permissions.WithFallback(f))
}

// ServiceOption defines a function signature for options that span components.
type ServiceOption func(*serviceOptions)

func (ServiceOption) isOption() {}

type serviceOptions struct {
	metrics           *metrics.Metrics
	remotePermissions bool
}

// WithMetrics records logins, refreshes, retries and resolutions.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return ServiceOption(func(o *serviceOptions) {
		o.metrics = m
	})
}

// WithRemotePermissions fetches permissions from the API through the
// authenticated executor. WithPermissionSource takes precedence.
func WithRemotePermissions() ServiceOption {
	return ServiceOption(func(o *serviceOptions) {
		o.remotePermissions = true
	})
}
