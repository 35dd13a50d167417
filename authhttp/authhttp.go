// Package authhttp sends requests on behalf of the signed in user.
package authhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cccteam/officesession/internal/apiclient"
	"github.com/cccteam/officesession/metrics"
	"github.com/go-playground/errors/v5"
	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"
)

const name = "github.com/cccteam/officesession/authhttp"

// Request describes an outbound call. Body is sent as JSON unless it is a []byte.
type Request struct {
	Method string
	Path   string
	Body   any
	Header http.Header
}

// Executor attaches the current access token to requests. A request rejected
// with 401 is resent once after a coordinated token refresh. When the resent
// request is rejected too the session is logged out.
type Executor struct {
	api      *apiclient.Client
	sessions SessionManager
	metrics  *metrics.Metrics
}

// Option configures an Executor.
type Option func(*options)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	metrics    *metrics.Metrics
}

// WithHTTPClient sets the http.Client used for every request. (default: a client bounded by the timeout)
func WithHTTPClient(c *http.Client) Option {
	return Option(func(o *options) {
		o.httpClient = c
	})
}

// WithTimeout bounds each request. (default: 10s)
func WithTimeout(d time.Duration) Option {
	return Option(func(o *options) {
		o.timeout = d
	})
}

// WithMetrics records retries and forced logouts.
func WithMetrics(m *metrics.Metrics) Option {
	return Option(func(o *options) {
		o.metrics = m
	})
}

// New returns an Executor for the API at baseURL.
func New(baseURL string, sessions SessionManager, opts ...Option) (*Executor, error) {
	if sessions == nil {
		return nil, errors.New("session manager is required")
	}

	o := &options{timeout: apiclient.DefaultTimeout}
	for _, opt := range opts {
		opt(o)
	}

	api, err := apiclient.New(baseURL, o.httpClient, o.timeout)
	if err != nil {
		return nil, errors.Wrap(err, "apiclient.New()")
	}

	return &Executor{api: api, sessions: sessions, metrics: o.metrics}, nil
}

// Execute sends req. Any response other than a final 401 is returned and the
// caller owns its body.
func (e *Executor) Execute(ctx context.Context, req *Request) (*http.Response, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "Executor.Execute()")
	defer span.End()

	body, err := encode(req.Body)
	if err != nil {
		return nil, errors.Wrap(err, "encode()")
	}

	resp, err := e.send(ctx, req, body, e.sessions.AccessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	apiclient.Drain(resp)

	tok, err := e.sessions.EnsureFreshToken(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "SessionManager.EnsureFreshToken()")
	}

	e.metrics.Retry()
	resp, err = e.send(ctx, req, body, tok)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	cause := apiclient.ReadStatusError(resp)
	_ = resp.Body.Close()

	e.sessions.Logout(ctx)
	e.metrics.ForcedLogout()

	return nil, &UnauthorizedError{Method: req.Method, Path: req.Path, cause: cause}
}

// ExecuteJSON sends req and decodes a 2xx JSON response into out. Other
// statuses are returned as *StatusError.
func (e *Executor) ExecuteJSON(ctx context.Context, req *Request, out any) error {
	resp, err := e.Execute(ctx, req)
	if err != nil {
		return errors.Wrap(err, "Executor.Execute()")
	}
	defer resp.Body.Close()

	if err := apiclient.Decode(resp, out); err != nil {
		return errors.Wrap(err, "apiclient.Decode()")
	}

	return nil
}

func (e *Executor) send(ctx context.Context, req *Request, body []byte, tok *oauth2.Token) (*http.Response, error) {
	r, err := e.api.NewRequest(ctx, req.Method, req.Path, body, req.Header, tok)
	if err != nil {
		return nil, errors.Wrap(err, "apiclient.Client.NewRequest()")
	}

	resp, err := e.api.Send(r)
	if err != nil {
		return nil, errors.Wrap(err, "apiclient.Client.Send()")
	}

	return resp, nil
}

func encode(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, errors.Wrap(err, "json.Marshal()")
		}

		return data, nil
	}
}
