package identity

import (
	"context"
	"net/http"
	"time"

	"github.com/cccteam/officesession/internal/apiclient"
	"github.com/go-playground/errors/v5"
	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"
)

const name = "github.com/cccteam/officesession/identity"

// HTTPClient calls the identity service over HTTP.
type HTTPClient struct {
	api *apiclient.Client
	now func() time.Time
}

// Option configures an HTTPClient.
type Option func(*options)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
}

// WithHTTPClient sets the http.Client used for every call. (default: a client bounded by the call timeout)
func WithHTTPClient(c *http.Client) Option {
	return Option(func(o *options) {
		o.httpClient = c
	})
}

// WithTimeout bounds each call to the identity service. (default: 10s)
func WithTimeout(d time.Duration) Option {
	return Option(func(o *options) {
		o.timeout = d
	})
}

// NewHTTPClient returns a client for the identity service at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	o := &options{timeout: apiclient.DefaultTimeout}
	for _, opt := range opts {
		opt(o)
	}

	api, err := apiclient.New(baseURL, o.httpClient, o.timeout)
	if err != nil {
		return nil, errors.Wrap(err, "apiclient.New()")
	}

	return &HTTPClient{api: api, now: time.Now}, nil
}

// Login calls POST /auth/login.
func (c *HTTPClient) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "HTTPClient.Login()")
	defer span.End()

	var res tokenResponse
	if err := c.api.Do(ctx, http.MethodPost, "/auth/login", nil, creds, &res); err != nil {
		return nil, errors.Wrap(err, "apiclient.Client.Do()")
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		return nil, errors.New("login response is missing a token")
	}

	return &LoginResult{
		AccessToken:  res.token(c.now()),
		RefreshToken: res.RefreshToken,
		User:         res.User,
	}, nil
}

// Refresh calls POST /auth/refresh.
func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "HTTPClient.Refresh()")
	defer span.End()

	req := struct {
		RefreshToken string `json:"refreshToken"`
	}{RefreshToken: refreshToken}

	var res tokenResponse
	if err := c.api.Do(ctx, http.MethodPost, "/auth/refresh", nil, req, &res); err != nil {
		return nil, errors.Wrap(err, "apiclient.Client.Do()")
	}
	if res.AccessToken == "" {
		return nil, errors.New("refresh response is missing the access token")
	}

	return &RefreshResult{
		AccessToken:  res.token(c.now()),
		RefreshToken: res.RefreshToken,
	}, nil
}

// WhoAmI calls GET /auth/me.
func (c *HTTPClient) WhoAmI(ctx context.Context, accessToken string) (*User, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "HTTPClient.WhoAmI()")
	defer span.End()

	user := &User{}
	if err := c.api.Do(ctx, http.MethodGet, "/auth/me", &oauth2.Token{AccessToken: accessToken}, nil, user); err != nil {
		return nil, errors.Wrap(err, "apiclient.Client.Do()")
	}

	return user, nil
}

// Logout calls POST /auth/logout.
func (c *HTTPClient) Logout(ctx context.Context, accessToken string) error {
	ctx, span := otel.Tracer(name).Start(ctx, "HTTPClient.Logout()")
	defer span.End()

	if err := c.api.Do(ctx, http.MethodPost, "/auth/logout", &oauth2.Token{AccessToken: accessToken}, nil, nil); err != nil {
		return errors.Wrap(err, "apiclient.Client.Do()")
	}

	return nil
}

// IsStatus reports if err was caused by a non-2xx answer with the given status code.
func IsStatus(err error, code int) bool {
	return apiclient.HasStatus(err, code)
}

// IsRejected reports if err was caused by any non-2xx answer.
func IsRejected(err error) bool {
	var se *StatusError

	return errors.As(err, &se)
}
