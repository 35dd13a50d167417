// Package apiclient sends JSON requests to the office API. Every exchange is
// bounded by a timeout so callers waiting on it are always released.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/errors/v5"
	"golang.org/x/oauth2"
)

// DefaultTimeout bounds a single exchange when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// maxErrorBody limits how much of an error response is read for its message.
const maxErrorBody = 4 << 10

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}

	return fmt.Sprintf("unexpected status %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// HasStatus reports if err carries a StatusError with the given code.
func HasStatus(err error, code int) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == code
	}

	return false
}

// Client issues requests relative to a base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
}

// New returns a Client for baseURL. A nil httpClient uses a client whose
// overall timeout matches the exchange timeout.
func New(baseURL string, httpClient *http.Client, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, errors.Wrap(err, "url.Parse()")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Newf("base URL %q must be absolute", baseURL)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: u, http: httpClient, timeout: timeout}, nil
}

// URL resolves path against the base URL.
func (c *Client) URL(path string) string {
	ref := &url.URL{Path: strings.TrimLeft(path, "/")}
	base := *c.baseURL
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	return base.ResolveReference(ref).String()
}

// NewRequest builds a request for path. A non-nil token is attached as the
// Authorization header.
func (c *Client) NewRequest(ctx context.Context, method, path string, body []byte, header http.Header, token *oauth2.Token) (*http.Request, error) {
	var r io.Reader = http.NoBody
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), r)
	if err != nil {
		return nil, errors.Wrap(err, "http.NewRequestWithContext()")
	}

	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if token != nil && token.AccessToken != "" {
		token.SetAuthHeader(req)
	}

	return req, nil
}

// Send sends req. The caller owns the response body. The exchange is bounded by
// the http.Client timeout.
func (c *Client) Send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "http.Client.Do()")
	}

	return resp, nil
}

// Do sends a JSON request and decodes a JSON response into out (when out is non-nil).
// Non-2xx responses are returned as *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, token *oauth2.Token, in, out any) error {
	ctx, cancel := context.WithTimeoutCause(ctx, c.timeout, errors.Newf("%s %s timeout", method, path))
	defer cancel()

	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "json.Marshal()")
		}
	}

	req, err := c.NewRequest(ctx, method, path, body, nil, token)
	if err != nil {
		return errors.Wrap(err, "Client.NewRequest()")
	}

	resp, err := c.Send(req)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
			return errors.Wrap(cause, "Client.Send()")
		}

		return errors.Wrap(err, "Client.Send()")
	}
	defer resp.Body.Close()

	return Decode(resp, out)
}

// Decode turns resp into out, or into a *StatusError for non-2xx statuses.
// It does not close the body.
func Decode(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ReadStatusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "json.Decoder.Decode()")
	}

	return nil
}

// ReadStatusError builds a *StatusError from resp, using the "message" field of
// a JSON error body when one is present.
func ReadStatusError(resp *http.Response) *StatusError {
	se := &StatusError{StatusCode: resp.StatusCode}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(b) == 0 {
		return se
	}

	var msg struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &msg) == nil && msg.Message != "" {
		se.Message = msg.Message
	} else {
		se.Message = strings.TrimSpace(string(b))
	}

	return se
}

// Drain discards the remainder of a response body and closes it so the
// connection can be reused.
func Drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}
