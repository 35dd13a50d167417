package permissions

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/cccteam/logger"
	"github.com/cccteam/officesession/access"
	"github.com/cccteam/officesession/authhttp"
	"github.com/go-playground/errors/v5"
	"go.opentelemetry.io/otel"
)

// Entry is one module's permissions as returned by the permissions endpoint.
type Entry struct {
	Module string `json:"module"`
	Read   bool   `json:"read"`
	Write  bool   `json:"write"`
	Delete bool   `json:"delete"`
	Status string `json:"status"`
}

// Response is the body of GET /permissions/{role}.
type Response struct {
	Role        string  `json:"role"`
	Permissions []Entry `json:"permissions"`
}

// Matrix normalizes r. Only active entries count, duplicate entries for a
// module are merged, and unknown modules are skipped.
func (r *Response) Matrix(ctx context.Context) access.Matrix {
	m := make(access.Matrix)
	if r == nil {
		return m
	}

	for _, e := range r.Permissions {
		if !strings.EqualFold(strings.TrimSpace(e.Status), "active") {
			continue
		}

		mod, ok := access.ParseModule(e.Module)
		if !ok {
			logger.FromCtx(ctx).Infof("ignoring permissions for unknown module %q", e.Module)

			continue
		}

		m[mod] = m[mod].Or(access.Capability{Read: e.Read, Write: e.Write, Delete: e.Delete})
	}

	return m
}

// HTTPSource reads permissions from the API through an authenticated executor.
type HTTPSource struct {
	executor JSONExecutor
}

// NewHTTPSource returns a Source calling GET /permissions/{role}.
func NewHTTPSource(executor JSONExecutor) *HTTPSource {
	return &HTTPSource{executor: executor}
}

func (s *HTTPSource) Fetch(ctx context.Context, role access.Role) (*Response, error) {
	ctx, span := otel.Tracer(name).Start(ctx, "HTTPSource.Fetch()")
	defer span.End()

	res := &Response{}
	req := &authhttp.Request{Method: http.MethodGet, Path: "/permissions/" + url.PathEscape(string(role))}
	if err := s.executor.ExecuteJSON(ctx, req, res); err != nil {
		return nil, errors.Wrap(err, "JSONExecutor.ExecuteJSON()")
	}

	if res.Role != "" && !strings.EqualFold(res.Role, string(role)) {
		return nil, errors.Newf("permissions returned for role %q, requested %q", res.Role, role)
	}

	return res, nil
}
