package permissions

import (
	"context"

	"github.com/cccteam/officesession/access"
	"github.com/cccteam/officesession/authhttp"
)

var (
	_ Source       = &HTTPSource{}
	_ JSONExecutor = &authhttp.Executor{}
)

// Source returns the permissions configured for a role.
type Source interface {
	Fetch(ctx context.Context, role access.Role) (*Response, error)
}

// JSONExecutor sends authenticated requests and decodes JSON responses.
type JSONExecutor interface {
	ExecuteJSON(ctx context.Context, req *authhttp.Request, out any) error
}
