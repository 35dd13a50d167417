package officesession

import (
	"context"

	"github.com/cccteam/officesession/access"
	"github.com/cccteam/officesession/session"
)

var _ Authorizer = &AuthService{}

// Authorizer is the surface screens consume: the current session and the
// capabilities of its user.
type Authorizer interface {
	Session() session.Snapshot
	Login(ctx context.Context, identifier, secret string, remember bool) (session.Snapshot, error)
	Logout(ctx context.Context)
	HasAccess(m access.Module) bool
	CanRead(m access.Module) bool
	CanWrite(m access.Module) bool
	CanDelete(m access.Module) bool
	PermissionsLoading() bool
}
