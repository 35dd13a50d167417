package authhttp

import (
	"context"

	"github.com/cccteam/officesession/session"
	"golang.org/x/oauth2"
)

var _ SessionManager = &session.Manager{}

// SessionManager is the part of the session the Executor depends on.
type SessionManager interface {
	AccessToken() *oauth2.Token
	EnsureFreshToken(ctx context.Context) (*oauth2.Token, error)
	Logout(ctx context.Context)
}
