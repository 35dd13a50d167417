package identity

import (
	"context"
)

var _ Client = &HTTPClient{}

// Client is the contract of the external identity service.
type Client interface {
	// Login exchanges credentials for a token pair and the user profile.
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)
	// Refresh exchanges a refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
	// WhoAmI returns the profile of the user owning accessToken.
	WhoAmI(ctx context.Context, accessToken string) (*User, error)
	// Logout notifies the identity service that accessToken is no longer in use.
	Logout(ctx context.Context, accessToken string) error
}
