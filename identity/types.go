// Package identity implements a client for the external identity service that
// issues and renews the office application's tokens.
package identity

import (
	"strings"
	"time"

	"github.com/cccteam/officesession/access"
	"github.com/cccteam/officesession/internal/apiclient"
	"golang.org/x/oauth2"
)

// StatusError is returned when the identity service answers with a non-2xx status.
type StatusError = apiclient.StatusError

// Credentials identify a user at login.
type Credentials struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
	RememberMe bool   `json:"rememberMe"`
}

// User is an immutable profile snapshot returned by the identity service.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
	Role       string `json:"role,omitempty"`
}

// AccessRole returns the user's role. The bool is false when the role is
// missing or not part of the role enumeration.
func (u *User) AccessRole() (access.Role, bool) {
	if u == nil {
		return "", false
	}

	return access.ParseRole(u.Role)
}

// DisplayName returns the user's full name, falling back to the email address.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.GivenName + " " + u.FamilyName); name != "" {
		return name
	}

	return u.Email
}

// LoginResult is the response of a successful login.
type LoginResult struct {
	AccessToken  *oauth2.Token
	RefreshToken string
	User         *User
}

// RefreshResult is the response of a successful refresh. RefreshToken is set
// only when the identity service rotated the refresh token.
type RefreshResult struct {
	AccessToken  *oauth2.Token
	RefreshToken string
}

// tokenResponse is the wire shape shared by the login and refresh endpoints.
type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
	User         *User  `json:"user,omitempty"`
}

func (t *tokenResponse) token(now time.Time) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
	}
	if t.ExpiresIn > 0 {
		tok.Expiry = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}

	return tok
}
