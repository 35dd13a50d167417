// Package session implements the authentication state machine: login, silent
// renewal, coordinated on-demand refresh and logout.
package session

import (
	"github.com/cccteam/officesession/access"
	"github.com/cccteam/officesession/identity"
	"github.com/gofrs/uuid"
	"golang.org/x/oauth2"
)

// Status is the state of the session machine.
type Status int

const (
	LoggedOut Status = iota
	Restoring
	Authenticating
	Authenticated
	Refreshing
)

func (s Status) String() string {
	switch s {
	case LoggedOut:
		return "LoggedOut"
	case Restoring:
		return "Restoring"
	case Authenticating:
		return "Authenticating"
	case Authenticated:
		return "Authenticated"
	case Refreshing:
		return "Refreshing"
	default:
		return "Unknown"
	}
}

// Snapshot is an immutable view of the session. A new Snapshot is published on
// every transition, so a value read once never changes.
type Snapshot struct {
	// ID identifies the session from login or restore until it ends. It is the
	// nil UUID while logged out.
	ID          uuid.UUID
	User        *identity.User
	AccessToken *oauth2.Token
	Status      Status
	IsLoading   bool
	Remembered  bool
}

// Authenticated reports if the snapshot carries a usable session. A session
// being refreshed is still usable.
func (s Snapshot) Authenticated() bool {
	return (s.Status == Authenticated || s.Status == Refreshing) && s.User != nil
}

// Role returns the role of the signed in user.
func (s Snapshot) Role() (access.Role, bool) {
	return s.User.AccessRole()
}

var loggedOut = &Snapshot{Status: LoggedOut}
