package session

import (
	stderrors "errors"

	"github.com/cccteam/httpio"
	"github.com/go-playground/errors/v5"
)

var (
	// ErrClosed is returned by operations on a closed Manager.
	ErrClosed = stderrors.New("session manager is closed")

	// ErrNoSession is the cause of a RefreshError when there is nothing to refresh.
	ErrNoSession = stderrors.New("no active session")

	// ErrSessionEnded is the cause of a RefreshError when the session ended
	// while the refresh was in flight.
	ErrSessionEnded = stderrors.New("session ended during refresh")
)

// InvalidCredentialsError is returned by Login when the identity service
// rejects the credentials.
type InvalidCredentialsError struct {
	err error
}

func (e *InvalidCredentialsError) Error() string {
	return "invalid credentials"
}

// Unwrap returns an httpio unauthorized message wrapping the upstream rejection.
func (e *InvalidCredentialsError) Unwrap() error {
	return httpio.NewUnauthorizedMessageWithError(e.err, "Invalid Credentials")
}

// RefreshError is returned when the session could not be renewed. The session
// is always LoggedOut once a RefreshError has been returned.
type RefreshError struct {
	err error
}

func (e *RefreshError) Error() string {
	if e.err == nil {
		return "session refresh failed"
	}

	return "session refresh failed: " + e.err.Error()
}

// Unwrap returns an httpio unauthorized message wrapping the cause.
func (e *RefreshError) Unwrap() error {
	return httpio.NewUnauthorizedMessageWithError(e.err, "Session expired")
}

// IsInvalidCredentials reports if err is or wraps an InvalidCredentialsError.
func IsInvalidCredentials(err error) bool {
	var target *InvalidCredentialsError

	return errors.As(err, &target)
}

// IsRefreshFailure reports if err is or wraps a RefreshError.
func IsRefreshFailure(err error) bool {
	var target *RefreshError

	return errors.As(err, &target)
}
