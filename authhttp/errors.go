package authhttp

import (
	"github.com/cccteam/httpio"
	"github.com/cccteam/officesession/internal/apiclient"
	"github.com/go-playground/errors/v5"
)

// StatusError is returned by ExecuteJSON for non-2xx responses.
type StatusError = apiclient.StatusError

// UnauthorizedError is returned when a request was still unauthorized after a
// token refresh. The session has been logged out when it is returned.
type UnauthorizedError struct {
	Method string
	Path   string
	cause  *apiclient.StatusError
}

func (e *UnauthorizedError) Error() string {
	return "unauthorized after token refresh: " + e.Method + " " + e.Path
}

// Unwrap returns an httpio unauthorized message wrapping the final response.
func (e *UnauthorizedError) Unwrap() error {
	return httpio.NewUnauthorizedMessageWithError(e.cause, "Session expired")
}

// IsUnauthorized reports if err is or wraps an UnauthorizedError.
func IsUnauthorized(err error) bool {
	var target *UnauthorizedError

	return errors.As(err, &target)
}
