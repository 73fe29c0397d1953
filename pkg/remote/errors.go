package remote

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote: api error %d: %s", e.Status, e.Message)
}

// IsPremiumRequired reports whether err is the 403 the service returns when
// the account lacks the subscription tier a player command needs. Expected
// in normal use; callers log it as information, not as a failure.
func IsPremiumRequired(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == 403
}

// IsNoActiveDevice reports whether err is the 404 a player command gets when
// no device is active. Also expected in normal use.
func IsNoActiveDevice(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == 404
}

// ErrMalformedURI is returned by ParseID for input that is not a well-formed
// resource URI. Constructing a request from such input is a caller bug, so
// commands fail fast on it instead of hitting the network.
var ErrMalformedURI = errors.New("remote: malformed resource uri")
