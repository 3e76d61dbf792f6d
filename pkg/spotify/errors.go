package spotify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	libspotify "github.com/zmb3/spotify"
)

// ErrCredentialUnavailable is returned when no service credential can be
// obtained: the client id/secret are missing, the identity endpoint refused
// the exchange, or its response carried no token.
var ErrCredentialUnavailable = errors.New("spotify: credential unavailable")

// StatusError is a non-2xx response from the catalog.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("spotify: status %d", e.Code)
	}
	return fmt.Sprintf("spotify: status %d: %s", e.Code, e.Message)
}

// IsUnauthorized reports whether err is a catalog rejection of the bearer
// credential.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// StatusCode extracts the HTTP status from a catalog error, or 0 when err is
// a transport failure or nil.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// statusError builds a StatusError from resp, reading the catalog's
// {"error":{"status":..,"message":..}} body when present.
func statusError(resp *http.Response) error {
	se := &StatusError{Code: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(body) == 0 {
		return se
	}
	var wrapped struct {
		Error libspotify.Error `json:"error"`
	}
	if json.Unmarshal(body, &wrapped) == nil && wrapped.Error.Message != "" {
		se.Message = wrapped.Error.Message
	}
	return se
}
