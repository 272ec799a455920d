package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a request the server rejected. Detail carries the
// server-supplied reason and is safe to show to the user.
type StatusError struct {
	Code      int
	Detail    string
	RequestID string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.Code)
}

// TransportError is a request that never produced a response: network
// failure, timeout, or cancellation. Reads treat these as "keep showing
// stale data"; writes surface them at the point of action.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// IsAuth reports whether err is a credential rejection (expired or invalid
// token, bad login). The session is demoted when this comes back on a call
// made with a stored credential.
func IsAuth(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusUnauthorized
}

// IsForbidden reports whether the server refused the action for the
// authenticated identity. Expected even when the client-side ownership gate
// passed, since local ownership data can be stale.
func IsForbidden(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusForbidden
}

// IsTransport reports whether err never reached the server.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Reason extracts a user-displayable message from an API error.
func Reason(err error) string {
	var se *StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	if IsTransport(err) {
		return "cannot reach the server"
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func decodeStatusError(resp *http.Response, requestID string) error {
	var payload struct {
		Detail string `json:"detail"`
	}
	// A body that is not the expected shape still yields a usable error.
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return &StatusError{Code: resp.StatusCode, Detail: payload.Detail, RequestID: requestID}
}
