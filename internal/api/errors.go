package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Outcome classification for API calls. A 401 that is silently
// recovered by a token refresh never surfaces here.
var (
	ErrNotAuthenticated  = errors.New("not logged in")                        // no session loaded
	ErrAuthInvalid       = errors.New("session expired, please log in again") // refresh failed, session destroyed
	ErrValidation        = errors.New("validation failed")                    // 400/422 with field messages
	ErrNotFound          = errors.New("resource not found")                   // 404
	ErrConflict          = errors.New("conflicting state")                    // 409
	ErrInvalidTransition = errors.New("order status transition not allowed")  // rejected before any network call
)

// APIError carries the server's error payload for a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// Unwrap maps the HTTP status onto the error taxonomy so callers can
// branch with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if len(e.Fields) > 0 {
			return ErrValidation
		}
	}
	return nil
}

// NetworkError wraps transport-level failures, including the global
// request timeout.
type NetworkError struct {
	Err     error
	Timeout bool
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request timed out: %v", e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func wrapNetworkError(err error) error {
	var netErr net.Error
	timeout := errors.As(err, &netErr) && netErr.Timeout()
	return &NetworkError{Err: err, Timeout: timeout}
}

// errorPayload covers the error body shapes the backend produces:
// {"message": "..."} or {"detail": "..."}, optionally with a field ->
// messages map under "errors".
type errorPayload struct {
	Message string              `json:"message"`
	Detail  string              `json:"detail"`
	Errors  map[string][]string `json:"errors"`
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Detail
		}
		apiErr.Fields = payload.Errors
	}
	return apiErr
}
