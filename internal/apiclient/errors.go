package apiclient

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
)

// errorKeys are the body fields the API uses for human-readable failures, in priority order
var errorKeys = []string{"detail", "message", "error"}

// APIError is a non-2xx answer from the recruitment API
type APIError struct {
	// Op is the user-facing operation label, e.g. "Login failed"
	Op     string
	Status int
	// Detail is the server-supplied message, empty when the body carried none
	Detail string
}

// Error returns the server message, or "<op> (<status>)" when there is none
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s (%d)", e.Op, e.Status)
}

// Unwrap maps the status onto the application sentinels
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return apperrors.ErrResourceNotFound
	}
	return apperrors.ErrAPIRejected
}

// errorMessage returns the first non-empty string among detail, message and error.
// Non-string values (FastAPI validation arrays, objects) are ignored.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	result := gjson.ParseBytes(body)
	for _, key := range errorKeys {
		value := result.Get(key)
		if value.Type == gjson.String && value.String() != "" {
			return value.String()
		}
	}
	return ""
}

func newAPIError(op string, status int, body []byte) *APIError {
	return &APIError{
		Op:     op,
		Status: status,
		Detail: errorMessage(body),
	}
}
