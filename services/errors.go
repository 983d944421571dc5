package services

import (
	"errors"
	"net/http"
)

// ErrorKind classifies failures from the external Reddit and model APIs
type ErrorKind int

const (
	ErrNetwork ErrorKind = iota + 1
	ErrAuth
	ErrRateLimit
	ErrNotFound
)

// APIError is the failure type surfaced by the Reddit and model clients.
// Every error from an external call is wrapped into one of the four kinds
// so the presentation layer can show a specific message for each.
type APIError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError wraps err with a kind and a user-facing message
func NewAPIError(kind ErrorKind, message string, err error) *APIError {
	return &APIError{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err is an APIError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// StatusForError maps an error to the HTTP status the API responds with
func StatusForError(err error) int {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}
	switch apiErr.Kind {
	case ErrNetwork:
		return http.StatusBadGateway
	case ErrAuth:
		return http.StatusUnauthorized
	case ErrRateLimit:
		return http.StatusTooManyRequests
	case ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the message shown in the UI for err
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Something went wrong"
}

// kindFromStatus maps an upstream HTTP status to an error kind
func kindFromStatus(status int) (ErrorKind, bool) {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAuth, true
	case status == http.StatusTooManyRequests:
		return ErrRateLimit, true
	case status == http.StatusNotFound:
		return ErrNotFound, true
	case status >= 500:
		return ErrNetwork, true
	}
	return 0, false
}
