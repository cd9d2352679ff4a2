package tinify

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection is returned when the service cannot be reached
	ErrConnection = errors.New("connection error")

	// ErrUnauthorized is returned when the API key is rejected
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAccountLimit is returned when the monthly compression limit is reached
	ErrAccountLimit = errors.New("account limit reached")

	// ErrClient is returned for any other 4xx response, e.g. an unsupported image
	ErrClient = errors.New("client error")

	// ErrServer is returned for 5xx responses
	ErrServer = errors.New("server error")

	// ErrInvalidResponse is returned when a successful response cannot be used
	ErrInvalidResponse = errors.New("invalid response")
)

// APIError is an error response from the compression service.
type APIError struct {
	Status  int
	Kind    string // the "error" field of the response, e.g. "Unauthorized"
	Message string
}

func (e *APIError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
}

// Unwrap maps the status code onto one of the sentinel errors.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == 401:
		return ErrUnauthorized
	case e.Status == 429:
		return ErrAccountLimit
	case e.Status >= 400 && e.Status < 500:
		return ErrClient
	default:
		return ErrServer
	}
}
