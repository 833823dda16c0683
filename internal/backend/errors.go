package backend

import (
	"errors"
	"fmt"
)

var (
	ErrUnreachable       = errors.New("backend unreachable")
	ErrMalformedResponse = errors.New("backend returned a malformed response")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: status %d", e.Status)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
}

// ServerMessage is the message the backend meant for the end user.
func (e *APIError) ServerMessage() string { return e.Message }

func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
