package app

import (
	"errors"
	"fmt"
)

// AuthError means the backend (or the token exchange) rejected the caller's
// credential. The user should sign in again.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "authentication rejected"
	}
	return "authentication rejected: " + e.Reason
}

// TransportError means the request never produced a response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError means the backend was reached but answered with a failure
// status. Detail carries the server-provided explanation when there is one.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("service error: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("service error: status %d", e.Status)
}

// UserMessage converts a remote-call failure into the sentence shown inside
// the conversation or a view-level error line.
func UserMessage(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return "Your session has expired. Please sign out and sign in again."
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return "Could not reach the OmniLeap service. Check your connection and try again."
	}
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		if serviceErr.Detail != "" {
			return serviceErr.Detail
		}
		return "Sorry, the service ran into a problem. Please try again."
	}
	if err != nil {
		return err.Error()
	}
	return "Sorry, an error occurred."
}
