package api

import "fmt"

// ErrUnauthorized is returned for any HTTP 401. Callers treat it as the
// universal "re-authenticate" signal and switch to the login view
// instead of surfacing it as a request failure.
var ErrUnauthorized = fmt.Errorf("unauthorized")

var ErrNotFound = fmt.Errorf("not found")

// APIError carries a non-2xx backend response. Message is the
// server-provided error text when present, so it can be shown to the
// operator verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api status %d", e.Status)
}
