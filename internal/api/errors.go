package api

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthExpired means the access token was rejected and the silent
	// refresh failed too. Cached credentials are cleared before it is
	// returned; the user must authenticate again.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrNotFound is the typed form of a 404. Lookup adapters convert it to
	// a nil/false result; operations that required the resource propagate it.
	ErrNotFound = errors.New("resource not found")
)

// APIError is a structured failure returned by the backend: validation,
// conflict or business-rule rejection. Code is machine readable so the UI can
// map known codes to localized text and fall back to Message otherwise.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// TransportError is a network or timeout failure with no structured body.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AsAPIError unwraps err to the backend failure it carries, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsTransport reports whether err originated below the application layer.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
