package rest

import (
	"errors"
	"fmt"
)

// ErrorKind classifies gateway failures so callers can pick a surface:
// inline panels for missing resources, snackbars for everything else.
type ErrorKind string

const (
	KindNotFound   ErrorKind = "not_found"
	KindForbidden  ErrorKind = "forbidden"
	KindValidation ErrorKind = "validation"
	KindTransport  ErrorKind = "transport"
)

// APIError is the normalized error for every gateway operation. The server
// body is carried along verbatim so operators can see what the service said.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Body    string
	URL     string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: %s (%s): %s", e.Kind, e.Message, e.URL, e.Body)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.URL)
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == 404:
		return KindNotFound
	case status == 401 || status == 403:
		return KindForbidden
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindTransport
	}
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == KindNotFound
}

// IsForbidden reports whether err is a 401/403 from the service.
func IsForbidden(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == KindForbidden
}
