package restclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
)

// ResourceAccessError reports a transport-level I/O failure while creating
// or executing a request. URL is stripped of its query string so logged
// messages never leak query parameters.
type ResourceAccessError struct {
	// Method is the HTTP method of the failed request.
	Method string
	// URL is the target URL with the query string removed.
	URL string
	// Err is the underlying I/O error.
	Err error
}

// Error implements the error interface.
func (e *ResourceAccessError) Error() string {
	return fmt.Sprintf("restclient: I/O error on %s request for %q: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *ResourceAccessError) Unwrap() error { return e.Err }

func newResourceAccessError(method string, u *url.URL, err error) *ResourceAccessError {
	target := ""
	if u != nil {
		target = u.String()
		if idx := strings.IndexByte(target, '?'); idx != -1 {
			target = target[:idx]
		}
	}
	return &ResourceAccessError{Method: method, URL: target, Err: err}
}

// UnknownContentTypeError reports that no converter could decode the
// response body for the requested target type and content type.
type UnknownContentTypeError struct {
	// Type is the requested target type.
	Type reflect.Type
	// ContentType is the effective response content type.
	ContentType string
	// StatusCode is the response status code.
	StatusCode int
	// Status is the response status line.
	Status string
	// Header are the response headers.
	Header http.Header
	// Body is a best-effort snapshot of the raw response body.
	Body []byte
}

// Error implements the error interface.
func (e *UnknownContentTypeError) Error() string {
	return fmt.Sprintf("restclient: no converter for %s and content type %q (HTTP %d)",
		e.Type, e.ContentType, e.StatusCode)
}

// ExtractionError reports that a converter was selected but failed while
// decoding the response body, or that the body stream failed mid-read.
type ExtractionError struct {
	// Type is the requested target type.
	Type reflect.Type
	// ContentType is the effective response content type.
	ContentType string
	// Err is the underlying decode or I/O error.
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("restclient: error extracting response for type %s and content type %q: %v",
		e.Type, e.ContentType, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExtractionError) Unwrap() error { return e.Err }

// NoConverterError reports that no converter could encode the outgoing body.
type NoConverterError struct {
	// Type is the runtime type of the body value.
	Type reflect.Type
	// ContentType is the declared outgoing content type, if any.
	ContentType string
}

// Error implements the error interface.
func (e *NoConverterError) Error() string {
	msg := fmt.Sprintf("restclient: no converter for body type %s", e.Type)
	if e.ContentType != "" {
		msg += fmt.Sprintf(" and content type %q", e.ContentType)
	}
	return msg
}

// ResponseError is the domain error produced by the synthesized default
// status handler for 4xx and 5xx responses.
type ResponseError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the response status line.
	Status string
	// Header are the response headers.
	Header http.Header
	// Body is a snapshot of the response body.
	Body []byte
	// Method is the HTTP method of the originating request.
	Method string
	// URL is the target URL of the originating request.
	URL string
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	return fmt.Sprintf("restclient: HTTP %s on %s %q", e.Status, e.Method, e.URL)
}

// IsResourceAccess checks if an error is a transport-level I/O failure.
func IsResourceAccess(err error) bool {
	var e *ResourceAccessError
	return errors.As(err, &e)
}

// IsUnknownContentType checks if an error is an unknown-content-type failure.
func IsUnknownContentType(err error) bool {
	var e *UnknownContentTypeError
	return errors.As(err, &e)
}

// IsNoConverter checks if an error is a missing-write-converter failure.
func IsNoConverter(err error) bool {
	var e *NoConverterError
	return errors.As(err, &e)
}

// StatusCode extracts the status code from a ResponseError, if err is one.
func StatusCode(err error) (int, bool) {
	var e *ResponseError
	if errors.As(err, &e) {
		return e.StatusCode, true
	}
	return 0, false
}

// IsAuth checks if an error is a 401/403 response error.
func IsAuth(err error) bool {
	code, ok := StatusCode(err)
	return ok && (code == http.StatusUnauthorized || code == http.StatusForbidden)
}

// IsNotFound checks if an error is a 404 response error.
func IsNotFound(err error) bool {
	code, ok := StatusCode(err)
	return ok && code == http.StatusNotFound
}

// IsRateLimit checks if an error is a 429 response error.
func IsRateLimit(err error) bool {
	code, ok := StatusCode(err)
	return ok && code == http.StatusTooManyRequests
}

// IsClientError checks if an error is a 4xx response error.
func IsClientError(err error) bool {
	code, ok := StatusCode(err)
	return ok && code >= 400 && code < 500
}

// IsServerError checks if an error is a 5xx response error.
func IsServerError(err error) bool {
	code, ok := StatusCode(err)
	return ok && code >= 500
}
