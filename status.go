package restclient

import (
	"io"
)

// StatusHandler decides whether a response status represents an
// application-level error and, if so, translates it into one.
type StatusHandler interface {
	// Test reports whether this handler applies to the response.
	Test(resp ClientResponse) bool
	// Handle translates the response into a domain error. Returning nil
	// means the handler claimed the response and deemed it acceptable.
	Handle(req ClientRequest, resp ClientResponse) error
}

// ErrorHandler translates a matched response into a domain error.
type ErrorHandler func(req ClientRequest, resp ClientResponse) error

// NewStatusHandler pairs a status-code predicate with an error handler.
func NewStatusHandler(predicate func(statusCode int) bool, handler ErrorHandler) StatusHandler {
	return &statusHandler{
		test:   func(resp ClientResponse) bool { return predicate(resp.StatusCode()) },
		handle: handler,
	}
}

type statusHandler struct {
	test   func(resp ClientResponse) bool
	handle ErrorHandler
}

func (h *statusHandler) Test(resp ClientResponse) bool { return h.test(resp) }

func (h *statusHandler) Handle(req ClientRequest, resp ClientResponse) error {
	return h.handle(req, resp)
}

// StatusIs returns a predicate matching any of the given status codes.
func StatusIs(codes ...int) func(int) bool {
	return func(statusCode int) bool {
		for _, code := range codes {
			if statusCode == code {
				return true
			}
		}
		return false
	}
}

// StatusIsClientError matches 4xx status codes.
func StatusIsClientError(statusCode int) bool {
	return statusCode >= 400 && statusCode < 500
}

// StatusIsServerError matches 5xx status codes.
func StatusIsServerError(statusCode int) bool {
	return statusCode >= 500 && statusCode < 600
}

// StatusIsError matches 4xx and 5xx status codes.
func StatusIsError(statusCode int) bool {
	return StatusIsClientError(statusCode) || StatusIsServerError(statusCode)
}

// defaultStatusHandler is the synthesized terminal handler: it matches 4xx
// and 5xx and returns a *ResponseError carrying status, headers, and a body
// snapshot. It sits last in every handler chain.
func defaultStatusHandler() StatusHandler {
	return &statusHandler{
		test: func(resp ClientResponse) bool { return StatusIsError(resp.StatusCode()) },
		handle: func(req ClientRequest, resp ClientResponse) error {
			body, _ := io.ReadAll(resp.Body())
			respErr := &ResponseError{
				StatusCode: resp.StatusCode(),
				Status:     resp.Status(),
				Header:     resp.Header(),
				Body:       body,
			}
			if req != nil {
				respErr.Method = req.Method()
				respErr.URL = req.URL().String()
			}
			return respErr
		},
	}
}
