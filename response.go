package restclient

import (
	"fmt"
	"io"
	"net/http"
	"reflect"
)

// Entity carries response metadata alongside an extracted body.
type Entity struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the response status line.
	Status string
	// Header are the response headers.
	Header http.Header
}

// ResponseBuilder wraps a materialized response handle and exposes typed
// extraction. Every extraction operation applies the status-handler chain
// first and closes the response handle on all exit paths; a ResponseBuilder
// therefore supports exactly one extraction call.
type ResponseBuilder struct {
	client              *Client
	request             ClientRequest
	response            ClientResponse
	handlers            []StatusHandler
	defaultHandlerCount int
}

func newResponseBuilder(client *Client, request ClientRequest, response ClientResponse) *ResponseBuilder {
	handlers := make([]StatusHandler, 0, len(client.defaultStatusHandlers)+1)
	handlers = append(handlers, client.defaultStatusHandlers...)
	handlers = append(handlers, defaultStatusHandler())
	return &ResponseBuilder{
		client:              client,
		request:             request,
		response:            response,
		handlers:            handlers,
		defaultHandlerCount: len(handlers),
	}
}

// OnStatus registers a status handler from a status-code predicate and an
// error handler. Caller-registered handlers are always evaluated before the
// default handler block, regardless of registration order.
func (rs *ResponseBuilder) OnStatus(predicate func(statusCode int) bool, handler ErrorHandler) *ResponseBuilder {
	return rs.OnStatusHandler(NewStatusHandler(predicate, handler))
}

// OnStatusHandler registers a pre-built status handler ahead of the default
// handler block.
func (rs *ResponseBuilder) OnStatusHandler(handler StatusHandler) *ResponseBuilder {
	// Defaults stay last: insert at len minus the default block size.
	idx := len(rs.handlers) - rs.defaultHandlerCount
	rs.handlers = append(rs.handlers, nil)
	copy(rs.handlers[idx+1:], rs.handlers[idx:])
	rs.handlers[idx] = handler
	return rs
}

// Body applies status handling, decodes the response body into v (a non-nil
// pointer), and closes the response handle.
func (rs *ResponseBuilder) Body(v any) error {
	return rs.readWithConverters(v)
}

// ToEntity is Body plus captured status code and headers.
func (rs *ResponseBuilder) ToEntity(v any) (*Entity, error) {
	if err := rs.readWithConverters(v); err != nil {
		return nil, err
	}
	return rs.entity(), nil
}

// ToBodilessEntity applies status handling, discards any body content, and
// returns status and headers only. The response handle is closed on all
// exit paths.
func (rs *ResponseBuilder) ToBodilessEntity() (*Entity, error) {
	defer func() { _ = rs.response.Close() }()
	if err := rs.applyStatusHandlers(); err != nil {
		return nil, err
	}
	_, _ = io.Copy(io.Discard, rs.response.Body())
	return rs.entity(), nil
}

func (rs *ResponseBuilder) entity() *Entity {
	return &Entity{
		StatusCode: rs.response.StatusCode(),
		Status:     rs.response.Status(),
		Header:     rs.response.Header(),
	}
}

// readWithConverters applies status handling, selects the first converter
// in registry order that can read the target type for the effective content
// type, and decodes into v. The response handle is closed on all exit
// paths.
func (rs *ResponseBuilder) readWithConverters(v any) error {
	contentType := rs.contentType()
	defer func() { _ = rs.response.Close() }()

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("restclient: extraction target must be a non-nil pointer, got %T", v)
	}
	targetType := rv.Type().Elem()

	if err := rs.applyStatusHandlers(); err != nil {
		return err
	}

	for _, converter := range rs.client.converters {
		if converter.CanRead(targetType, contentType) {
			rs.client.logger.Debug().
				Str("target_type", targetType.String()).
				Str("content_type", contentType).
				Str("converter", reflect.TypeOf(converter).String()).
				Msg("reading response body")
			if err := converter.Read(v, rs.response.Body()); err != nil {
				return &ExtractionError{Type: targetType, ContentType: contentType, Err: err}
			}
			return nil
		}
	}

	snapshot, _ := io.ReadAll(rs.response.Body())
	return &UnknownContentTypeError{
		Type:        targetType,
		ContentType: contentType,
		StatusCode:  rs.response.StatusCode(),
		Status:      rs.response.Status(),
		Header:      rs.response.Header(),
		Body:        snapshot,
	}
}

// contentType returns the declared response content type, or the generic
// binary fallback when absent.
func (rs *ResponseBuilder) contentType() string {
	if ct := rs.response.Header().Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// applyStatusHandlers runs the handler chain in order; the first handler
// whose predicate matches is invoked and handling stops.
func (rs *ResponseBuilder) applyStatusHandlers() error {
	for _, handler := range rs.handlers {
		if handler.Test(rs.response) {
			return handler.Handle(rs.request, rs.response)
		}
	}
	return nil
}

// BodyAs decodes the response body into a fresh T.
func BodyAs[T any](rs *ResponseBuilder) (T, error) {
	var v T
	err := rs.Body(&v)
	return v, err
}

// EntityAs decodes the response body into a fresh T and captures response
// metadata.
func EntityAs[T any](rs *ResponseBuilder) (T, *Entity, error) {
	var v T
	entity, err := rs.ToEntity(&v)
	return v, entity, err
}
