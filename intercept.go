package restclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Execution continues an interceptor chain with the (possibly modified)
// request and buffered body. The terminal execution sends the request over
// the underlying factory.
type Execution func(req ClientRequest, body []byte) (ClientResponse, error)

// Interceptor observes or modifies an outbound request before it is sent.
// It may short-circuit the exchange by returning a response without calling
// next.
type Interceptor interface {
	Intercept(req ClientRequest, body []byte, next Execution) (ClientResponse, error)
}

// InterceptorFunc adapts a function to the Interceptor interface.
type InterceptorFunc func(req ClientRequest, body []byte, next Execution) (ClientResponse, error)

// Intercept implements Interceptor.
func (f InterceptorFunc) Intercept(req ClientRequest, body []byte, next Execution) (ClientResponse, error) {
	return f(req, body, next)
}

// Initializer is invoked once per created request, immediately after the
// factory creates it and before any per-request mutators run.
type Initializer interface {
	Initialize(req ClientRequest)
}

// InitializerFunc adapts a function to the Initializer interface.
type InitializerFunc func(req ClientRequest)

// Initialize implements Initializer.
func (f InitializerFunc) Initialize(req ClientRequest) { f(req) }

// RequestIDHeader is the header seeded by RequestIDInitializer.
const RequestIDHeader = "X-Request-ID"

// RequestIDInitializer returns an initializer that assigns a UUID request ID
// to every request that does not already carry one.
func RequestIDInitializer() Initializer {
	return InitializerFunc(func(req ClientRequest) {
		if req.Header().Get(RequestIDHeader) == "" {
			req.Header().Set(RequestIDHeader, uuid.NewString())
		}
	})
}

// LoggingInterceptor returns an interceptor that logs each exchange at debug
// level: method, URL, duration, and status or error.
func LoggingInterceptor(log zerolog.Logger) Interceptor {
	return InterceptorFunc(func(req ClientRequest, body []byte, next Execution) (ClientResponse, error) {
		start := time.Now()
		resp, err := next(req, body)
		evt := log.Debug().
			Str("method", req.Method()).
			Str("url", req.URL().String()).
			Dur("duration", time.Since(start))
		if err != nil {
			evt.Err(err).Msg("request failed")
			return nil, err
		}
		evt.Int("status", resp.StatusCode()).Msg("request completed")
		return resp, nil
	})
}

// interceptingFactory decorates a base factory with an ordered interceptor
// chain. Requests it creates buffer their body; on Execute the chain runs
// and the terminal execution replays headers and body onto a real request
// from the base factory.
type interceptingFactory struct {
	base         RequestFactory
	interceptors []Interceptor
}

func newInterceptingFactory(base RequestFactory, interceptors []Interceptor) *interceptingFactory {
	return &interceptingFactory{base: base, interceptors: interceptors}
}

func (f *interceptingFactory) CreateRequest(ctx context.Context, u *url.URL, method string) (ClientRequest, error) {
	return &interceptingRequest{
		factory: f,
		ctx:     ctx,
		method:  method,
		url:     u,
		header:  make(http.Header),
	}, nil
}

type interceptingRequest struct {
	factory *interceptingFactory
	ctx     context.Context
	method  string
	url     *url.URL
	header  http.Header
	buf     bytes.Buffer
}

func (r *interceptingRequest) Method() string      { return r.method }
func (r *interceptingRequest) URL() *url.URL       { return r.url }
func (r *interceptingRequest) Header() http.Header { return r.header }
func (r *interceptingRequest) Body() io.Writer     { return &r.buf }

func (r *interceptingRequest) Execute() (ClientResponse, error) {
	exec := r.terminal
	for i := len(r.factory.interceptors) - 1; i >= 0; i-- {
		interceptor := r.factory.interceptors[i]
		next := exec
		exec = func(req ClientRequest, body []byte) (ClientResponse, error) {
			return interceptor.Intercept(req, body, next)
		}
	}
	return exec(r, r.buf.Bytes())
}

// terminal materializes the intercepted request on the base factory and
// executes it.
func (r *interceptingRequest) terminal(req ClientRequest, body []byte) (ClientResponse, error) {
	real, err := r.factory.base.CreateRequest(r.ctx, req.URL(), req.Method())
	if err != nil {
		return nil, err
	}
	for name, values := range req.Header() {
		for _, v := range values {
			real.Header().Add(name, v)
		}
	}
	if len(body) > 0 {
		if _, err := real.Body().Write(body); err != nil {
			return nil, err
		}
	}
	return real.Execute()
}
