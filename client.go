package restclient

import (
	"context"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/kbukum/restclient/codec"
)

// Client is a fluent, synchronous REST client. It holds immutable shared
// configuration and manufactures independent request builders; a Client is
// safe for concurrent use, while each RequestBuilder and ResponseBuilder
// represents a single in-flight exchange owned by one caller.
type Client struct {
	requestFactory        RequestFactory
	uriFactory            URIBuilderFactory
	defaultHeaders        http.Header
	defaultStatusHandlers []StatusHandler
	converters            []codec.Converter
	interceptors          []Interceptor
	initializers          []Initializer
	logger                zerolog.Logger
	builder               *Builder

	// intercepting caches the interceptor-wrapping factory, built at most
	// once per client via compare-and-swap on first use.
	intercepting atomic.Pointer[interceptingFactory]
}

// Get starts a GET request.
func (c *Client) Get() *RequestBuilder { return c.Method(http.MethodGet) }

// Head starts a HEAD request.
func (c *Client) Head() *RequestBuilder { return c.Method(http.MethodHead) }

// Post starts a POST request.
func (c *Client) Post() *RequestBuilder { return c.Method(http.MethodPost) }

// Put starts a PUT request.
func (c *Client) Put() *RequestBuilder { return c.Method(http.MethodPut) }

// Patch starts a PATCH request.
func (c *Client) Patch() *RequestBuilder { return c.Method(http.MethodPatch) }

// Delete starts a DELETE request.
func (c *Client) Delete() *RequestBuilder { return c.Method(http.MethodDelete) }

// Options starts an OPTIONS request.
func (c *Client) Options() *RequestBuilder { return c.Method(http.MethodOptions) }

// Method starts a request with an arbitrary HTTP method. It always succeeds
// and returns a fresh, independent builder.
func (c *Client) Method(method string) *RequestBuilder {
	return &RequestBuilder{client: c, method: method}
}

// Mutate returns a builder seeded from this client's configuration.
// Building from it produces a new client; the original is unaffected.
func (c *Client) Mutate() *Builder {
	return c.builder.clone()
}

// requestFactoryFor returns the effective transport factory: the base one,
// or the lazily cached intercepting wrapper when interceptors are
// configured. Concurrent first use constructs the wrapper at most once.
func (c *Client) requestFactoryFor() RequestFactory {
	if len(c.interceptors) == 0 {
		return c.requestFactory
	}
	factory := c.intercepting.Load()
	if factory == nil {
		candidate := newInterceptingFactory(c.requestFactory, c.interceptors)
		if c.intercepting.CompareAndSwap(nil, candidate) {
			factory = candidate
		} else {
			factory = c.intercepting.Load()
		}
	}
	return factory
}

// createRequest obtains an open request from the effective factory and runs
// the configured initializers against it.
func (c *Client) createRequest(ctx context.Context, u *url.URL, method string) (ClientRequest, error) {
	req, err := c.requestFactoryFor().CreateRequest(ctx, u, method)
	if err != nil {
		return nil, err
	}
	for _, initializer := range c.initializers {
		initializer.Initialize(req)
	}
	return req, nil
}
