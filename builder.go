package restclient

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kbukum/restclient/codec"
)

// Builder accumulates client configuration and produces immutable Client
// instances. Every setter returns the builder for chaining. A builder
// obtained from Client.Mutate starts as a copy of the configuration that
// produced that client, so overrides never affect the original instance.
type Builder struct {
	baseURL        string
	requestFactory RequestFactory
	uriFactory     URIBuilderFactory
	defaultHeaders http.Header
	statusHandlers []StatusHandler
	converters     []codec.Converter
	interceptors   []Interceptor
	initializers   []Initializer
	logger         *zerolog.Logger
}

// NewBuilder creates an empty client builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// clone returns a deep-enough copy for copy-on-mutate semantics: slices and
// the header map are duplicated so the original configuration stays frozen.
func (b *Builder) clone() *Builder {
	c := &Builder{
		baseURL:        b.baseURL,
		requestFactory: b.requestFactory,
		uriFactory:     b.uriFactory,
		logger:         b.logger,
	}
	if b.defaultHeaders != nil {
		c.defaultHeaders = b.defaultHeaders.Clone()
	}
	c.statusHandlers = append([]StatusHandler(nil), b.statusHandlers...)
	c.converters = append([]codec.Converter(nil), b.converters...)
	c.interceptors = append([]Interceptor(nil), b.interceptors...)
	c.initializers = append([]Initializer(nil), b.initializers...)
	return c
}

// BaseURL sets the base URL resolved against by the default URI builder
// factory.
func (b *Builder) BaseURL(baseURL string) *Builder {
	b.baseURL = baseURL
	return b
}

// RequestFactory sets the transport factory. Defaults to an
// HTTPRequestFactory over a fresh *http.Client.
func (b *Builder) RequestFactory(factory RequestFactory) *Builder {
	b.requestFactory = factory
	return b
}

// URIBuilderFactory sets the URI resolution capability. Defaults to a
// template factory rooted at the base URL.
func (b *Builder) URIBuilderFactory(factory URIBuilderFactory) *Builder {
	b.uriFactory = factory
	return b
}

// DefaultHeader adds default header values applied to every request.
func (b *Builder) DefaultHeader(name string, values ...string) *Builder {
	if b.defaultHeaders == nil {
		b.defaultHeaders = make(http.Header)
	}
	for _, v := range values {
		b.defaultHeaders.Add(name, v)
	}
	return b
}

// DefaultHeaders exposes the default header map to the given function for
// bulk manipulation.
func (b *Builder) DefaultHeaders(fn func(http.Header)) *Builder {
	if b.defaultHeaders == nil {
		b.defaultHeaders = make(http.Header)
	}
	fn(b.defaultHeaders)
	return b
}

// DefaultStatusHandler registers a status handler evaluated, in registration
// order, before the synthesized terminal handler on every response.
func (b *Builder) DefaultStatusHandler(predicate func(statusCode int) bool, handler ErrorHandler) *Builder {
	b.statusHandlers = append(b.statusHandlers, NewStatusHandler(predicate, handler))
	return b
}

// MessageConverters replaces the converter registry. Order is significant:
// the first converter whose capability predicate accepts a value wins.
func (b *Builder) MessageConverters(converters ...codec.Converter) *Builder {
	b.converters = converters
	return b
}

// Interceptor appends request interceptors, run in registration order.
func (b *Builder) Interceptor(interceptors ...Interceptor) *Builder {
	b.interceptors = append(b.interceptors, interceptors...)
	return b
}

// Initializer appends request initializers, run once per created request.
func (b *Builder) Initializer(initializers ...Initializer) *Builder {
	b.initializers = append(b.initializers, initializers...)
	return b
}

// Logger sets the logger used for debug-level diagnostics. Defaults to a
// no-op logger.
func (b *Builder) Logger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// Build assembles an immutable Client. The builder remains usable; the
// client keeps a private copy of the configuration for Mutate.
func (b *Builder) Build() *Client {
	cfg := b.clone()
	if cfg.requestFactory == nil {
		cfg.requestFactory = NewHTTPRequestFactory(nil)
	}
	if cfg.uriFactory == nil {
		cfg.uriFactory = NewURIBuilderFactory(cfg.baseURL)
	}
	if cfg.converters == nil {
		cfg.converters = codec.Defaults()
	}
	logger := zerolog.Nop()
	if cfg.logger != nil {
		logger = *cfg.logger
	}
	return &Client{
		requestFactory:        cfg.requestFactory,
		uriFactory:            cfg.uriFactory,
		defaultHeaders:        cfg.defaultHeaders,
		defaultStatusHandlers: cfg.statusHandlers,
		converters:            cfg.converters,
		interceptors:          cfg.interceptors,
		initializers:          cfg.initializers,
		logger:                logger,
		builder:               cfg,
	}
}
