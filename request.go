package restclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// URITemplateAttribute is the attribute key under which the raw URI template
// string is stashed when a template-based URI setter is used, so downstream
// hooks can observe the unexpanded form.
const URITemplateAttribute = "restclient.uritemplate"

// RequestBuilder accumulates a single request: method, URI, headers, body,
// attributes, and raw-request hooks. All mutators return the builder for
// chaining. A builder represents one exchange and is not safe for concurrent
// use; reuse after execution is undefined.
type RequestBuilder struct {
	client     *Client
	method     string
	uri        *url.URL
	headers    http.Header
	body       func(req ClientRequest) error
	attributes map[string]any
	hook       func(req ClientRequest)
	err        error
}

// ExchangeFunc transforms a raw request/response pair into a result.
type ExchangeFunc func(req ClientRequest, resp ClientResponse) (any, error)

// URI resolves a URI template with positional variables, bound to the
// template's variable names in order of appearance. The raw template is
// stashed as an attribute under URITemplateAttribute.
func (r *RequestBuilder) URI(template string, vars ...any) *RequestBuilder {
	r.Attribute(URITemplateAttribute, template)
	u, err := r.client.uriFactory.Expand(template, vars...)
	if err != nil {
		r.setErr(err)
		return r
	}
	return r.URL(u)
}

// URIMap resolves a URI template with named variables. The raw template is
// stashed as an attribute under URITemplateAttribute.
func (r *RequestBuilder) URIMap(template string, vars map[string]any) *RequestBuilder {
	r.Attribute(URITemplateAttribute, template)
	u, err := r.client.uriFactory.ExpandNamed(template, vars)
	if err != nil {
		r.setErr(err)
		return r
	}
	return r.URL(u)
}

// URIFunc resolves the target URI through a caller-driven URIBuilder rooted
// at the client's base URL.
func (r *RequestBuilder) URIFunc(fn func(b URIBuilder) (*url.URL, error)) *RequestBuilder {
	u, err := fn(r.client.uriFactory.Builder())
	if err != nil {
		r.setErr(err)
		return r
	}
	return r.URL(u)
}

// URL sets a pre-built target URL.
func (r *RequestBuilder) URL(u *url.URL) *RequestBuilder {
	r.uri = u
	return r
}

// header lazily allocates the per-request header map.
func (r *RequestBuilder) header() http.Header {
	if r.headers == nil {
		r.headers = make(http.Header)
	}
	return r.headers
}

// Header adds values for the given header name.
func (r *RequestBuilder) Header(name string, values ...string) *RequestBuilder {
	for _, v := range values {
		r.header().Add(name, v)
	}
	return r
}

// Headers exposes the per-request header map to the given function.
func (r *RequestBuilder) Headers(fn func(http.Header)) *RequestBuilder {
	fn(r.header())
	return r
}

// Accept sets the Accept header to the given media types.
func (r *RequestBuilder) Accept(mediaTypes ...string) *RequestBuilder {
	r.header().Set("Accept", strings.Join(mediaTypes, ", "))
	return r
}

// AcceptCharset sets the Accept-Charset header.
func (r *RequestBuilder) AcceptCharset(charsets ...string) *RequestBuilder {
	r.header().Set("Accept-Charset", strings.Join(charsets, ", "))
	return r
}

// ContentType sets the Content-Type header.
func (r *RequestBuilder) ContentType(contentType string) *RequestBuilder {
	r.header().Set("Content-Type", contentType)
	return r
}

// ContentLength sets the Content-Length header.
func (r *RequestBuilder) ContentLength(length int64) *RequestBuilder {
	r.header().Set("Content-Length", strconv.FormatInt(length, 10))
	return r
}

// IfModifiedSince sets the If-Modified-Since header.
func (r *RequestBuilder) IfModifiedSince(t time.Time) *RequestBuilder {
	r.header().Set("If-Modified-Since", t.UTC().Format(http.TimeFormat))
	return r
}

// IfNoneMatch sets the If-None-Match header.
func (r *RequestBuilder) IfNoneMatch(etags ...string) *RequestBuilder {
	r.header().Set("If-None-Match", strings.Join(etags, ", "))
	return r
}

// Attribute sets a side-channel attribute on the request spec.
func (r *RequestBuilder) Attribute(name string, value any) *RequestBuilder {
	if r.attributes == nil {
		r.attributes = make(map[string]any, 4)
	}
	r.attributes[name] = value
	return r
}

// Attributes exposes the attribute map to the given function.
func (r *RequestBuilder) Attributes(fn func(map[string]any)) *RequestBuilder {
	if r.attributes == nil {
		r.attributes = make(map[string]any, 4)
	}
	fn(r.attributes)
	return r
}

// HTTPRequest registers a hook invoked against the live transport request
// immediately before execution. Multiple hooks compose in registration
// order.
func (r *RequestBuilder) HTTPRequest(fn func(req ClientRequest)) *RequestBuilder {
	if prev := r.hook; prev != nil {
		r.hook = func(req ClientRequest) {
			prev(req)
			fn(req)
		}
	} else {
		r.hook = fn
	}
	return r
}

// Body sets the request body to a value encoded by the first capable
// message converter. A later Body* call replaces an earlier one.
func (r *RequestBuilder) Body(v any) *RequestBuilder {
	if v == nil {
		return r
	}
	r.body = func(req ClientRequest) error {
		return r.writeWithConverters(v, reflect.TypeOf(v), req)
	}
	return r
}

// BodyWithType sets the request body with an explicitly declared type used
// for converter selection instead of the value's runtime type.
func (r *RequestBuilder) BodyWithType(v any, t reflect.Type) *RequestBuilder {
	r.body = func(req ClientRequest) error {
		return r.writeWithConverters(v, t, req)
	}
	return r
}

// BodyWriter sets a streaming request body, bypassing converter selection.
func (r *RequestBuilder) BodyWriter(fn func(w io.Writer) error) *RequestBuilder {
	r.body = func(req ClientRequest) error {
		return fn(req.Body())
	}
	return r
}

// writeWithConverters selects the first converter, in registry order, whose
// capability predicate accepts the declared type and outgoing content type,
// and invokes its write operation.
func (r *RequestBuilder) writeWithConverters(v any, t reflect.Type, req ClientRequest) error {
	contentType := req.Header().Get("Content-Type")
	for _, converter := range r.client.converters {
		if converter.CanWrite(t, contentType) {
			r.client.logger.Debug().
				Str("body_type", t.String()).
				Str("content_type", contentType).
				Str("converter", reflect.TypeOf(converter).String()).
				Msg("writing request body")
			return converter.Write(v, contentType, req)
		}
	}
	return &NoConverterError{Type: t, ContentType: contentType}
}

// Retrieve executes the request and wraps the response for typed
// extraction. The response handle stays open; extraction through the
// returned ResponseBuilder closes it.
func (r *RequestBuilder) Retrieve(ctx context.Context) (*ResponseBuilder, error) {
	var rs *ResponseBuilder
	_, err := r.exchangeInternal(ctx, func(req ClientRequest, resp ClientResponse) (any, error) {
		rs = newResponseBuilder(r.client, req, resp)
		return nil, nil
	}, false)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// Exchange executes the request and hands the raw request/response pair to
// fn. When closeResponse is true the response handle is closed after fn
// returns, success or not; otherwise the caller assumes responsibility for
// closing it.
func (r *RequestBuilder) Exchange(ctx context.Context, fn ExchangeFunc, closeResponse bool) (any, error) {
	return r.exchangeInternal(ctx, fn, closeResponse)
}

// exchangeInternal is the execution algorithm shared by Retrieve and
// Exchange: resolve URI, merge headers, create the transport request, write
// the body, run hooks, execute, translate I/O failures.
func (r *RequestBuilder) exchangeInternal(ctx context.Context, fn ExchangeFunc, closeResponse bool) (result any, err error) {
	if r.err != nil {
		return nil, r.err
	}
	uri := r.uri
	if uri == nil {
		uri, err = r.client.uriFactory.Expand("")
		if err != nil {
			return nil, err
		}
	}
	headers := r.mergedHeaders()
	req, err := r.client.createRequest(ctx, uri, r.method)
	if err != nil {
		return nil, newResourceAccessError(r.method, uri, err)
	}
	for name, values := range headers {
		for _, v := range values {
			req.Header().Add(name, v)
		}
	}
	if r.body != nil {
		if err := r.body(req); err != nil {
			var noConv *NoConverterError
			if errors.As(err, &noConv) {
				return nil, err
			}
			return nil, newResourceAccessError(r.method, uri, err)
		}
	}
	if r.hook != nil {
		r.hook(req)
	}
	resp, err := req.Execute()
	if err != nil {
		return nil, newResourceAccessError(r.method, uri, err)
	}
	if closeResponse {
		defer func() { _ = resp.Close() }()
	}
	return fn(req, resp)
}

// mergedHeaders merges default and per-request headers. When only one side
// is populated it is used directly; when both are, a fresh map is built with
// defaults applied first so per-request values win on conflicting names.
func (r *RequestBuilder) mergedHeaders() http.Header {
	defaults := r.client.defaultHeaders
	switch {
	case len(r.headers) == 0:
		return defaults
	case len(defaults) == 0:
		return r.headers
	default:
		merged := make(http.Header, len(defaults)+len(r.headers))
		for name, values := range defaults {
			merged[name] = values
		}
		for name, values := range r.headers {
			merged[name] = values
		}
		return merged
	}
}

func (r *RequestBuilder) setErr(err error) {
	if r.err == nil {
		r.err = err
	}
}
