package restclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const defaultTimeout = 30 * time.Second

// RequestFactory creates open client requests bound to a URI and method.
// Implementations own all transport concerns (pooling, TLS, timeouts); the
// client only requires the create/execute contract.
type RequestFactory interface {
	CreateRequest(ctx context.Context, u *url.URL, method string) (ClientRequest, error)
}

// ClientRequest is an open outbound request. Headers and body may be
// written until Execute is called; Execute performs the blocking network
// round trip and returns the response handle.
type ClientRequest interface {
	Method() string
	URL() *url.URL
	Header() http.Header
	Body() io.Writer
	Execute() (ClientResponse, error)
}

// ClientResponse is a single-consumption response handle. The body is a
// live stream backed by transport resources; Close must be called exactly
// once by whoever consumes or abandons the body. Implementations must make
// Close idempotent.
type ClientResponse interface {
	StatusCode() int
	Status() string
	Header() http.Header
	Body() io.Reader
	Close() error
}

// HTTPRequestFactory is the default RequestFactory backed by net/http.
type HTTPRequestFactory struct {
	client *http.Client
}

// NewHTTPRequestFactory creates a factory over the given *http.Client.
// A nil client gets a fresh one with a 30s timeout.
func NewHTTPRequestFactory(client *http.Client) *HTTPRequestFactory {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPRequestFactory{client: client}
}

// CreateRequest returns an open request that buffers its body until Execute.
func (f *HTTPRequestFactory) CreateRequest(ctx context.Context, u *url.URL, method string) (ClientRequest, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return &httpClientRequest{
		client: f.client,
		ctx:    ctx,
		method: method,
		url:    u,
		header: make(http.Header),
	}, nil
}

type httpClientRequest struct {
	client *http.Client
	ctx    context.Context
	method string
	url    *url.URL
	header http.Header
	buf    bytes.Buffer
}

func (r *httpClientRequest) Method() string      { return r.method }
func (r *httpClientRequest) URL() *url.URL       { return r.url }
func (r *httpClientRequest) Header() http.Header { return r.header }
func (r *httpClientRequest) Body() io.Writer     { return &r.buf }

// Execute sends the buffered request and wraps the raw response.
func (r *httpClientRequest) Execute() (ClientResponse, error) {
	var body io.Reader
	if r.buf.Len() > 0 {
		body = bytes.NewReader(r.buf.Bytes())
	}
	req, err := http.NewRequestWithContext(r.ctx, r.method, r.url.String(), body)
	if err != nil {
		return nil, err
	}
	for name, values := range r.header {
		req.Header[name] = values
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	return &httpClientResponse{resp: resp}, nil
}

type httpClientResponse struct {
	resp      *http.Response
	closeOnce sync.Once
	closeErr  error
}

func (r *httpClientResponse) StatusCode() int     { return r.resp.StatusCode }
func (r *httpClientResponse) Status() string      { return r.resp.Status }
func (r *httpClientResponse) Header() http.Header { return r.resp.Header }
func (r *httpClientResponse) Body() io.Reader     { return r.resp.Body }

// Close drains a bounded amount of the remaining body so the underlying
// connection can be reused, then releases it. Safe to call more than once;
// only the first call does any work.
func (r *httpClientResponse) Close() error {
	r.closeOnce.Do(func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(r.resp.Body, 4<<10))
		r.closeErr = r.resp.Body.Close()
	})
	return r.closeErr
}
