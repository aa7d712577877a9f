package restclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Test doubles for the transport contract. Tests that care about wire
// behavior use net/http/httptest instead; these stubs exist to observe the
// pipeline without a socket.

type stubFactory struct {
	created  []*stubRequest
	response *stubResponse
	execErr  error
	createFn func(ctx context.Context, u *url.URL, method string) (ClientRequest, error)
}

func (f *stubFactory) CreateRequest(ctx context.Context, u *url.URL, method string) (ClientRequest, error) {
	if f.createFn != nil {
		return f.createFn(ctx, u, method)
	}
	req := &stubRequest{
		method:   method,
		url:      u,
		header:   make(http.Header),
		response: f.response,
		execErr:  f.execErr,
	}
	f.created = append(f.created, req)
	return req, nil
}

type stubRequest struct {
	method   string
	url      *url.URL
	header   http.Header
	buf      bytes.Buffer
	response *stubResponse
	execErr  error
	executed bool
}

func (r *stubRequest) Method() string      { return r.method }
func (r *stubRequest) URL() *url.URL       { return r.url }
func (r *stubRequest) Header() http.Header { return r.header }
func (r *stubRequest) Body() io.Writer     { return &r.buf }

func (r *stubRequest) Execute() (ClientResponse, error) {
	r.executed = true
	if r.execErr != nil {
		return nil, r.execErr
	}
	if r.response == nil {
		r.response = newStubResponse(http.StatusOK, "", "")
	}
	return r.response, nil
}

type stubResponse struct {
	status      int
	contentType string
	body        io.Reader
	header      http.Header
	closed      int
}

func newStubResponse(status int, contentType, body string) *stubResponse {
	header := make(http.Header)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &stubResponse{
		status:      status,
		contentType: contentType,
		body:        strings.NewReader(body),
		header:      header,
	}
}

func (r *stubResponse) StatusCode() int { return r.status }

func (r *stubResponse) Status() string {
	return fmt.Sprintf("%d %s", r.status, http.StatusText(r.status))
}

func (r *stubResponse) Header() http.Header { return r.header }
func (r *stubResponse) Body() io.Reader     { return r.body }

func (r *stubResponse) Close() error {
	r.closed++
	return nil
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// newStubClient builds a client over a stub factory that answers every
// request with the given response.
func newStubClient(resp *stubResponse, configure func(*Builder)) (*Client, *stubFactory) {
	factory := &stubFactory{response: resp}
	b := NewBuilder().RequestFactory(factory)
	if configure != nil {
		configure(b)
	}
	return b.Build(), factory
}
