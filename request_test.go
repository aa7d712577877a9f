package restclient

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/restclient/codec"
)

func TestRequestBuilder_HeaderMerge_OnlyDefaults(t *testing.T) {
	client, factory := newStubClient(nil, func(b *Builder) {
		b.DefaultHeader("X-Tenant", "acme").DefaultHeader("X-Trace", "1")
	})

	if _, err := client.Get().URL(mustParseURL("https://host/x")).Retrieve(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sent := factory.created[0].header
	if got := sent.Get("X-Tenant"); got != "acme" {
		t.Errorf("expected default header to apply, got %q", got)
	}
	if got := sent.Get("X-Trace"); got != "1" {
		t.Errorf("expected default header to apply, got %q", got)
	}
}

func TestRequestBuilder_HeaderMerge_OnlyPerRequest(t *testing.T) {
	client, factory := newStubClient(nil, nil)

	_, err := client.Get().
		URL(mustParseURL("https://host/x")).
		Header("X-Tenant", "acme").
		Retrieve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := factory.created[0].header.Get("X-Tenant"); got != "acme" {
		t.Errorf("expected per-request header to apply, got %q", got)
	}
}

func TestRequestBuilder_HeaderMerge_PerRequestWins(t *testing.T) {
	client, factory := newStubClient(nil, func(b *Builder) {
		b.DefaultHeader("X-Tenant", "default").DefaultHeader("X-Keep", "kept")
	})

	_, err := client.Get().
		URL(mustParseURL("https://host/x")).
		Header("X-Tenant", "override").
		Retrieve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sent := factory.created[0].header
	if got := sent.Values("X-Tenant"); len(got) != 1 || got[0] != "override" {
		t.Errorf("expected per-request value to win, got %v", got)
	}
	if got := sent.Get("X-Keep"); got != "kept" {
		t.Errorf("expected non-conflicting default to survive, got %q", got)
	}
}

func TestRequestBuilder_EmptyURIResolvesToBasePath(t *testing.T) {
	factory := &stubFactory{}
	client := NewBuilder().BaseURL("/api").RequestFactory(factory).Build()

	if _, err := client.Get().Retrieve(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := factory.created[0].url.String(); got != "/api" {
		t.Errorf("expected empty template to resolve to /api, got %q", got)
	}
}

func TestRequestBuilder_URIStashesTemplateAttribute(t *testing.T) {
	client, _ := newStubClient(nil, func(b *Builder) {
		b.URIBuilderFactory(NewURIBuilderFactory("https://host"))
	})

	rb := client.Get().URI("/users/{id}", 42)

	var template any
	rb.Attributes(func(attrs map[string]any) {
		template = attrs[URITemplateAttribute]
	})
	if template != "/users/{id}" {
		t.Errorf("expected raw template stashed as attribute, got %v", template)
	}
	if rb.uri.String() != "https://host/users/42" {
		t.Errorf("unexpected expanded uri %q", rb.uri)
	}
}

func TestRequestBuilder_HTTPRequestHooksCompose(t *testing.T) {
	client, _ := newStubClient(nil, nil)

	var order []string
	_, err := client.Post().
		URL(mustParseURL("https://host/x")).
		HTTPRequest(func(req ClientRequest) { order = append(order, "first") }).
		HTTPRequest(func(req ClientRequest) { order = append(order, "second") }).
		Retrieve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected hooks to run in registration order, got %v", order)
	}
}

func TestRequestBuilder_BodyLastWriteWins(t *testing.T) {
	client, factory := newStubClient(nil, nil)

	_, err := client.Post().
		URL(mustParseURL("https://host/x")).
		Body("first").
		Body("second").
		Retrieve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := factory.created[0].buf.String(); got != "second" {
		t.Errorf("expected last body to win, got %q", got)
	}
}

func TestRequestBuilder_NoConverterForWrite(t *testing.T) {
	type payload struct{ Name string }

	client, _ := newStubClient(nil, func(b *Builder) {
		b.MessageConverters(codec.NewText())
	})

	_, err := client.Post().
		URL(mustParseURL("https://host/x")).
		Body(payload{Name: "a"}).
		Retrieve(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsNoConverter(err) {
		t.Fatalf("expected NoConverterError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "payload") {
		t.Errorf("expected error to reference the runtime type, got %q", err)
	}
}

func TestRequestBuilder_ResourceAccessErrorStripsQuery(t *testing.T) {
	factory := &stubFactory{execErr: errors.New("connection reset")}
	client := NewBuilder().RequestFactory(factory).Build()

	_, err := client.Post().
		URL(mustParseURL("https://host/path?x=1")).
		Body("data").
		Retrieve(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var raErr *ResourceAccessError
	if !errors.As(err, &raErr) {
		t.Fatalf("expected ResourceAccessError, got %T: %v", err, err)
	}
	if raErr.Method != http.MethodPost {
		t.Errorf("expected method POST, got %q", raErr.Method)
	}
	if raErr.URL != "https://host/path" {
		t.Errorf("expected query-stripped URL, got %q", raErr.URL)
	}
	if strings.Contains(err.Error(), "x=1") {
		t.Errorf("error message must not leak the query string: %q", err)
	}
	if !strings.Contains(err.Error(), "POST") || !strings.Contains(err.Error(), "https://host/path") {
		t.Errorf("error message should reference method and sanitized URL: %q", err)
	}
}

func TestRequestBuilder_ContentTypeDrivesConverterSelection(t *testing.T) {
	client, factory := newStubClient(nil, nil)

	_, err := client.Post().
		URL(mustParseURL("https://host/x")).
		ContentType("application/json").
		Body(map[string]string{"name": "alice"}).
		Retrieve(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := factory.created[0]
	if got := req.buf.String(); got != `{"name":"alice"}` {
		t.Errorf("unexpected encoded body %q", got)
	}
	if got := req.header.Get("Content-Length"); got != "16" {
		t.Errorf("expected Content-Length 16, got %q", got)
	}
}

func TestRequestBuilder_Exchange(t *testing.T) {
	resp := newStubResponse(http.StatusOK, "text/plain", "hello")
	client, _ := newStubClient(resp, nil)

	result, err := client.Get().
		URL(mustParseURL("https://host/x")).
		Exchange(context.Background(), func(req ClientRequest, r ClientResponse) (any, error) {
			return r.StatusCode(), nil
		}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != http.StatusOK {
		t.Errorf("expected transform result, got %v", result)
	}
	if resp.closed != 1 {
		t.Errorf("expected response closed once, got %d", resp.closed)
	}
}

func TestRequestBuilder_ExchangeClosesOnTransformError(t *testing.T) {
	resp := newStubResponse(http.StatusOK, "text/plain", "hello")
	client, _ := newStubClient(resp, nil)

	wantErr := errors.New("transform failed")
	_, err := client.Get().
		URL(mustParseURL("https://host/x")).
		Exchange(context.Background(), func(req ClientRequest, r ClientResponse) (any, error) {
			return nil, wantErr
		}, true)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected transform error, got %v", err)
	}
	if resp.closed != 1 {
		t.Errorf("expected response closed despite transform error, got %d closes", resp.closed)
	}
}

func TestRequestBuilder_ExchangeWithoutCloseLeavesHandleOpen(t *testing.T) {
	resp := newStubResponse(http.StatusOK, "text/plain", "hello")
	client, _ := newStubClient(resp, nil)

	_, err := client.Get().
		URL(mustParseURL("https://host/x")).
		Exchange(context.Background(), func(req ClientRequest, r ClientResponse) (any, error) {
			return nil, nil
		}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.closed != 0 {
		t.Errorf("expected caller-owned handle to stay open, got %d closes", resp.closed)
	}
}

func TestRequestBuilder_DeferredURIErrorSurfacesAtExecution(t *testing.T) {
	client, _ := newStubClient(nil, nil)

	_, err := client.Get().URI("/users/{id}").Retrieve(context.Background())
	if err == nil {
		t.Fatal("expected error for missing template variable, got nil")
	}
	if !strings.Contains(err.Error(), "{id}") && !strings.Contains(err.Error(), "needs 1 variables") {
		t.Errorf("unexpected error: %v", err)
	}
}
