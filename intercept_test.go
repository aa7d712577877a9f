package restclient

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggingInterceptor_LogsCompletedExchange(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	client, _ := newStubClient(newStubResponse(http.StatusOK, "text/plain", "ok"), func(b *Builder) {
		b.Interceptor(LoggingInterceptor(log))
	})

	_, err := client.Get().
		URL(mustParseURL("https://host/things")).
		Exchange(context.Background(), func(req ClientRequest, resp ClientResponse) (any, error) {
			return nil, nil
		}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logged := buf.String()
	for _, want := range []string{`"method":"GET"`, `"url":"https://host/things"`, `"status":200`, "request completed"} {
		if !strings.Contains(logged, want) {
			t.Errorf("expected log to contain %s, got %s", want, logged)
		}
	}
}

func TestLoggingInterceptor_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	factory := &stubFactory{execErr: errors.New("refused")}
	client := NewBuilder().
		RequestFactory(factory).
		Interceptor(LoggingInterceptor(log)).
		Build()

	_, err := client.Get().URL(mustParseURL("https://host/x")).Retrieve(context.Background())
	if !IsResourceAccess(err) {
		t.Fatalf("expected resource access error, got %v", err)
	}
	if !strings.Contains(buf.String(), "request failed") {
		t.Errorf("expected failure log, got %s", buf.String())
	}
}

func TestInterceptors_RunInRegistrationOrder(t *testing.T) {
	var order []string
	mark := func(name string) Interceptor {
		return InterceptorFunc(func(req ClientRequest, body []byte, next Execution) (ClientResponse, error) {
			order = append(order, name)
			return next(req, body)
		})
	}

	client, _ := newStubClient(nil, func(b *Builder) {
		b.Interceptor(mark("outer"), mark("inner"))
	})

	if _, err := client.Get().URL(mustParseURL("https://host/x")).Retrieve(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("expected registration order, got %v", order)
	}
}
