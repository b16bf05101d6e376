package funcs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventor-ai/balloond/internal/domain"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, "test-key", 5*time.Second, zerolog.Nop()), srv
}

func TestInvoke_UnwrapsDataEnvelope(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody []byte
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"speech":"Dear guests..."}}`))
	})
	defer srv.Close()

	data, err := c.Invoke(context.Background(), "generate-speech", json.RawMessage(`{"tone":"warm"}`))
	if err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}

	if gotPath != "/functions/v1/generate-speech" {
		t.Errorf("path = %q, want /functions/v1/generate-speech", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q, want bearer key", gotAuth)
	}
	if string(gotBody) != `{"tone":"warm"}` {
		t.Errorf("body = %s, want payload forwarded verbatim", gotBody)
	}
	if string(data) != `{"speech":"Dear guests..."}` {
		t.Errorf("data = %s", data)
	}
}

func TestInvoke_ErrorEnvelope(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"error":{"message":"model overloaded"}}`))
	})
	defer srv.Close()

	_, err := c.Invoke(context.Background(), "generate-budget", nil)
	if !errors.Is(err, domain.ErrFunctionFailed) {
		t.Fatalf("Invoke() error = %v, want ErrFunctionFailed", err)
	}
}

func TestInvoke_NonOKStatus(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	defer srv.Close()

	_, err := c.Invoke(context.Background(), "generate-budget", nil)
	if !errors.Is(err, domain.ErrFunctionFailed) {
		t.Fatalf("Invoke() error = %v, want ErrFunctionFailed", err)
	}
}

func TestInvoke_MalformedPayload(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": not json`))
	})
	defer srv.Close()

	_, err := c.Invoke(context.Background(), "generate-budget", nil)
	if !errors.Is(err, domain.ErrFunctionFailed) {
		t.Fatalf("Invoke() error = %v, want ErrFunctionFailed", err)
	}
}

func TestInvoke_BarePayloadPassedThrough(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer":42}`))
	})
	defer srv.Close()

	data, err := c.Invoke(context.Background(), "generate-budget", nil)
	if err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}
	if string(data) != `{"answer":42}` {
		t.Errorf("data = %s, want the bare payload", data)
	}
}

func TestInvoke_EmptyPayloadDefaultsToObject(t *testing.T) {
	var gotBody []byte
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"data":{}}`))
	})
	defer srv.Close()

	if _, err := c.Invoke(context.Background(), "generate-budget", nil); err != nil {
		t.Fatal(err)
	}
	if string(gotBody) != `{}` {
		t.Errorf("body = %q, want {}", gotBody)
	}
}

func TestInvoke_ConnectionRefused(t *testing.T) {
	c := New("http://127.0.0.1:1", "", time.Second, zerolog.Nop())

	_, err := c.Invoke(context.Background(), "generate-budget", nil)
	if !errors.Is(err, domain.ErrFunctionFailed) {
		t.Fatalf("Invoke() error = %v, want ErrFunctionFailed", err)
	}
}
