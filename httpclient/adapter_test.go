package httpclient

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/version"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc, cfg Config) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return a
}

func TestAdapter_Do_BuildsURLAndHeaders(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/42" {
			t.Errorf("path = %q, want /users/42", r.URL.Path)
		}
		if r.URL.RawQuery != "tags[]=a&tags[]=b" {
			t.Errorf("query = %q, want bracket notation", r.URL.RawQuery)
		}
		if r.Header.Get("X-Default") != "yes" {
			t.Errorf("missing default header")
		}
		if r.Header.Get("X-Trace") != "override" {
			t.Errorf("request header should override default, got %q", r.Header.Get("X-Trace"))
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("adapter must not add Authorization on its own")
		}
		_, _ = w.Write([]byte(`{"id":42}`))
	}, Config{Headers: map[string]string{"X-Default": "yes", "X-Trace": "default"}})

	resp, err := a.Do(t.Context(), Request{
		Method:   http.MethodGet,
		Path:     "users/42",
		RawQuery: "tags[]=a&tags[]=b",
		Headers:  map[string]string{"X-Trace": "override"},
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if resp.Text() != `{"id":42}` {
		t.Errorf("body = %q", resp.Text())
	}
	if resp.Request == nil || resp.Request.URL.Path != "/users/42" {
		t.Error("response should carry the sent request")
	}
}

func TestAdapter_Do_JSONBody(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		w.WriteHeader(http.StatusCreated)
	}, Config{})

	resp, err := a.Do(t.Context(), Request{Method: http.MethodPost, Path: "/posts", Body: map[string]string{"title": "hi"}})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want 201", resp.StatusCode)
	}
}

func TestAdapter_Interceptors(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Seen"); got != "users" {
			t.Errorf("X-Seen = %q, want users", got)
		}
	}, Config{})

	a.Use(func(r *http.Request, meta *Request) error {
		r.Header.Set("X-Seen", meta.Name)
		return nil
	})
	if _, err := a.Do(t.Context(), Request{Method: http.MethodGet, Path: "/users", Name: "users"}); err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	a.Use(func(*http.Request, *Request) error { return stderrors.New("store unavailable") })
	_, err := a.Do(t.Context(), Request{Method: http.MethodGet, Path: "/users", Name: "users"})
	if !errors.IsSetup(err) {
		t.Errorf("interceptor failure should be Setup, got %v", err)
	}
}

func TestAdapter_Do_ServerError(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":"TITLE_REQUIRED","message":"title is required"}`))
	}, Config{})

	resp, err := a.Do(t.Context(), Request{Method: http.MethodPost, Path: "/posts"})
	ce, ok := errors.As(err)
	if !ok {
		t.Fatalf("expected ClientError, got %v", err)
	}
	if ce.Kind != errors.KindServer || ce.HTTPStatus != 422 {
		t.Errorf("got %s %d, want server 422", ce.Kind, ce.HTTPStatus)
	}
	if ce.Code != "TITLE_REQUIRED" || ce.Message != "title is required" {
		t.Errorf("code/message = %q/%q", ce.Code, ce.Message)
	}
	if resp == nil || resp.StatusCode != 422 {
		t.Error("non-2xx response should still be returned")
	}
}

func TestAdapter_Do_Timeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, Config{Timeout: time.Second})

	_, err := a.Do(t.Context(), Request{Method: http.MethodGet, Path: "/slow", Timeout: 50 * time.Millisecond})
	if !errors.IsAborted(err) {
		t.Errorf("timeout should be Aborted, got %v", err)
	}
}

func TestAdapter_Do_Cancelled(t *testing.T) {
	started := make(chan struct{})
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}, Config{})

	ctx, cancel := context.WithCancel(t.Context())
	go func() {
		<-started
		cancel()
	}()
	_, err := a.Do(ctx, Request{Method: http.MethodGet, Path: "/slow"})
	if !errors.IsAborted(err) {
		t.Errorf("cancel should be Aborted, got %v", err)
	}
}

func TestAdapter_Do_NetworkError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	a, err := New(Config{BaseURL: "http://" + addr})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	_, err = a.Do(t.Context(), Request{Method: http.MethodGet, Path: "/users"})
	if !errors.IsNetwork(err) {
		t.Errorf("refused connection should be Network, got %v", err)
	}
	if errors.StatusOf(err) != 0 {
		t.Error("network error must not carry a status")
	}
}

func TestAdapter_Do_BadMethodIsSetup(t *testing.T) {
	a, err := New(Config{BaseURL: "http://localhost"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	_, err = a.Do(t.Context(), Request{Method: "BAD METHOD", Path: "/users"})
	if !errors.IsSetup(err) {
		t.Errorf("invalid method should be Setup, got %v", err)
	}
}

func TestAdapter_Do_DefaultUserAgent(t *testing.T) {
	var got string
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}, Config{})

	if _, err := a.Do(t.Context(), Request{Method: http.MethodGet, Path: "/"}); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if got != version.UserAgent() {
		t.Errorf("User-Agent = %q, want %q", got, version.UserAgent())
	}
}
