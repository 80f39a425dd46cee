package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/kbukum/apiclient/logger"
	"github.com/kbukum/apiclient/version"
)

// RequestInterceptor runs on every outbound request after it is built and
// before it is sent. meta is the Request it was built from. A returned
// error aborts the send and is classified as a Setup failure.
type RequestInterceptor func(r *http.Request, meta *Request) error

// Option customises an Adapter.
type Option func(*Adapter)

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(a *Adapter) { a.transport = rt }
}

// WithLogger sets the logger used for debug dumps.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) { a.log = l }
}

// WithInterceptor registers an interceptor at construction time.
func WithInterceptor(i RequestInterceptor) Option {
	return func(a *Adapter) { a.interceptors = append(a.interceptors, i) }
}

// Adapter sends Requests over net/http.
type Adapter struct {
	httpClient *http.Client
	transport  http.RoundTripper
	config     Config
	log        *logger.Logger

	mu           sync.RWMutex
	interceptors []RequestInterceptor
}

// New creates an Adapter from cfg.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{config: cfg}
	for _, opt := range opts {
		opt(a)
	}
	a.log = logger.OrDefault(a.log).WithComponent("httpclient")

	if a.transport == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			transport.TLSClientConfig = tlsCfg
		}
		a.transport = transport
	}
	if cfg.Debug {
		a.transport = &debugTransport{next: a.transport, log: a.log}
	}

	// Timeouts are applied per request through the context.
	a.httpClient = &http.Client{Transport: a.transport}
	return a, nil
}

// Use registers an interceptor. Interceptors run in registration order.
func (a *Adapter) Use(i RequestInterceptor) {
	a.mu.Lock()
	a.interceptors = append(a.interceptors, i)
	a.mu.Unlock()
}

// Do sends req and reads the full response. A non-2xx response is returned
// together with its Server error. Every non-nil error is an *errors.ClientError.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = a.config.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := a.send(ctx, req)
	if ce := Classify(ctx, resp, err); ce != nil {
		return resp, ce
	}
	return resp, nil
}

func (a *Adapter) send(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	a.mu.RLock()
	interceptors := a.interceptors
	a.mu.RUnlock()
	for _, intercept := range interceptors {
		if err := intercept(httpReq, &req); err != nil {
			return nil, &BuildError{Op: "intercept", Err: err}
		}
	}

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    flattenHeaders(httpResp.Header),
		Body:       body,
		Request:    httpReq,
	}, nil
}

// buildRequest turns req into an *http.Request. Failures are *BuildError.
func (a *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if a.config.BaseURL != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = strings.TrimRight(a.config.BaseURL, "/") + "/" + strings.TrimLeft(url, "/")
	}
	if req.RawQuery != "" {
		url += "?" + req.RawQuery
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, &BuildError{Op: "encode body", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, &BuildError{Op: "create request", Err: err}
	}

	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if _, multipart := req.Body.(*MultipartBody); multipart {
		httpReq.Header.Set("Content-Type", contentType)
	} else if body != nil && contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", version.UserAgent())
	}
	return httpReq, nil
}

// Close releases idle connections.
func (a *Adapter) Close() error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// Config returns the adapter configuration with defaults applied.
func (a *Adapter) Config() Config {
	return a.config
}

func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case *MultipartBody:
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain; charset=utf-8", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
