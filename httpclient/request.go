package httpclient

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is joined to the BaseURL. Absolute URLs are used as is.
	Path string
	// RawQuery is an already encoded query string without the leading "?".
	RawQuery string
	// Headers are request-specific headers, merged over the configured defaults.
	Headers map[string]string
	// Body accepts io.Reader, []byte, string, *MultipartBody or any JSON-encodable value.
	Body any
	// Timeout bounds this request. Zero uses Config.Timeout.
	Timeout time.Duration
	// RequiresAuth marks the request for bearer injection. It is never sent on the wire.
	RequiresAuth bool
	// Name identifies the logical operation in logs and metrics.
	Name string
}

// Buffered returns a copy of r whose body can be sent more than once.
// io.Reader bodies and multipart file readers are read into memory; the
// caller's MultipartBody is not modified.
func (r Request) Buffered() (Request, error) {
	switch body := r.Body.(type) {
	case *MultipartBody:
		if body == nil {
			return r, nil
		}
		files := make([]FileField, len(body.Files))
		for i, f := range body.Files {
			if f.Reader != nil {
				data, err := io.ReadAll(f.Reader)
				if err != nil {
					return r, fmt.Errorf("read file %s: %w", f.FieldName, err)
				}
				f.Data, f.Reader = data, nil
			}
			files[i] = f
		}
		r.Body = &MultipartBody{Fields: body.Fields, Files: files}
	case io.Reader:
		data, err := io.ReadAll(body)
		if err != nil {
			return r, fmt.Errorf("read body: %w", err)
		}
		r.Body = data
	}
	return r, nil
}

// Response is the result of an HTTP request.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	// Request is the request as it was sent, after interceptors ran.
	Request *http.Request
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// SentAuthorization returns the Authorization header the request carried.
func (r *Response) SentAuthorization() string {
	if r == nil || r.Request == nil {
		return ""
	}
	return r.Request.Header.Get("Authorization")
}
