package endpoint

import (
	"net/http"
	"time"

	"github.com/kbukum/apiclient/validation"
)

// DefaultTimeout applies to descriptors that do not set one.
const DefaultTimeout = 10 * time.Second

// Descriptor is the reusable definition of one API operation.
type Descriptor struct {
	// Name identifies the operation in logs and metrics.
	Name string `json:"name"`
	// Endpoint is a path template with :name placeholders.
	Endpoint string `json:"endpoint" validate:"required,endpoint"`
	Method   string `json:"method" validate:"required,oneof=GET POST PUT PATCH DELETE"`
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration `json:"timeout" validate:"gte=0"`
	Headers map[string]string `json:"headers"`
	// RequiresAuth enables bearer injection and refresh on 401.
	RequiresAuth bool `json:"requires_auth"`
}

// Params carries the per-call values for a Descriptor. All fields are optional.
type Params struct {
	Path  map[string]any
	Query map[string]any
	// Body accepts anything httpclient.Request.Body accepts.
	Body any
}

// Validate checks the descriptor's method and endpoint.
func (d Descriptor) Validate() error {
	return validation.Struct(d)
}

// EffectiveTimeout returns the timeout requests built from d will use.
func (d Descriptor) EffectiveTimeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return DefaultTimeout
}

// Label returns Name, or "METHOD endpoint" when no name is set.
func (d Descriptor) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Method + " " + d.Endpoint
}

// Get, Post, Put, Patch and Delete are shorthands for building descriptors.

func Get(path string) Descriptor    { return Descriptor{Endpoint: path, Method: http.MethodGet} }
func Post(path string) Descriptor   { return Descriptor{Endpoint: path, Method: http.MethodPost} }
func Put(path string) Descriptor    { return Descriptor{Endpoint: path, Method: http.MethodPut} }
func Patch(path string) Descriptor  { return Descriptor{Endpoint: path, Method: http.MethodPatch} }
func Delete(path string) Descriptor { return Descriptor{Endpoint: path, Method: http.MethodDelete} }

// Authenticated returns a copy of d that requires auth.
func (d Descriptor) Authenticated() Descriptor {
	d.RequiresAuth = true
	return d
}

// Named returns a copy of d with the given name.
func (d Descriptor) Named(name string) Descriptor {
	d.Name = name
	return d
}
