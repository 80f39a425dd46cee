// Package httpclient is the transport layer underneath apiclient.
//
// An Adapter sends one Request at a time over net/http, applying a base URL,
// default headers, a per-request timeout and any registered interceptors.
// Every failure it returns is already classified into an errors.ClientError:
//
//	adapter, _ := httpclient.New(httpclient.Config{BaseURL: "https://api.example.com"})
//	adapter.Use(func(r *http.Request, meta *httpclient.Request) error {
//	    r.Header.Set("X-Client", "cli")
//	    return nil
//	})
//	resp, err := adapter.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/users/42"})
//
// Multipart uploads use MultipartBody; the boundary-aware Content-Type is
// always computed here and overrides anything set by the caller.
package httpclient
