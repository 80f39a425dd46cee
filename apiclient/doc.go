// Package apiclient is an authenticated HTTP client built from declarative
// endpoint descriptors.
//
// Requests that require auth get the current bearer token injected. When
// such a request is rejected with 401, the client refreshes the token once,
// shared with every other request that fails while the refresh runs, and
// retries the request a single time. All failures are *errors.ClientError.
//
//	client, err := apiclient.New(cfg, apiclient.WithStore(store))
//	user, err := apiclient.Call[User](ctx, client, GetUser, endpoint.Params{
//	    Path: map[string]any{"id": 42},
//	})
//
// Calls can be cancelled through their context or a CancelHandle.
package apiclient
