// Package mockapi is a small gin server that speaks the API the client
// library is built against: password login, rotating refresh tokens, and a
// few bearer-protected resources.
//
// Access tokens are HS256 JWTs carrying a generation claim. Bumping the
// generation through POST /api/auth/expire invalidates every outstanding
// access token at once, which is how tests and demos trigger a refresh.
//
// Usage:
//
//	srv, err := mockapi.New(mockapi.Config{}, log)
//	ts := httptest.NewServer(srv.Handler())
//	defer ts.Close()
package mockapi
