package refresh

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kbukum/apiclient/credentials"
	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/httpclient"
)

// DefaultPath is the refresh endpoint.
const DefaultPath = "/api/auth/refresh"

// Refresher exchanges a refresh token for new tokens.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (credentials.Tokens, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, refreshToken string) (credentials.Tokens, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (credentials.Tokens, error) {
	return f(ctx, refreshToken)
}

// Request is the refresh endpoint request body.
type Request struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse is returned by the refresh and login endpoints.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Tokens converts the response to a credentials pair.
func (r TokenResponse) Tokens() credentials.Tokens {
	return credentials.Tokens{Access: r.AccessToken, Refresh: r.RefreshToken}
}

// DecodeTokens parses a token response body. A body without an access
// token is a Setup error.
func DecodeTokens(body []byte) (credentials.Tokens, error) {
	var tr TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return credentials.Tokens{}, errors.Setup("decode token response").WithCause(err)
	}
	if tr.AccessToken == "" {
		return credentials.Tokens{}, errors.Setup("token response has no access_token")
	}
	return tr.Tokens(), nil
}

// HTTPRefresher posts the refresh token to a refresh endpoint.
type HTTPRefresher struct {
	adapter *httpclient.Adapter
	path    string
}

// NewHTTPRefresher returns a refresher using adapter. An empty path uses DefaultPath.
func NewHTTPRefresher(adapter *httpclient.Adapter, path string) *HTTPRefresher {
	if path == "" {
		path = DefaultPath
	}
	return &HTTPRefresher{adapter: adapter, path: path}
}

// Refresh calls the endpoint without credentials. Failures are ClientErrors.
func (r *HTTPRefresher) Refresh(ctx context.Context, refreshToken string) (credentials.Tokens, error) {
	resp, err := r.adapter.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   r.path,
		Body:   Request{RefreshToken: refreshToken},
		Name:   "auth.refresh",
	})
	if err != nil {
		return credentials.Tokens{}, err
	}
	return DecodeTokens(resp.Body)
}
