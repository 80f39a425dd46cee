package apiclient

import (
	"context"

	"github.com/kbukum/apiclient/endpoint"
	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/logger"
	"github.com/kbukum/apiclient/refresh"
)

// LoginEndpoint is the default login descriptor.
var LoginEndpoint = endpoint.Post("/api/auth/login").Named("auth.login")

// Login sends body to d and stores the returned token pair. The response
// must match refresh.TokenResponse.
func (c *Client) Login(ctx context.Context, d endpoint.Descriptor, body any, opts ...CallOption) error {
	d.RequiresAuth = false
	resp, err := c.Do(ctx, d, endpoint.Params{Body: body}, opts...)
	if err != nil {
		return err
	}
	tokens, err := refresh.DecodeTokens(resp.Body)
	if err != nil {
		return err
	}
	if tokens.Refresh == "" {
		return errors.Setup("login response has no refresh_token")
	}
	c.coord.Reset()
	if err := c.store.SetTokens(tokens.Access, tokens.Refresh); err != nil {
		return errors.Setup("store tokens").WithCause(err)
	}
	c.setDefaultToken(tokens.Access)
	c.log.WithContext(ctx).Info("logged in", logger.Fields(logger.FieldEndpoint, d.Label()))
	return nil
}

// Logout forgets both tokens. A refresh still in flight settles its callers
// but does not restore the session.
func (c *Client) Logout() error {
	c.coord.Reset()
	c.setDefaultToken("")
	if err := c.store.Clear(); err != nil {
		return errors.Setup("clear tokens").WithCause(err)
	}
	return nil
}

// LoggedIn reports whether a refresh token is stored.
func (c *Client) LoggedIn() (bool, error) {
	rt, err := c.store.Refresh()
	return rt != "", err
}
