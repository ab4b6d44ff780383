package artsycli

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/artsyapp/artsy/pkg/credman/types"
	"github.com/go-resty/resty/v2"
)

const (
	pathLogin         = "auth/login"
	pathRegister      = "auth/register"
	pathMe            = "auth/me"
	pathLogout        = "auth/logout"
	pathDeleteAccount = "auth/delete-account"
)

// Endpoint returns the URL Me requests. A session can only be restored if
// cookies are stored for it.
func (c *Client) Endpoint() *url.URL {
	return c.resolve(pathMe)
}

// Me returns the user the given session cookies belong to. Cookies the
// server refreshes on the way are returned in the Grant and not stored.
func (c *Client) Me(ctx context.Context, cookies []types.Cookie) (*Grant, error) {
	hcs := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		hcs = append(hcs, ck.HTTP())
	}
	user, resp, err := invoke[User](ctx, c.auth, http.MethodGet, pathMe, nil, hcs...)
	if err != nil {
		return nil, err
	}
	return c.grant(user, resp, pathMe), nil
}

// Login authenticates with email and password. The session cookies the
// server sets are returned in the Grant and not stored.
func (c *Client) Login(ctx context.Context, email, password string) (*Grant, error) {
	user, resp, err := invoke[User](ctx, c.auth, http.MethodPost, pathLogin, &LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	return c.grant(user, resp, pathLogin), nil
}

// Register creates an account and signs it in, like Login.
func (c *Client) Register(ctx context.Context, username, email, password string) (*Grant, error) {
	user, resp, err := invoke[User](ctx, c.auth, http.MethodPost, pathRegister, &RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	return c.grant(user, resp, pathRegister), nil
}

// Logout ends the session on the server.
func (c *Client) Logout(ctx context.Context) error {
	_, err := send(ctx, c.api, http.MethodPost, pathLogout, nil)
	return err
}

// DeleteAccount deletes the signed in account on the server.
func (c *Client) DeleteAccount(ctx context.Context) error {
	_, err := send(ctx, c.api, http.MethodDelete, pathDeleteAccount, nil)
	return err
}

func (c *Client) grant(user *User, resp *resty.Response, path string) *Grant {
	u := c.resolve(path)
	if resp.RawResponse != nil && resp.RawResponse.Request != nil {
		u = resp.RawResponse.Request.URL
	}
	now := time.Now()
	hcs := resp.Cookies()
	cookies := make([]types.Cookie, 0, len(hcs))
	for _, hc := range hcs {
		cookies = append(cookies, types.FromHTTP(hc, now))
	}
	c.log.Debug("artsycli: %s granted %d cookies", path, len(cookies))
	return &Grant{User: *user, Cookies: cookies, URL: u}
}
