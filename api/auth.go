package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/etnz/maney"
)

// Login authenticates and saves the returned user in the session store.
func (c *Client) Login(ctx context.Context, cred maney.Credentials) (maney.User, error) {
	var u maney.User
	err := c.mutate(ctx, request{op: OpLogin, method: http.MethodPost, path: c.cfg.Endpoints.Login, body: cred, out: &u})
	if err != nil {
		return maney.User{}, err
	}
	if u.IsZero() {
		// a session without a user would read back as logged out.
		return maney.User{}, &Error{Op: OpLogin, Kind: KindMalformed, Err: errors.New("no user in response")}
	}
	if err := c.store.Save(u); err != nil {
		return u, fmt.Errorf("cannot save session: %w", err)
	}
	c.log.Info().Str("user", u.Name()).Msg("logged in")
	return u, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, reg maney.Registration) (maney.User, error) {
	var u maney.User
	err := c.mutate(ctx, request{op: OpRegister, method: http.MethodPost, path: c.cfg.Endpoints.Register, body: reg, out: &u})
	if err != nil {
		return maney.User{}, err
	}
	return u, nil
}

// Logout ends the server session, then clears the local session whatever the
// outcome of the request. The request error, if any, is still returned.
func (c *Client) Logout(ctx context.Context) error {
	err := c.mutate(ctx, request{op: OpLogout, method: http.MethodPost, path: c.cfg.Endpoints.Logout})
	if cerr := c.store.Clear(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("cannot clear session: %w", cerr))
	}
	return err
}
