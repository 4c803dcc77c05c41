package api

import (
	"context"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
)

// tokenPaths lists where backends put the token, the first present wins.
var tokenPaths = []string{`$["token"]`, `$["csrfToken"]`, `$["_csrf"]["token"]`}

// CSRFToken fetches a fresh anti-forgery token.
//
// Any failure (network, non 2xx status, unexpected payload) means no token is
// available, which is never fatal: the backend decides whether to reject the
// request that follows.
func (c *Client) CSRFToken(ctx context.Context) (string, bool) {
	var doc any
	if err := c.query(ctx, request{op: OpCSRF, method: http.MethodGet, path: c.cfg.Endpoints.CSRF, out: &doc}); err != nil {
		c.log.Debug().Err(err).Msg("anti-forgery token unavailable")
		return "", false
	}
	return tokenOf(doc)
}

// tokenOf extracts the token from the decoded csrf payload.
func tokenOf(doc any) (string, bool) {
	for _, path := range tokenPaths {
		v, err := jsonpath.Get(path, doc)
		if err != nil || v == nil {
			continue // absent, try the next one
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", false
		}
		return s, true
	}
	return "", false
}
