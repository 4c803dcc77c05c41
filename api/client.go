// Package api is the HTTP client of the Maney backend.
//
// Every call carries the session cookie of the backend. State mutating calls
// (login, register, logout and the asset mutations) first fetch a fresh
// anti-forgery token and attach it as a header when one was obtained.
//
// Failures are returned as *Error values classified by Kind, so that callers
// switch on the outcome instead of parsing messages. No call is ever retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/etnz/maney/logging"
	"github.com/etnz/maney/session"
)

// RequestIDHeader carries a per request id, for correlation with backend logs.
const RequestIDHeader = "X-Request-ID"

// Client implements every operation of the backend.
type Client struct {
	cfg   Config
	base  *url.URL
	http  *http.Client
	store session.Store
	log   *logging.Logger
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets the underlying http client. Its cookie jar, if any, is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithJar sets the cookie jar holding the backend session cookie.
func WithJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.http.Jar = jar
	}
}

// WithStore sets the session store updated on login and logout.
func WithStore(s session.Store) Option {
	return func(c *Client) {
		c.store = s
	}
}

// WithLogger sets the logger
func WithLogger(log *logging.Logger) Option {
	return func(c *Client) {
		c.log = log.Named("api")
	}
}

// New creates a client for the backend described by cfg.
//
// Without options, the client keeps its session in memory and its cookies in
// a fresh in-memory jar.
func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := cfg.base()
	if err != nil {
		return nil, err
	}
	if cfg.CSRFHeader == "" {
		cfg.CSRFHeader = HeaderCSRF
	}
	if cfg.Endpoints == (Endpoints{}) {
		cfg.Endpoints = UserEndpoints
	}
	c := &Client{
		cfg:   cfg,
		base:  base,
		http:  &http.Client{Timeout: cfg.Timeout},
		store: session.NewMemoryStore(),
		log:   logging.Silent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := NewJar("", nil)
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
	}
	return c, nil
}

// Session returns the store updated by Login and Logout.
func (c *Client) Session() session.Store { return c.store }

// URL returns the absolute URL of an endpoint path.
func (c *Client) URL(path string) string {
	return c.base.JoinPath(path).String()
}

// request describes one exchange with the backend.
type request struct {
	op     Op
	method string
	path   string
	body   any // JSON encoded when not nil
	out    any // JSON decoded from a 2xx response when not nil
	token  string
}

// query sends a request that does not change any server state.
func (c *Client) query(ctx context.Context, r request) error {
	_, err := c.send(ctx, r)
	return err
}

// mutate implements the anti-forgery protocol: exactly one token fetch, then
// the request, sent whether a token was obtained or not.
func (c *Client) mutate(ctx context.Context, r request) error {
	token, ok := c.CSRFToken(ctx)
	if !ok {
		c.log.Debug().Str("op", string(r.op)).Msg("no anti-forgery token available, sending without")
	}
	r.token = token
	_, err := c.send(ctx, r)
	return err
}

// send performs the exchange and classifies the outcome. It returns the HTTP
// status when a response was received.
func (c *Client) send(ctx context.Context, r request) (int, error) {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return 0, &Error{Op: r.op, Kind: KindUnknown, Err: fmt.Errorf("cannot encode request body: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	addr := c.URL(r.path)
	req, err := http.NewRequestWithContext(ctx, r.method, addr, body)
	if err != nil {
		return 0, &Error{Op: r.op, Kind: KindUnknown, Err: fmt.Errorf("cannot create http request %q: %w", addr, err)}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if r.method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set(c.cfg.CSRFHeader, r.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("op", string(r.op)).Str("request_id", reqID).Msg("request failed")
		return 0, &Error{Op: r.op, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	// reading in a buffer to be able to log the payload in debug mode
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return resp.StatusCode, &Error{Op: r.op, Kind: KindNetwork, Status: resp.StatusCode, Err: fmt.Errorf("cannot read response body: %w", err)}
	}
	c.log.Debug().
		Str("op", string(r.op)).
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Str("request_id", reqID).
		Msg("backend response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &Error{Op: r.op, Kind: classify(r.op, resp.StatusCode), Status: resp.StatusCode}
	}
	if r.out == nil || len(bytes.TrimSpace(buf.Bytes())) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(buf.Bytes(), r.out); err != nil {
		c.log.Debug().Str("body", buf.String()).Msg("undecodable response")
		return resp.StatusCode, &Error{Op: r.op, Kind: KindMalformed, Status: resp.StatusCode, Err: err}
	}
	return resp.StatusCode, nil
}
