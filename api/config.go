package api

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Endpoints are the backend paths consumed by the client.
type Endpoints struct {
	CSRF      string
	Login     string
	Register  string
	Logout    string
	Portfolio string
	Asset     string // collection path, an asset is Asset + "/" + id
}

// UserEndpoints are served by a backend reached directly on its own origin.
var UserEndpoints = Endpoints{
	CSRF:      "/api/csrf",
	Login:     "/user/login",
	Register:  "/user/register",
	Logout:    "/user/logout",
	Portfolio: "/user/portfolio",
	Asset:     "/user/illiquid-asset",
}

// APIEndpoints are served by a deployment exposing the authentication under /api.
var APIEndpoints = Endpoints{
	CSRF:      "/api/csrf",
	Login:     "/api/users/login",
	Register:  "/api/users/register",
	Logout:    "/api/users/logout",
	Portfolio: "/user/portfolio",
	Asset:     "/user/illiquid-asset",
}

// EndpointsByName returns the preset named "user" or "api".
func EndpointsByName(name string) (Endpoints, error) {
	switch name {
	case "", "user":
		return UserEndpoints, nil
	case "api":
		return APIEndpoints, nil
	default:
		return Endpoints{}, fmt.Errorf("unknown endpoints %q, expecting %q or %q", name, "user", "api")
	}
}

// Anti-forgery header names known to be expected by backends.
const (
	HeaderCSRF = "X-CSRF-TOKEN"
	HeaderXSRF = "X-XSRF-TOKEN"
)

// Config describes how to reach the backend.
type Config struct {
	// BaseURL is either an absolute origin ("http://localhost:8080") or a
	// relative prefix ("" or "/api"), resolved against Origin.
	BaseURL string
	// Origin is the origin relative BaseURLs are served from, typically the dev proxy.
	Origin string
	// Endpoints lists the paths of every operation.
	Endpoints Endpoints
	// CSRFHeader is the header carrying the anti-forgery token.
	CSRFHeader string
	// Timeout bounds every request, 0 leaves it to the platform.
	Timeout time.Duration
}

// base resolves the URL every endpoint path is appended to.
func (c Config) base() (*url.URL, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("cannot parse base URL %q: %w", c.BaseURL, err)
	}
	if !u.IsAbs() {
		if c.Origin == "" {
			return nil, fmt.Errorf("relative base URL %q requires an origin", c.BaseURL)
		}
		origin, err := url.Parse(c.Origin)
		if err != nil {
			return nil, fmt.Errorf("cannot parse origin %q: %w", c.Origin, err)
		}
		if !origin.IsAbs() {
			return nil, fmt.Errorf("origin %q is not absolute", c.Origin)
		}
		u = origin.JoinPath(u.Path)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u, nil
}
