package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/maney/api"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "http://localhost:8080", c.Backend.URL)
	assert.Equal(t, api.HeaderCSRF, c.Backend.CSRFHeader)
	assert.Equal(t, "file", c.Session.Store)
	assert.Equal(t, ":5176", c.Proxy.Listen)
	assert.Equal(t, []string{"/api", "/user"}, c.Proxy.Prefixes)
	assert.Zero(t, c.Backend.GetTimeout())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.toml")
	second := filepath.Join(dir, "second.toml")
	require.NoError(t, os.WriteFile(first, []byte(`
currency = "usd"

[backend]
url = "/backend"
endpoints = "api"
timeout = "5s"

[proxy]
prefixes = ["/api"]
`), 0o600))
	require.NoError(t, os.WriteFile(second, []byte(`
[backend]
csrf_header = "X-XSRF-TOKEN"
`), 0o600))

	c, err := Load(first, filepath.Join(dir, "missing.toml"), second)
	require.NoError(t, err)
	assert.Equal(t, "USD", c.Currency)
	assert.Equal(t, "/backend", c.Backend.URL)
	assert.Equal(t, api.HeaderXSRF, c.Backend.CSRFHeader)
	assert.Equal(t, 5*time.Second, c.Backend.GetTimeout())
	assert.Equal(t, []string{"/api"}, c.Proxy.Prefixes)
	assert.Equal(t, ":5176", c.Proxy.Listen, "unset values keep their default")

	cfg, err := c.API()
	require.NoError(t, err)
	assert.Equal(t, api.APIEndpoints, cfg.Endpoints)
	assert.Equal(t, "http://localhost:5176", cfg.Origin)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("backend = ["), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MANEY_BACKEND_URL", "http://backend:9000")
	t.Setenv("MANEY_CSRF_HEADER", api.HeaderXSRF)
	t.Setenv("MANEY_SESSION_STORE", "sqlite")
	t.Setenv("MANEY_THEME", "dark")
	t.Setenv("MANEY_PROXY_TARGET", "http://backend:9000")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://backend:9000", c.Backend.URL)
	assert.Equal(t, api.HeaderXSRF, c.Backend.CSRFHeader)
	assert.Equal(t, "sqlite", c.Session.Store)
	assert.Equal(t, "dark", c.Shell.Theme)
	assert.Equal(t, "http://backend:9000", c.DevProxy().Target)
}

func TestUnknownEndpoints(t *testing.T) {
	c := Default()
	c.Backend.Endpoints = "graphql"
	_, err := c.API()
	assert.Error(t, err)
}

func TestDefaultStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	assert.Equal(t, filepath.Join("/state", "maney"), DefaultStateDir())
}
