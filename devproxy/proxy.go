// Package devproxy forwards the backend paths of a local development server
// to the backend, so that the client and the backend share one origin.
package devproxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/etnz/maney/logging"
)

// Defaults of the development server.
const (
	DefaultListen = ":5176"
	DefaultTarget = "http://localhost:8080"
)

// DefaultPrefixes are the path prefixes served by the backend.
var DefaultPrefixes = []string{"/api", "/user"}

// Config describes the proxy.
type Config struct {
	Listen   string
	Target   string
	Prefixes []string
}

// Proxy forwards requests whose path starts with one of the prefixes to the
// target, rewriting the Host header to the target's. Other paths are not found.
type Proxy struct {
	cfg    Config
	target *url.URL
	router *mux.Router
	log    *logging.Logger
}

// New returns the proxy described by cfg. Empty fields take the defaults.
func New(cfg Config, log *logging.Logger) (*Proxy, error) {
	if log == nil {
		log = logging.Silent()
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.Target == "" {
		cfg.Target = DefaultTarget
	}
	if len(cfg.Prefixes) == 0 {
		cfg.Prefixes = DefaultPrefixes
	}
	target, err := url.Parse(cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("cannot parse proxy target %q: %w", cfg.Target, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("proxy target %q must be an absolute url", cfg.Target)
	}

	p := &Proxy{cfg: cfg, target: target, router: mux.NewRouter(), log: log.Named("proxy")}
	forward := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			p.log.Warn().Err(err).Str("path", r.URL.Path).Msg("backend unreachable")
			http.Error(w, "backend unreachable", http.StatusBadGateway)
		},
	}
	for _, prefix := range cfg.Prefixes {
		if !strings.HasPrefix(prefix, "/") {
			return nil, fmt.Errorf("proxy prefix %q must start with /", prefix)
		}
		p.router.PathPrefix(prefix).Handler(forward)
	}
	p.router.Use(p.logRequests)
	return p, nil
}

// Config returns the effective configuration.
func (p *Proxy) Config() Config { return p.cfg }

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) { p.router.ServeHTTP(w, r) }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (p *Proxy) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", p.cfg.Listen)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %w", p.cfg.Listen, err)
	}
	return p.Serve(ctx, l)
}

// Serve serves on l until ctx is done.
func (p *Proxy) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{Handler: p, ReadHeaderTimeout: 10 * time.Second}
	// stopping is also cancelled when Serve fails on its own.
	stopping, stop := context.WithCancel(ctx)
	defer stop()
	done := make(chan error, 1)
	go func() {
		<-stopping.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- srv.Shutdown(shutdown)
	}()

	p.log.Info().Str("listen", l.Addr().String()).Str("target", p.target.String()).Strs("prefixes", p.cfg.Prefixes).Msg("proxy started")
	if err := srv.Serve(l); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("proxy stopped: %w", err)
	}
	return <-done
}

// statusRecorder remembers the status written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (p *Proxy) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		p.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Dur("elapsed", time.Since(start)).
			Msg("proxied")
	})
}
