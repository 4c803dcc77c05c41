package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/etnz/maney/logging"
)

// Jar is a cookie jar optionally persisted into a file, so that successive
// runs of the client share the backend session cookie.
//
// The client logic never reads cookies: the jar plays the part of the browser
// cookie store.
type Jar struct {
	*cookiejar.Jar
	path string
	log  *logging.Logger

	mu   sync.Mutex
	seen map[string]*url.URL // origins that ever set a cookie
}

// persistedCookie is the on disk form of a cookie.
type persistedCookie struct {
	URL   string `json:"url"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewJar returns a jar persisted into path, loading any cookie saved there.
// An empty path keeps the cookies in memory only.
func NewJar(path string, log *logging.Logger) (*Jar, error) {
	if log == nil {
		log = logging.Silent()
	}
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create cookie jar: %w", err)
	}
	j := &Jar{Jar: inner, path: path, log: log.Named("api.jar"), seen: make(map[string]*url.URL)}
	if err := j.load(); err != nil {
		// a corrupted jar is like an expired session: the backend asks to log in again.
		j.log.Warn().Err(err).Str("path", path).Msg("ignoring unreadable cookie jar")
	}
	return j, nil
}

// SetCookies implements http.CookieJar and saves the jar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.Jar.SetCookies(u, cookies)
	if j.path == "" {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	origin := &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
	j.seen[origin.String()] = origin
	if err := j.save(); err != nil {
		j.log.Warn().Err(err).Str("path", j.path).Msg("cannot save cookie jar")
	}
}

func (j *Jar) load() error {
	if j.path == "" {
		return nil
	}
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var persisted []persistedCookie
	if err := json.Unmarshal(data, &persisted); err != nil {
		return fmt.Errorf("could not decode cookie jar: %w", err)
	}
	for _, p := range persisted {
		u, err := url.Parse(p.URL)
		if err != nil {
			continue
		}
		j.seen[u.String()] = u
		j.Jar.SetCookies(u, []*http.Cookie{{Name: p.Name, Value: p.Value, Path: "/"}})
	}
	return nil
}

// save writes every cookie of every seen origin. j.mu must be held.
func (j *Jar) save() error {
	persisted := []persistedCookie{}
	for addr, u := range j.seen {
		for _, c := range j.Jar.Cookies(u) {
			persisted = append(persisted, persistedCookie{URL: addr, Name: c.Name, Value: c.Value})
		}
	}
	data, err := json.Marshal(persisted)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(j.path, data, 0o600)
}
