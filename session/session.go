// Package session holds the authenticated user between runs of the client.
//
// The store only keeps the user profile returned by the backend on login. The
// actual authentication lives in the server session cookie, which the store
// never sees.
package session

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/etnz/maney"
	"github.com/etnz/maney/logging"
)

// Key is the storage key holding the serialized user.
const Key = "user"

// Store is the capability to persist the session principal.
type Store interface {
	// Save persists u, overwriting any previous value.
	Save(u maney.User) error
	// Current returns the persisted user, if any. Missing or malformed data is
	// reported as absent.
	Current() (maney.User, bool)
	// Clear removes the persisted user.
	Clear() error
}

// encode serializes u the way every store persists it.
func encode(u maney.User) ([]byte, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("cannot encode user: %w", err)
	}
	return data, nil
}

// decode parses a persisted user. Anything that is not a user object is absent.
func decode(data []byte) (u maney.User, ok bool) {
	if len(data) == 0 {
		return maney.User{}, false
	}
	if err := json.Unmarshal(data, &u); err != nil {
		return maney.User{}, false
	}
	if u.IsZero() {
		return maney.User{}, false
	}
	return u, true
}

// Kinds of stores accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Open returns the store of the given kind, keeping its data in dir.
func Open(kind, dir string, log *logging.Logger) (Store, error) {
	switch kind {
	case "", KindFile:
		return NewFileStore(dir, log), nil
	case KindSQLite:
		s, err := OpenSQLite(filepath.Join(dir, "session.db"), log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session store %q, expecting one of %q, %q, %q", kind, KindFile, KindSQLite, KindMemory)
	}
}
