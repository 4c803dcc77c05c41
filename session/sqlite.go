package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/etnz/maney"
	"github.com/etnz/maney/logging"
)

// SQLiteStore keeps the user under Key in a small key/value table.
type SQLiteStore struct {
	db        *sql.DB
	log       *logging.Logger
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the database at path and its schema.
func OpenSQLite(path string, log *logging.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = logging.Silent()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create session directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS storage (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	db.SetConnMaxLifetime(5 * time.Minute)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &SQLiteStore{
		db:        db,
		log:       log.Named("session.sqlite"),
		writeLock: new(sync.Mutex),
	}, nil
}

func (s *SQLiteStore) Save(u maney.User) error {
	data, err := encode(u)
	if err != nil {
		return err
	}
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	_, err = s.db.Exec(
		"INSERT INTO storage (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		Key,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Current() (maney.User, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM storage WHERE key = ?", Key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Debug().Err(err).Msg("session unreadable, treated as absent")
		}
		return maney.User{}, false
	}
	u, ok := decode([]byte(value))
	if !ok {
		s.log.Debug().Msg("session malformed, treated as absent")
	}
	return u, ok
}

func (s *SQLiteStore) Clear() error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	if _, err := s.db.Exec("DELETE FROM storage WHERE key = ?", Key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}
