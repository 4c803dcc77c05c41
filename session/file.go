package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/etnz/maney"
	"github.com/etnz/maney/logging"
)

// FileStore keeps the user in a single JSON file named after Key.
type FileStore struct {
	path string
	log  *logging.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store persisting into dir. The directory is created on
// the first Save.
func NewFileStore(dir string, log *logging.Logger) *FileStore {
	if log == nil {
		log = logging.Silent()
	}
	return &FileStore{
		path: filepath.Join(dir, Key+".json"),
		log:  log.Named("session.file"),
	}
}

// Path returns the file holding the user.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Save(u maney.User) error {
	data, err := encode(u)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("cannot create session directory: %w", err)
	}
	// write then rename, so that a crash never leaves a truncated session.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("cannot write session file %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("cannot replace session file %q: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Current() (maney.User, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Debug().Err(err).Str("path", s.path).Msg("session unreadable, treated as absent")
		}
		return maney.User{}, false
	}
	u, ok := decode(data)
	if !ok {
		s.log.Debug().Str("path", s.path).Msg("session malformed, treated as absent")
	}
	return u, ok
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot remove session file %q: %w", s.path, err)
	}
	return nil
}
