package session

import (
	"sync"

	"github.com/etnz/maney"
)

// MemoryStore keeps the serialized user in memory. It lasts as long as the
// process, like a browser tab without storage.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Save(u maney.User) error {
	data, err := encode(u)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *MemoryStore) Current() (maney.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decode(s.data)
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

// SetRaw overwrites the stored bytes as is.
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}
