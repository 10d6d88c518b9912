// Package storage holds the durable client-side key-value state of a console
// session: the bearer token, the cached profile and the selected tenant.
package storage

import "sync"

// Fixed keys shared by every Store implementation.
const (
	KeyAuthToken        = "authToken"
	KeyAuthUser         = "authUser"
	KeySelectedTenantID = "selectedTenantId"
	KeySelectedTenant   = "selectedTenant"

	// KeySessionChecked marks the token validated in the current browser
	// session. It is never persisted beyond that session.
	KeySessionChecked = "sessionChecked"
)

// Store is a string key-value store that survives reloads.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
