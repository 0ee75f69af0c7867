package memory

import (
	"context"
	"sort"
	"sync"
)

// KVStore keeps scoreboard state in process memory. Used for tests and for
// STORAGE_DRIVER=memory.
type KVStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewKVStore(seed map[string]string) *KVStore {
	values := make(map[string]string, len(seed))
	for key, value := range seed {
		values[key] = value
	}

	return &KVStore{values: values}
}

func (s *KVStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok, nil
}

func (s *KVStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

func (s *KVStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.values))
	for key := range s.values {
		out = append(out, key)
	}
	sort.Strings(out)

	return out, nil
}
