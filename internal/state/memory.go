package state

import (
	"context"
	"sync"
)

// MemorySelectionStore keeps selections in process, encoded the same way
// as the Redis store
type MemorySelectionStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemorySelectionStore() *MemorySelectionStore {
	return &MemorySelectionStore{entries: make(map[string][]byte)}
}

func (s *MemorySelectionStore) LoadSelection(ctx context.Context, visitorID string) ([]string, error) {
	s.mu.RLock()
	raw, ok := s.entries[visitorID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decodeNames(raw)
}

func (s *MemorySelectionStore) SaveSelection(ctx context.Context, visitorID string, names []string) error {
	raw, err := encodeNames(names)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.entries[visitorID] = raw
	s.mu.Unlock()
	return nil
}

// SetRaw stores a raw value, bypassing encoding
func (s *MemorySelectionStore) SetRaw(visitorID string, raw []byte) {
	s.mu.Lock()
	s.entries[visitorID] = raw
	s.mu.Unlock()
}

// Raw returns the stored value as written
func (s *MemorySelectionStore) Raw(visitorID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.entries[visitorID]
	return raw, ok
}
