package store

import "sync"

// MemoryProvider is an in-memory Provider. Nothing survives a restart; it
// exists for tests and for running with STORE_BACKEND=memory.
type MemoryProvider struct {
	mu     sync.Mutex
	stores map[string]*memoryStore
}

// NewMemoryProvider creates an empty in-memory store provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		stores: make(map[string]*memoryStore),
	}
}

// DataStore returns the store for the given namespace, creating it on first use.
func (p *MemoryProvider) DataStore(name string) Store {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.stores[name]; ok {
		return s
	}

	s := &memoryStore{
		strings: make(map[string]string),
		maps:    make(map[string]map[string]string),
	}
	p.stores[name] = s
	return s
}

// memoryStore implements Store over two plain maps behind an RWMutex.
type memoryStore struct {
	mu      sync.RWMutex
	strings map[string]string
	maps    map[string]map[string]string
}

func (s *memoryStore) GetString(key, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.strings[key]; ok {
		return v
	}
	return fallback
}

func (s *memoryStore) SetString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.strings[key] = value
	return nil
}

func (s *memoryStore) GetMap(key string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.maps[key]
	if !ok {
		return nil
	}

	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memoryStore) SetMap(key string, value map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(map[string]string, len(value))
	for k, v := range value {
		stored[k] = v
	}
	s.maps[key] = stored
	return nil
}

func (s *memoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.strings, key)
	delete(s.maps, key)
	return nil
}

func (s *memoryStore) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.strings[key]; ok {
		return true
	}
	_, ok := s.maps[key]
	return ok
}
