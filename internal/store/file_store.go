package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// document is the on-disk shape of a namespace: one JSON file holding the
// string entries and the map entries side by side.
type document struct {
	Strings map[string]string            `json:"strings"`
	Maps    map[string]map[string]string `json:"maps"`
}

// FileProvider is a file-backed Provider. Each namespace is persisted as a
// JSON document under DATA_DIR/store/<name>.json, loaded once when the
// namespace is first requested and written through on every mutation.
type FileProvider struct {
	baseDir string
	mu      sync.Mutex
	stores  map[string]*fileStore
}

// NewFileProvider creates a file-backed store provider rooted at baseDir.
func NewFileProvider(baseDir string) (*FileProvider, error) {
	storeDir := filepath.Join(baseDir, "store")
	if err := os.MkdirAll(storeDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return &FileProvider{
		baseDir: storeDir,
		stores:  make(map[string]*fileStore),
	}, nil
}

// DataStore returns the store for the given namespace, loading its document
// from disk on first use. A missing or unreadable document starts the
// namespace empty; the next write recreates it.
func (p *FileProvider) DataStore(name string) Store {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.stores[name]; ok {
		return s
	}

	s := &fileStore{
		path: filepath.Join(p.baseDir, name+".json"),
		doc: document{
			Strings: make(map[string]string),
			Maps:    make(map[string]map[string]string),
		},
	}
	s.load()
	p.stores[name] = s
	return s
}

// fileStore implements Store for a single namespace file.
type fileStore struct {
	path string
	mu   sync.RWMutex
	doc  document
}

// load reads the namespace document from disk if one exists.
func (s *fileStore) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return
	}
	if doc.Strings == nil {
		doc.Strings = make(map[string]string)
	}
	if doc.Maps == nil {
		doc.Maps = make(map[string]map[string]string)
	}
	s.doc = doc
}

// flush writes the namespace document back to disk. Caller holds the lock.
func (s *fileStore) flush() error {
	raw, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store document: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write store document: %w", err)
	}
	return nil
}

func (s *fileStore) GetString(key, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.doc.Strings[key]; ok {
		return v
	}
	return fallback
}

func (s *fileStore) SetString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Strings[key] = value
	return s.flush()
}

func (s *fileStore) GetMap(key string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.doc.Maps[key]
	if !ok {
		return nil
	}

	// Hand out a copy so callers cannot mutate the document behind the lock.
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *fileStore) SetMap(key string, value map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(map[string]string, len(value))
	for k, v := range value {
		stored[k] = v
	}
	s.doc.Maps[key] = stored
	return s.flush()
}

func (s *fileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, hadString := s.doc.Strings[key]
	_, hadMap := s.doc.Maps[key]
	if !hadString && !hadMap {
		return nil
	}

	delete(s.doc.Strings, key)
	delete(s.doc.Maps, key)
	return s.flush()
}

func (s *fileStore) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.doc.Strings[key]; ok {
		return true
	}
	_, ok := s.doc.Maps[key]
	return ok
}
