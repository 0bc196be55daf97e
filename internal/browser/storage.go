// Package browser provides the runtime capabilities the auth flows drive
// when running outside a browser: persistent key/value storage, a location
// that can be navigated, and alerts.
package browser

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// Storage is a persistent key/value store scoped to one origin. Values are
// kept as a JSON object in a single file.
type Storage struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

// NewStorage creates a Storage backed by the file at path on fs. The file is
// created on the first write.
func NewStorage(fs afero.Fs, path string) *Storage {
	return &Storage{fs: fs, path: path}
}

// OriginFile returns the file name used for the storage of base's origin,
// e.g. "http_localhost_8000.json".
func OriginFile(base *url.URL) string {
	return originName(base) + ".json"
}

func originName(base *url.URL) string {
	origin := base.Scheme + "_" + base.Host
	return strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(origin)
}

// Path returns the backing file path.
func (s *Storage) Path() string { return s.path }

// Save stores value under key, replacing any previous value.
func (s *Storage) Save(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	items[key] = value
	return s.write(items)
}

// Get returns the value stored under key.
func (s *Storage) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Storage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return s.write(items)
}

// Keys returns the stored keys in sorted order.
func (s *Storage) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Snapshot returns a copy of everything stored.
func (s *Storage) Snapshot() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Storage) load() (map[string]string, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage %s: %w", s.path, err)
	}

	items := map[string]string{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("storage %s is corrupt: %w", s.path, err)
	}
	return items, nil
}

func (s *Storage) write(items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}
	if err := writeFileAtomic(s.fs, s.path, data); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}
