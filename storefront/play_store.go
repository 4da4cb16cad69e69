package storefront

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FilePlayStore is a PlayStore kept in a YAML file so the played state survives restarts.
type FilePlayStore struct {
	mu   sync.Mutex
	path string
}

var _ PlayStore = &FilePlayStore{}

// NewFilePlayStore creates a store at path. The file is created on first Set.
func NewFilePlayStore(path string) *FilePlayStore {
	return &FilePlayStore{path: path}
}

// DefaultPlayStorePath is the play-state file in the user's config directory.
func DefaultPlayStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "oiishi", "state.yaml"), nil
}

func (s *FilePlayStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

func (s *FilePlayStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode play state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create play state dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write play state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace play state: %w", err)
	}
	return nil
}

func (s *FilePlayStore) read() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read play state: %w", err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse play state: %w", err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}
