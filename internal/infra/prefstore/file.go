// Package prefstore persists user display preferences in a YAML file.
package prefstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"ressourcefy/internal/usecase/theme"
)

// document is the on-disk layout.
type document struct {
	Theme     string    `yaml:"theme"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// FileStore implements theme.Persister on top of a YAML file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore writing to path. The file is created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the stored preference. A missing file reports ok=false without error.
func (f *FileStore) Load() (theme.Preference, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// #nosec G304 -- path comes from operator configuration (THEME_STATE_FILE)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return theme.Preference{}, false, nil
	}
	if err != nil {
		return theme.Preference{}, false, fmt.Errorf("read preference file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return theme.Preference{}, false, fmt.Errorf("parse preference file %s: %w", f.path, err)
	}
	if doc.Theme == "" {
		return theme.Preference{}, false, nil
	}
	mode, err := theme.ParseMode(doc.Theme)
	if err != nil {
		return theme.Preference{}, false, fmt.Errorf("preference file %s: %w", f.path, err)
	}
	return theme.Preference{Mode: mode, UpdatedAt: doc.UpdatedAt}, true, nil
}

// Save writes pref atomically (temporary file then rename).
func (f *FileStore) Save(pref theme.Preference) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := yaml.Marshal(document{Theme: string(pref.Mode), UpdatedAt: pref.UpdatedAt.UTC()})
	if err != nil {
		return fmt.Errorf("encode preference: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create preference directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".theme-*.yaml")
	if err != nil {
		return fmt.Errorf("create temporary preference file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write preference file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close preference file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace preference file: %w", err)
	}
	return nil
}
