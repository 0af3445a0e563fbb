package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const storeFilePerm = 0o600

// Store persists templates as a JSON array on disk. The file path is supplied
// by the caller so tests and alternate deployments choose their own location.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path and makes sure the
// file exists with an empty template list.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path cannot be empty")
	}
	s := &Store{path: path}
	if err := s.EnsureFile(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// EnsureFile creates the parent directory and an empty template file if
// either is missing.
func (s *Store) EnsureFile() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("cannot create template directory %s: %w", dir, err)
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := os.WriteFile(s.path, []byte("[]"), storeFilePerm); err != nil {
			return fmt.Errorf("cannot initialize template file %s: %w", s.path, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access template file %s: %w", s.path, err)
	}
	return nil
}

// Load reads all templates from disk. A malformed file is an error rather
// than an empty result so authoring mistakes surface instead of silently
// dropping every template.
func (s *Store) Load() ([]Template, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("cannot read template file %s: %w", s.path, err)
	}

	var templates []Template
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("invalid template JSON in %s: %w", s.path, err)
	}
	return templates, nil
}

// Save writes the full template set, replacing the previous contents. The
// write goes through a temp file and rename so a crash never leaves a
// half-written template file behind.
func (s *Store) Save(templates []Template) error {
	if templates == nil {
		templates = []Template{}
	}

	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode templates: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".templates-*.json")
	if err != nil {
		return fmt.Errorf("cannot create temp template file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("cannot write templates: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("cannot close temp template file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("cannot replace template file %s: %w", s.path, err)
	}
	return nil
}

// FindByName returns the first template with the given name.
func FindByName(templates []Template, name string) (*Template, bool) {
	for i := range templates {
		if templates[i].Name == name {
			return &templates[i], true
		}
	}
	return nil, false
}
