package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/markusressel/adl2go/internal/ui"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// FileSettings keeps all values in memory and writes them to a yaml file on every change.
// The file is replaced atomically, so a crash never leaves a truncated settings file behind.
type FileSettings struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

func NewFileSettings(path string) *FileSettings {
	return &FileSettings{
		path:   path,
		values: map[string]string{},
	}
}

// Load reads the settings file, a missing file is treated as empty
func (s *FileSettings) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("unable to parse settings file %s: %w", s.path, err)
	}
	// an empty or null document decodes into a nil map
	if values == nil {
		values = map[string]string{}
	}
	s.values = values
	return nil
}

func (s *FileSettings) GetValue(key string, defaultValue string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[key]
	if !ok {
		return defaultValue
	}
	return value
}

func (s *FileSettings) SetValue(key string, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.values[key]; ok && current == value {
		return
	}
	s.values[key] = value
	s.save()
}

func (s *FileSettings) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.values[key]
	return ok
}

func (s *FileSettings) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.save()
}

// save writes all values to disk, the caller must hold the lock
func (s *FileSettings) save() {
	data, err := yaml.Marshal(s.values)
	if err != nil {
		ui.Warning("Unable to serialize settings: %v", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		ui.Warning("Unable to create settings directory: %v", err)
		return
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		ui.Warning("Unable to write settings file %s: %v", s.path, err)
	}
}
