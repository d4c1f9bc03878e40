package settings

import (
	"fmt"

	cmap "github.com/orcaman/concurrent-map/v2"
)

const (
	BackendBolt   = "bolt"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Settings is a string key/value store used to persist control and sensor state across restarts.
// Implementations never fail towards the caller: read errors yield the default value,
// write errors are logged.
type Settings interface {
	// GetValue returns the value stored for key, or defaultValue if there is none
	GetValue(key string, defaultValue string) string
	SetValue(key string, value string)
	Contains(key string) bool
	Remove(key string)
}

// NewSettings creates the settings store for the given backend type
func NewSettings(backend string, path string) (Settings, error) {
	switch backend {
	case BackendBolt:
		s := NewBoltSettings(path)
		return s, s.Init()
	case BackendFile:
		s := NewFileSettings(path)
		return s, s.Load()
	case BackendMemory:
		return NewMemorySettings(), nil
	}
	return nil, fmt.Errorf("unknown settings backend: %s", backend)
}

// MemorySettings keeps all values in memory only
type MemorySettings struct {
	values cmap.ConcurrentMap[string, string]
}

func NewMemorySettings() *MemorySettings {
	return &MemorySettings{
		values: cmap.New[string](),
	}
}

func (s *MemorySettings) GetValue(key string, defaultValue string) string {
	value, ok := s.values.Get(key)
	if !ok {
		return defaultValue
	}
	return value
}

func (s *MemorySettings) SetValue(key string, value string) {
	s.values.Set(key, value)
}

func (s *MemorySettings) Contains(key string) bool {
	return s.values.Has(key)
}

func (s *MemorySettings) Remove(key string) {
	s.values.Remove(key)
}

// Items returns a snapshot of all stored values
func (s *MemorySettings) Items() map[string]string {
	return s.values.Items()
}
