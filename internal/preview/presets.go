package preview

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"slider/internal/config"
	"slider/marquee"
)

var (
	errPresetNotFound = errors.New("preset not found")
	errPresetName     = errors.New("invalid preset name")
)

// presetStore resolves preset names to property files under dir. Files are
// read once and kept for the life of the server.
type presetStore struct {
	dir   string
	mu    sync.RWMutex
	cache map[string]marquee.Properties
}

func newPresetStore(dir string) *presetStore {
	return &presetStore{
		dir:   dir,
		cache: make(map[string]marquee.Properties),
	}
}

func validPresetName(name string) bool {
	if name == "" || len(name) > 64 {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func (s *presetStore) Find(name string) (marquee.Properties, error) {
	if !validPresetName(name) {
		return nil, errPresetName
	}
	s.mu.RLock()
	if props, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return props, nil
	}
	s.mu.RUnlock()

	props, err := s.load(name)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cache[name] = props
	s.mu.Unlock()
	return props, nil
}

func (s *presetStore) load(name string) (marquee.Properties, error) {
	if s.dir == "" {
		return nil, errPresetNotFound
	}
	for _, ext := range config.Extensions {
		path := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return config.LoadProperties(path)
	}
	return nil, errPresetNotFound
}

// Names lists the presets available in dir, sorted.
func (s *presetStore) Names() ([]string, error) {
	if s.dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	seen := map[string]struct{}{}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		known := false
		for _, x := range config.Extensions {
			if ext == x {
				known = true
				break
			}
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if !known || !validPresetName(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
