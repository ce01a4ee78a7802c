package preset

import (
	"context"
	"sync"

	"github.com/coreway/termwatch/internal/model"
)

// Library is a thread-safe lookup of named presets, seeded from
// Builtins and optionally overlaid with YAML files loaded from disk.
type Library struct {
	mu      sync.RWMutex
	presets map[string]model.PresetConfig
}

// NewLibrary returns a Library seeded with the built-in presets.
func NewLibrary() *Library {
	l := &Library{presets: make(map[string]model.PresetConfig, len(Builtins))}
	for name, cfg := range Builtins {
		l.presets[name] = cfg
	}
	return l
}

// LoadDir overlays every preset found under dir onto the library,
// overriding any built-in of the same name.
func (l *Library) LoadDir(ctx context.Context, dir string) error {
	loaded, err := LoadDir(ctx, dir)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for name, cfg := range loaded {
		l.presets[name] = cfg
	}
	return nil
}

// Get returns the named preset.
func (l *Library) Get(name string) (model.PresetConfig, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cfg, ok := l.presets[name]
	return cfg, ok
}

// Names returns every registered preset name.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.presets))
	for name := range l.presets {
		out = append(out, name)
	}
	return out
}
