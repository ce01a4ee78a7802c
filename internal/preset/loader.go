package preset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charlievieth/fastwalk"
	"github.com/goccy/go-yaml"

	"github.com/coreway/termwatch/internal/model"
)

// LoadDir walks dir for *.yaml/*.yml files, each holding one
// model.PresetConfig, and returns them keyed by PresetConfig.Name.
// A preset file with a name also present in Builtins overrides it.
func LoadDir(ctx context.Context, dir string) (map[string]model.PresetConfig, error) {
	out := make(map[string]model.PresetConfig)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		cfg, loadErr := LoadFile(p)
		if loadErr != nil {
			return fmt.Errorf("preset: %s: %w", p, loadErr)
		}
		out[cfg.Name] = cfg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadFile parses a single preset YAML file.
func LoadFile(path string) (model.PresetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.PresetConfig{}, err
	}

	var cfg model.PresetConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.PresetConfig{}, fmt.Errorf("invalid preset yaml: %w", err)
	}
	if cfg.Name == "" {
		return model.PresetConfig{}, fmt.Errorf("preset yaml missing required name field")
	}
	return cfg, nil
}
