package platform

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/memoria/pkg/core"
)

// ConfigCandidates are probed, in order, relative to the project root.
var ConfigCandidates = []string{
	filepath.Join("config", "config.yaml"),
	filepath.Join("config", "config.yml"),
	filepath.Join("config", "config.json"),
}

// FindConfig returns the first configuration file under root, or "".
func FindConfig(root string) string {
	for _, c := range ConfigCandidates {
		path := filepath.Join(root, c)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadConfig reads the configuration at path and merges it over the defaults.
// An empty path or a missing file yields the defaults. A file that cannot be
// parsed also yields the defaults, together with an error wrapping core.ErrConfigLoad.
func LoadConfig(path string, logger *slog.Logger) (core.Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := core.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return core.DefaultConfig(), fmt.Errorf("%w: %v", core.ErrConfigLoad, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if data, err = jsonToYAML(data); err != nil {
			return core.DefaultConfig(), fmt.Errorf("%w: %s: %v", core.ErrConfigLoad, path, err)
		}
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return core.DefaultConfig(), fmt.Errorf("%w: %s: %v", core.ErrConfigLoad, path, err)
	}

	for _, issue := range cfg.Normalize() {
		logger.Warn("config value replaced", "path", path, "issue", issue)
	}
	return cfg, nil
}

// jsonToYAML re-encodes a JSON document so the YAML decoder sees no tabs.
func jsonToYAML(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

// SaveConfig writes cfg as YAML, including unknown sections kept from loading.
func SaveConfig(path string, cfg core.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
