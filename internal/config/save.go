package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveRequested writes the effective config to the --save-config path.
// It returns the path written, or "" when the flag was not given.
func (c *Config) SaveRequested() (string, error) {
	path := *flagSaveConfig
	if path == "" {
		return "", nil
	}
	if err := c.SaveTo(path); err != nil {
		return "", fmt.Errorf("saving config to %s: %w", path, err)
	}
	return path, nil
}

// SaveTo writes the config to a specific path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
