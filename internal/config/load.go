package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
// Positional arguments are appended to the queue after the queue file.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := resolveQueue(cfg, Args()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./stlsort.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "stlsort")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "stlsort")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "stlsort")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "stlsort")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// A bindings section in the file replaces the default bindings instead of
// being merged into them.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	defaults := cfg.Session.Bindings
	cfg.Session.Bindings = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg.Session.Bindings = defaults
		return err
	}
	if cfg.Session.Bindings == nil {
		cfg.Session.Bindings = defaults
	}
	return nil
}

// resolveQueue appends the queue file entries and then args to the queue.
func resolveQueue(cfg *Config, args []string) error {
	if cfg.Session.QueueFile != "" {
		paths, err := ReadQueueFile(cfg.Session.QueueFile)
		if err != nil {
			return fmt.Errorf("reading queue file %s: %w", cfg.Session.QueueFile, err)
		}
		cfg.Session.Queue = append(cfg.Session.Queue, paths...)
	}
	cfg.Session.Queue = append(cfg.Session.Queue, args...)
	return nil
}

// ReadQueueFile reads one mesh path per line. Blank lines and lines starting
// with '#' are skipped.
func ReadQueueFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}
