package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"migwatch/internal/config"
)

// resolveConfigPath normalizes a config path or finds it from CWD.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		return config.FindConfigPath("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// loadSessionConfig loads the config file, or builds a default one when only
// a URL is given, then applies the URL override.
func loadSessionConfig(configPath, urlOverride string) (config.Config, error) {
	urlOverride = strings.TrimSpace(urlOverride)
	var cfg config.Config
	path, err := resolveConfigPath(configPath)
	switch {
	case err == nil:
		parsed, parseErr := loadRaw(path)
		if parseErr != nil {
			return config.Config{}, parseErr
		}
		cfg = parsed
	case strings.TrimSpace(configPath) == "" && urlOverride != "":
		cfg = config.Config{Version: 1}
	default:
		return config.Config{}, err
	}
	if urlOverride != "" {
		cfg.Endpoint.URL = urlOverride
	}
	config.Normalize(&cfg)
	if err := config.Validate(&cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadRaw parses a config file without validating it, so overrides can fill gaps.
func loadRaw(path string) (config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("read config: %w", err)
	}
	return config.ParseConfig(data)
}
