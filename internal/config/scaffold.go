package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// DefaultEndpointURL is written by Scaffold when no URL is given.
const DefaultEndpointURL = "http://localhost:8081/MigrateContent"

const scaffoldTemplate = `version: 1
endpoint:
  url: %s
  timeout_ms: 10000
poll:
  fast_ms: 1000
  slow_ms: 5000
view:
  ui: auto
  no_color: false
  scroll_tolerance: 5
controls:
  - name: start
    label: "Start Migration"
    action: "Start"
    role: start
    key: s
  - name: abort
    label: "Abort Migration"
    action: "Abort"
    role: abort
    key: x
log:
  path: ""
  level: info
`

// RenderScaffold returns the default config for an endpoint URL.
func RenderScaffold(endpointURL string) string {
	if endpointURL == "" {
		endpointURL = DefaultEndpointURL
	}
	return fmt.Sprintf(scaffoldTemplate, strconv.Quote(endpointURL))
}

// Scaffold writes a default config file. It refuses to overwrite.
func Scaffold(path, endpointURL string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %q", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(RenderScaffold(endpointURL)), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
