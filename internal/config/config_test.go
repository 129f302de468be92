package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		Version:  1,
		Endpoint: EndpointConfig{URL: "http://localhost:8081/MigrateContent"},
	}
	Normalize(&cfg)
	return cfg
}

// TestParseConfigValid verifies a full config parses.
func TestParseConfigValid(t *testing.T) {
	cfg, err := ParseConfig([]byte(RenderScaffold("")))
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if cfg.Endpoint.URL != DefaultEndpointURL || len(cfg.Controls) != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.View.Tolerance() != 5 {
		t.Fatalf("expected tolerance 5, got %d", cfg.View.Tolerance())
	}
}

// TestParseConfigUnknownField verifies unknown fields are rejected.
func TestParseConfigUnknownField(t *testing.T) {
	data := []byte("version: 1\nendpoint:\n  url: http://x\n  retries: 3\n")
	if _, err := ParseConfig(data); err == nil {
		t.Fatalf("expected parse error for unknown field")
	}
}

// TestParseConfigRejectsMultipleDocs verifies multiple YAML docs are rejected.
func TestParseConfigRejectsMultipleDocs(t *testing.T) {
	data := []byte("version: 1\n---\nversion: 1\n")
	if _, err := ParseConfig(data); err == nil {
		t.Fatalf("expected parse error for multiple documents")
	}
}

// TestNormalizeFillsDefaults verifies defaults for omitted fields.
func TestNormalizeFillsDefaults(t *testing.T) {
	cfg := validConfig()
	if cfg.Poll.Fast().Milliseconds() != 1000 || cfg.Poll.Slow().Milliseconds() != 5000 {
		t.Fatalf("unexpected intervals: %+v", cfg.Poll)
	}
	if cfg.Endpoint.Timeout().Milliseconds() != DefaultTimeoutMs {
		t.Fatalf("unexpected timeout: %s", cfg.Endpoint.Timeout())
	}
	if cfg.View.UI != "auto" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected view/log defaults: %+v %+v", cfg.View, cfg.Log)
	}
	if len(cfg.Controls) != 2 || cfg.Controls[0].Role != "start" || cfg.Controls[1].Role != "abort" {
		t.Fatalf("unexpected default controls: %+v", cfg.Controls)
	}
}

// TestNormalizeKeepsExplicitEmptyControls verifies controls: [] disables the defaults.
func TestNormalizeKeepsExplicitEmptyControls(t *testing.T) {
	cfg, err := ParseConfig([]byte("version: 1\nendpoint:\n  url: http://x\ncontrols: []\nview:\n  scroll_tolerance: 0\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	Normalize(&cfg)
	if len(cfg.Controls) != 0 {
		t.Fatalf("expected no controls, got %+v", cfg.Controls)
	}
	if cfg.View.Tolerance() != 0 {
		t.Fatalf("expected explicit zero tolerance, got %d", cfg.View.Tolerance())
	}
}

// TestValidateIssues covers the field checks.
func TestValidateIssues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(cfg *Config)
		field  string
	}{
		{name: "missing version", mutate: func(cfg *Config) { cfg.Version = 0 }, field: "version"},
		{name: "missing url", mutate: func(cfg *Config) { cfg.Endpoint.URL = "" }, field: "endpoint.url"},
		{name: "bad scheme", mutate: func(cfg *Config) { cfg.Endpoint.URL = "ftp://host/x" }, field: "endpoint.url"},
		{name: "negative fast", mutate: func(cfg *Config) { cfg.Poll.FastMs = -1 }, field: "poll.fast_ms"},
		{name: "bad ui", mutate: func(cfg *Config) { cfg.View.UI = "fancy" }, field: "view.ui"},
		{name: "bad level", mutate: func(cfg *Config) { cfg.Log.Level = "trace" }, field: "log.level"},
		{name: "bad role", mutate: func(cfg *Config) { cfg.Controls[0].Role = "pause" }, field: "controls[0].role"},
		{name: "missing action", mutate: func(cfg *Config) { cfg.Controls[1].Action = "" }, field: "controls[1].action"},
		{name: "reserved key", mutate: func(cfg *Config) { cfg.Controls[0].Key = "q" }, field: "controls[0].key"},
		{name: "duplicate key", mutate: func(cfg *Config) { cfg.Controls[1].Key = "s" }, field: "controls[1].key"},
		{name: "duplicate name", mutate: func(cfg *Config) { cfg.Controls[1].Name = "start" }, field: "controls.name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := Validate(&cfg)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.field+":") {
				t.Fatalf("expected issue for %s, got %q", tc.field, err.Error())
			}
		})
	}
}

// TestValidateAcceptsDefaults verifies the normalized minimal config is valid.
func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

// TestScaffoldAndLoad verifies the scaffold round-trips through Load.
func TestScaffoldAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := Scaffold(path, "http://admin:8081/MigrateContent"); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	if err := Scaffold(path, ""); err == nil {
		t.Fatalf("expected scaffold to refuse overwrite")
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint.URL != "http://admin:8081/MigrateContent" {
		t.Fatalf("unexpected url %q", cfg.Endpoint.URL)
	}
}

// TestFindConfigPathSearchesParents verifies upward discovery.
func TestFindConfigPathSearchesParents(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ConfigFileName)
	if err := os.WriteFile(path, []byte(RenderScaffold("")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	found, err := FindConfigPath(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found != path {
		t.Fatalf("expected %q, got %q", path, found)
	}
}
