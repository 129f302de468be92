package config

import "strings"

// Defaults applied by Normalize.
const (
	DefaultTimeoutMs       = 10000
	DefaultFastMs          = 1000
	DefaultSlowMs          = 5000
	DefaultUIMode          = "auto"
	DefaultScrollTolerance = 5
	DefaultLogLevel        = "info"
)

// DefaultControls are used when the file omits the controls key.
func DefaultControls() []ControlConfig {
	return []ControlConfig{
		{Name: "start", Label: "Start Migration", Action: "Start", Role: "start", Key: "s"},
		{Name: "abort", Label: "Abort Migration", Action: "Abort", Role: "abort", Key: "x"},
	}
}

// Normalize trims values and fills defaults.
func Normalize(cfg *Config) {
	cfg.Endpoint.URL = strings.TrimSpace(cfg.Endpoint.URL)
	if cfg.Endpoint.TimeoutMs == 0 {
		cfg.Endpoint.TimeoutMs = DefaultTimeoutMs
	}
	if cfg.Poll.FastMs == 0 {
		cfg.Poll.FastMs = DefaultFastMs
	}
	if cfg.Poll.SlowMs == 0 {
		cfg.Poll.SlowMs = DefaultSlowMs
	}
	cfg.View.UI = strings.ToLower(strings.TrimSpace(cfg.View.UI))
	if cfg.View.UI == "" {
		cfg.View.UI = DefaultUIMode
	}
	if cfg.View.ScrollTolerance == nil {
		tolerance := DefaultScrollTolerance
		cfg.View.ScrollTolerance = &tolerance
	}
	if cfg.Controls == nil {
		cfg.Controls = DefaultControls()
	}
	for i := range cfg.Controls {
		c := &cfg.Controls[i]
		c.Name = strings.TrimSpace(c.Name)
		c.Label = strings.TrimSpace(c.Label)
		c.Action = strings.TrimSpace(c.Action)
		c.Role = strings.ToLower(strings.TrimSpace(c.Role))
		c.Key = strings.TrimSpace(c.Key)
		if c.Label == "" {
			c.Label = c.Name
		}
		if c.Role == "" {
			c.Role = "other"
		}
	}
	cfg.Log.Path = strings.TrimSpace(cfg.Log.Path)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}
