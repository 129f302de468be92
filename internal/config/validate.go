package config

import (
	"fmt"
	"net/url"
	"strings"

	"migwatch/internal/poll"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// issueCollector accumulates validation issues.
type issueCollector struct {
	issues []Issue
}

// add records a new validation issue.
func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

// result returns a ValidationError when issues are present.
func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// reservedKeys are bound to navigation in the live UI.
var reservedKeys = map[string]struct{}{
	"q": {}, "?": {}, "g": {}, "G": {}, "j": {}, "k": {}, "b": {}, "f": {},
	"u": {}, "d": {}, "h": {}, "l": {}, " ": {}, "up": {}, "down": {},
	"pgup": {}, "pgdown": {}, "home": {}, "end": {}, "ctrl+c": {},
}

// Validate checks a normalized config for correctness.
func Validate(cfg *Config) error {
	var c issueCollector

	if cfg.Version == 0 {
		c.add("version", "is required")
	} else if cfg.Version != 1 {
		c.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	validateEndpoint(&c, cfg.Endpoint)

	if cfg.Poll.FastMs <= 0 {
		c.add("poll.fast_ms", "must be > 0")
	}
	if cfg.Poll.SlowMs <= 0 {
		c.add("poll.slow_ms", "must be > 0")
	}

	switch cfg.View.UI {
	case "auto", "live", "plain":
	default:
		c.add("view.ui", fmt.Sprintf("invalid mode %q (expected auto|live|plain)", cfg.View.UI))
	}
	if cfg.View.ScrollTolerance != nil && *cfg.View.ScrollTolerance < 0 {
		c.add("view.scroll_tolerance", "must be >= 0")
	}

	validateControls(&c, cfg.Controls)

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		c.add("log.level", fmt.Sprintf("invalid level %q (expected debug|info|warn|error)", cfg.Log.Level))
	}
	return c.result()
}

func validateEndpoint(c *issueCollector, endpoint EndpointConfig) {
	if endpoint.URL == "" {
		c.add("endpoint.url", "is required")
	} else if parsed, err := url.Parse(endpoint.URL); err != nil {
		c.add("endpoint.url", fmt.Sprintf("invalid url: %v", err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		c.add("endpoint.url", fmt.Sprintf("unsupported scheme %q (expected http|https)", parsed.Scheme))
	} else if parsed.Host == "" {
		c.add("endpoint.url", "host is required")
	}
	if endpoint.TimeoutMs < 0 {
		c.add("endpoint.timeout_ms", "must be >= 0")
	}
}

func validateControls(c *issueCollector, controls []ControlConfig) {
	names := map[string]struct{}{}
	keys := map[string]string{}
	for i, control := range controls {
		prefix := fmt.Sprintf("controls[%d]", i)
		if control.Name == "" {
			c.add(prefix+".name", "is required")
		} else if _, exists := names[control.Name]; exists {
			c.add("controls.name", fmt.Sprintf("duplicate name %q", control.Name))
		} else {
			names[control.Name] = struct{}{}
		}
		if control.Action == "" {
			c.add(prefix+".action", "is required")
		}
		if _, err := poll.ParseRole(control.Role); err != nil {
			c.add(prefix+".role", err.Error())
		}
		if control.Key == "" {
			continue
		}
		if _, reserved := reservedKeys[control.Key]; reserved {
			c.add(prefix+".key", fmt.Sprintf("key %q is reserved for navigation", control.Key))
		} else if other, exists := keys[control.Key]; exists {
			c.add(prefix+".key", fmt.Sprintf("key %q already used by %q", control.Key, other))
		} else {
			keys[control.Key] = control.Name
		}
	}
}
