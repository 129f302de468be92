package config

import "time"

// Config is the parsed .migwatch.yml file.
type Config struct {
	Version  int             `yaml:"version"`
	Endpoint EndpointConfig  `yaml:"endpoint"`
	Poll     PollConfig      `yaml:"poll"`
	View     ViewConfig      `yaml:"view"`
	Controls []ControlConfig `yaml:"controls"`
	Log      LogConfig       `yaml:"log"`
}

// EndpointConfig locates the operation being watched.
type EndpointConfig struct {
	URL       string `yaml:"url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// PollConfig sets the poll intervals.
type PollConfig struct {
	FastMs int `yaml:"fast_ms"`
	SlowMs int `yaml:"slow_ms"`
}

// ViewConfig configures the renderer.
type ViewConfig struct {
	UI              string `yaml:"ui"`
	NoColor         bool   `yaml:"no_color"`
	ScrollTolerance *int   `yaml:"scroll_tolerance"`
}

// ControlConfig declares one operator control.
type ControlConfig struct {
	Name   string `yaml:"name"`
	Label  string `yaml:"label"`
	Action string `yaml:"action"`
	Role   string `yaml:"role"`
	Key    string `yaml:"key"`
}

// LogConfig configures the session log file.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// Timeout returns the request timeout.
func (c EndpointConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Fast returns the interval used while the job runs.
func (c PollConfig) Fast() time.Duration {
	return time.Duration(c.FastMs) * time.Millisecond
}

// Slow returns the interval used while the job is idle or unreachable.
func (c PollConfig) Slow() time.Duration {
	return time.Duration(c.SlowMs) * time.Millisecond
}

// Tolerance returns the scroll tolerance, or the default when unset.
func (c ViewConfig) Tolerance() int {
	if c.ScrollTolerance == nil {
		return DefaultScrollTolerance
	}
	return *c.ScrollTolerance
}
