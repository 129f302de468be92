package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// config describes the migsimd YAML configuration.
type config struct {
	Server struct {
		ListenAddr    string `yaml:"listen_addr"`
		OperationPath string `yaml:"operation_path"`
	} `yaml:"server"`
	Job struct {
		AUs       []string `yaml:"aus"`
		StepMs    int      `yaml:"step_ms"`
		FailEvery int      `yaml:"fail_every"`
		AutoStart bool     `yaml:"auto_start"`
	} `yaml:"job"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// loadConfig reads and validates the configuration file.
func loadConfig(path string) (config, error) {
	var cfg config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8081"
	}
	if cfg.Server.OperationPath == "" {
		cfg.Server.OperationPath = "/MigrateContent"
	}
	if !strings.HasPrefix(cfg.Server.OperationPath, "/") {
		return cfg, fmt.Errorf("server.operation_path must start with /")
	}
	if cfg.Job.StepMs == 0 {
		cfg.Job.StepMs = 1000
	}
	if cfg.Job.StepMs < 0 {
		return cfg, fmt.Errorf("job.step_ms must be > 0")
	}
	if cfg.Job.FailEvery < 0 {
		return cfg, fmt.Errorf("job.fail_every must be >= 0")
	}
	if len(cfg.Job.AUs) == 0 {
		return cfg, fmt.Errorf("job.aus is required")
	}
	return cfg, nil
}

// stepInterval converts millisecond config to a duration.
func stepInterval(cfg config) time.Duration {
	return time.Duration(cfg.Job.StepMs) * time.Millisecond
}
