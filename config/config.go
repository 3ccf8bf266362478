// Package config provides configuration management for golaunch.
//
// The launcher is fully functional with DefaultConfig; a YAML file at
// the SDK base is an operator convenience for renaming SDK components,
// widening the scrub set, or enabling audit and telemetry.
package config

import (
	"errors"
	"fmt"

	"github.com/victoralfred/gowritter/safepath"
	"gopkg.in/yaml.v3"

	"github.com/victoralfred/golaunch/env"
	"github.com/victoralfred/golaunch/observability"
)

// DefaultFileName is the config file the launcher looks for at the SDK
// base directory.
const DefaultFileName = "golaunch.yaml"

// Config is the main configuration for golaunch.
type Config struct {
	// GorootDir is the toolchain directory name relative to the SDK base.
	GorootDir string `yaml:"goroot_dir"`

	// GopathDir is the default workspace directory name relative to the
	// SDK base.
	GopathDir string `yaml:"gopath_dir"`

	// DevAppserver is the development server entry point relative to the
	// SDK base.
	DevAppserver string `yaml:"dev_appserver"`

	// ScrubVars are environment variables removed before exec.
	ScrubVars []string `yaml:"scrub_vars"`

	// Audit configures launch audit logging.
	Audit observability.AuditConfig `yaml:"audit"`

	// Telemetry configures tracing and metrics.
	Telemetry observability.TelemetryConfig `yaml:"telemetry"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		GorootDir:    "goroot",
		GopathDir:    "gopath",
		DevAppserver: "dev_appserver.py",
		ScrubVars:    []string{"GOARCH", "GOBIN", "GOOS"},
		Audit:        observability.DefaultAuditConfig(),
		Telemetry:    observability.DefaultTelemetryConfig(),
	}
}

// Load reads a YAML configuration file. Fields left empty in the file
// fall back to their defaults.
func Load(basePath, file string) (Config, error) {
	sp, err := safepath.New(basePath)
	if err != nil {
		return Config{}, fmt.Errorf("creating safe path: %w", err)
	}

	data, err := sp.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate normalizes the configuration, restoring defaults for empty
// fields and rejecting malformed scrub keys.
func (c *Config) Validate() error {
	defaults := DefaultConfig()

	if c.GorootDir == "" {
		c.GorootDir = defaults.GorootDir
	}
	if c.GopathDir == "" {
		c.GopathDir = defaults.GopathDir
	}
	if c.DevAppserver == "" {
		c.DevAppserver = defaults.DevAppserver
	}
	if c.ScrubVars == nil {
		c.ScrubVars = defaults.ScrubVars
	}

	for _, key := range c.ScrubVars {
		if !env.IsValidKey(key) {
			return fmt.Errorf("invalid scrub variable name %q", key)
		}
		// Scrubbing GOROOT would undo the launcher's own contract.
		if key == "GOROOT" {
			return errors.New("GOROOT cannot be scrubbed")
		}
	}

	if c.Audit.Enabled {
		if c.Audit.BasePath == "" || c.Audit.FilePath == "" {
			return errors.New("audit enabled but base_path or file_path missing")
		}
	}

	return nil
}
