package golaunch

import (
	"context"
	"os"
	"path/filepath"

	"github.com/victoralfred/golaunch/config"
	"github.com/victoralfred/golaunch/env"
	"github.com/victoralfred/golaunch/hooks"
	"github.com/victoralfred/golaunch/launcher"
	"github.com/victoralfred/golaunch/observability"
	"github.com/victoralfred/golaunch/sdk"
)

// =============================================================================
// Core Types
// =============================================================================

// Launcher prepares and performs SDK tool launches.
type Launcher = launcher.Launcher

// Invocation is a fully prepared launch.
type Invocation = launcher.Invocation

// Layout describes a resolved SDK directory tree.
type Layout = sdk.Layout

// Environ is a process environment as a key/value mapping.
type Environ = env.Environ

// Config is the launcher configuration.
type Config = config.Config

// LaunchError provides structured error information for a failed launch.
type LaunchError = launcher.LaunchError

// =============================================================================
// Error Variables
// =============================================================================

// Common errors returned by the library.
var (
	// ErrNoArguments indicates an empty argument vector.
	ErrNoArguments = launcher.ErrNoArguments

	// ErrHookAborted indicates a pre-launch hook refused the invocation.
	ErrHookAborted = launcher.ErrHookAborted
)

// =============================================================================
// Factory Functions
// =============================================================================

// ResolveLayout locates the SDK containing the running executable.
func ResolveLayout() (*Layout, error) {
	return sdk.Resolve()
}

// NewLauncher creates a Launcher for an explicit layout and
// configuration, wiring audit hooks when the configuration enables them.
func NewLauncher(layout *Layout, cfg Config) (*Launcher, error) {
	opts := []launcher.Option{
		launcher.WithScrubVars(cfg.ScrubVars),
	}

	if cfg.Audit.Enabled {
		audit, err := observability.NewFileAuditLogger(cfg.Audit)
		if err != nil {
			return nil, err
		}

		registry := hooks.NewRegistry()
		if err := registry.Register(hooks.NewAuditHook(audit)); err != nil {
			return nil, err
		}
		opts = append(opts, launcher.WithHooks(registry))
	}

	return launcher.NewWithLayout(layout, opts...), nil
}

// =============================================================================
// Convenience Functions
// =============================================================================

// Launch is the whole launcher in one call: resolve the SDK from the
// running executable, honor an optional golaunch.yaml at the SDK base,
// and exec the toolchain binary matching os.Args[0]. It returns only
// on failure.
func Launch(ctx context.Context) error {
	layout, err := sdk.Resolve()
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if _, statErr := os.Stat(filepath.Join(layout.Base, config.DefaultFileName)); statErr == nil {
		cfg, err = config.Load(layout.Base, config.DefaultFileName)
		if err != nil {
			return err
		}

		// A config can rename SDK components; re-resolve with its names.
		layout, err = sdk.ResolveWith(layout.Base, cfg.GorootDir, cfg.GopathDir, cfg.DevAppserver)
		if err != nil {
			return err
		}
	}

	l, err := NewLauncher(layout, cfg)
	if err != nil {
		return err
	}

	return l.Launch(ctx, os.Args)
}

// =============================================================================
// Version Information
// =============================================================================

// Version returns the library version.
func Version() string {
	return "1.0.0"
}
