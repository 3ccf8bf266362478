// Package exec provides the internal process primitives for the launcher.
// This is the ONLY package in the entire library that imports os/exec or
// replaces the process image. All process invocation MUST go through
// this package.
package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"
	"time"
)

// Runner spawns a child process and waits for it to finish.
// It serves the dev-server supervision paths, where the launcher stays
// alive to relay signals and propagate the exit code. Process
// replacement goes through Replace instead.
type Runner struct{}

// NewRunner creates a new process runner.
func NewRunner() *Runner {
	return &Runner{}
}

// RunConfig contains configuration for running a child process.
type RunConfig struct {
	// Binary is the absolute path to the executable.
	Binary string

	// Args are the command arguments (excluding the binary name).
	Args []string

	// Env is the environment in "KEY=value" form. If nil, the child
	// inherits the parent environment.
	Env []string

	// WorkingDir is the working directory.
	WorkingDir string

	// Stdin provides input to the child.
	Stdin io.Reader

	// Stdout receives standard output.
	Stdout io.Writer

	// Stderr receives standard error.
	Stderr io.Writer

	// SysProcAttr contains OS-specific process attributes.
	SysProcAttr *syscall.SysProcAttr
}

// RunResult contains the result of a finished child process.
type RunResult struct {
	// ExitCode is the process exit code.
	ExitCode int

	// Signal is the signal that terminated the process, if any.
	Signal syscall.Signal

	// Duration is the wall clock time of the run.
	Duration time.Duration

	// Pid is the child process ID.
	Pid int
}

// Run spawns a child process and waits for it to exit.
// Cancellation of ctx kills the child. A nonzero exit is reported
// through RunResult.ExitCode, not as an error.
func (r *Runner) Run(ctx context.Context, config *RunConfig) (*RunResult, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// G204: Binary and Args are resolved from the SDK layout and checked
	// before reaching this point. CommandContext with separate binary/args
	// (not shell execution) prevents command injection.
	// #nosec G204 -- Binary path and arguments are validated upstream
	cmd := exec.CommandContext(ctx, config.Binary, config.Args...)

	if config.Env != nil {
		cmd.Env = config.Env
	}

	if config.WorkingDir != "" {
		cmd.Dir = config.WorkingDir
	}

	cmd.Stdin = config.Stdin
	cmd.Stdout = config.Stdout
	cmd.Stderr = config.Stderr

	if config.SysProcAttr != nil {
		cmd.SysProcAttr = config.SysProcAttr
	} else {
		cmd.SysProcAttr = defaultSysProcAttr()
	}

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := &RunResult{
		Duration: duration,
	}

	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
		result.Pid = cmd.ProcessState.Pid()

		if sig, ok := extractSignal(cmd.ProcessState.Sys()); ok {
			result.Signal = sig
		}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, nil
		}
		return result, fmt.Errorf("running %s: %w", config.Binary, err)
	}

	return result, nil
}

// SameProcessGroup returns process attributes that keep the child in the
// caller's process group, so terminal-generated signals reach the child
// directly.
func SameProcessGroup() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{}
}

// LookPath searches PATH for the first of the given names that resolves
// to an executable.
func LookPath(names ...string) (string, error) {
	err := fmt.Errorf("no candidate names given")
	for _, name := range names {
		path, lookErr := exec.LookPath(name)
		if lookErr == nil {
			return path, nil
		}
		err = lookErr
	}
	return "", err
}
