// Package devserver supervises the Python SDK tools: the development
// application server and the deployment tool.
//
// Unlike the toolchain launch path, these sessions do not replace the
// process image. The supervisor spawns the Python tool, relays standard
// streams, swallows SIGINT while the child shuts itself down, and
// propagates the child's exit code.
package devserver

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	internalexec "github.com/victoralfred/golaunch/internal/exec"
	"github.com/victoralfred/golaunch/launcher"
	"github.com/victoralfred/golaunch/observability"
	"github.com/victoralfred/golaunch/sdk"
)

// AppcfgName is the deployment tool co-located with the dev appserver.
const AppcfgName = "appcfg.py"

// Supervisor runs Python SDK tools against a resolved SDK layout.
type Supervisor struct {
	layout    *sdk.Layout
	runner    *internalexec.Runner
	telemetry observability.Telemetry
	audit     observability.AuditLogger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logf   func(format string, args ...interface{})
	python []string
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithTelemetry sets the telemetry provider.
func WithTelemetry(t observability.Telemetry) Option {
	return func(s *Supervisor) {
		s.telemetry = t
	}
}

// WithAudit sets the audit logger.
func WithAudit(a observability.AuditLogger) Option {
	return func(s *Supervisor) {
		s.audit = a
	}
}

// WithStdio overrides the standard streams relayed to the child.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(s *Supervisor) {
		s.stdin = stdin
		s.stdout = stdout
		s.stderr = stderr
	}
}

// WithLogf sets the supervisor's status logger.
func WithLogf(logf func(format string, args ...interface{})) Option {
	return func(s *Supervisor) {
		s.logf = logf
	}
}

// WithPythonNames overrides the interpreter names searched on PATH.
func WithPythonNames(names ...string) Option {
	return func(s *Supervisor) {
		s.python = names
	}
}

// New creates a Supervisor for the given SDK layout.
func New(layout *sdk.Layout, opts ...Option) *Supervisor {
	s := &Supervisor{
		layout:    layout,
		runner:    internalexec.NewRunner(),
		telemetry: observability.NoopTelemetry(),
		audit:     observability.NoopAuditLogger(),
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		python:    []string{"python2.7", "python"},
	}
	s.logf = func(format string, args ...interface{}) {
		fmt.Fprintf(s.stderr, format+"\n", args...)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve runs the development application server with the given
// arguments and returns its exit code.
func (s *Supervisor) Serve(ctx context.Context, args []string) (int, error) {
	script, err := s.findDevAppserver()
	if err != nil {
		return 1, err
	}
	return s.run(ctx, script, args)
}

// Deploy uploads an application via the deployment tool co-located with
// the dev appserver and returns its exit code.
func (s *Supervisor) Deploy(ctx context.Context, args []string) (int, error) {
	script, err := s.findAppcfg()
	if err != nil {
		return 1, err
	}
	return s.run(ctx, script, append([]string{"update"}, args...))
}

// run spawns the Python tool and waits for it to finish.
func (s *Supervisor) run(ctx context.Context, script string, args []string) (int, error) {
	python, err := internalexec.LookPath(s.python...)
	if err != nil {
		return 1, fmt.Errorf("could not find python interpreter: %w", err)
	}

	toolName := filepath.Base(script)

	ctx, endSpan := s.telemetry.StartSpan(ctx, "devserver.run",
		observability.WithAttribute("tool", toolName))
	defer endSpan()

	// Swallow SIGINT. The tool will catch it and shut down cleanly.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer func() {
		signal.Stop(sig)
		close(sig)
	}()
	go func() {
		for range sig {
			s.logf("golaunch: caught SIGINT, waiting for %s to shut down", toolName)
		}
	}()

	start := time.Now()
	// The child stays in our process group so a terminal SIGINT reaches
	// it directly while we only log and wait.
	result, runErr := s.runner.Run(ctx, &internalexec.RunConfig{
		Binary:      python,
		Args:        append([]string{script}, args...),
		Stdin:       s.stdin,
		Stdout:      s.stdout,
		Stderr:      s.stderr,
		SysProcAttr: internalexec.SameProcessGroup(),
	})
	duration := time.Since(start)

	exitCode := 1
	if result != nil {
		exitCode = result.ExitCode
	}

	status := "finished"
	if runErr != nil {
		status = "error"
	}
	s.telemetry.RecordLaunch(toolName, status)
	s.telemetry.RecordSessionDuration(toolName, duration.Seconds())

	if err := s.audit.Log(ctx, observability.CreateDevServerEvent(
		uuid.New().String(), toolName, exitCode, duration, runErr)); err != nil {
		s.logf("golaunch: audit log failed: %v", err)
	}

	return exitCode, runErr
}

// findDevAppserver locates the dev appserver entry point. An explicit
// environment override wins over the SDK layout.
func (s *Supervisor) findDevAppserver() (string, error) {
	if p := os.Getenv(launcher.DevAppserverVar); p != "" {
		return p, nil
	}
	if s.layout != nil && s.layout.HasDevAppserver() {
		return s.layout.DevAppserver, nil
	}
	return "", fmt.Errorf("unable to find %s", sdk.DevAppserverName)
}

// findAppcfg locates the deployment tool next to the dev appserver.
func (s *Supervisor) findAppcfg() (string, error) {
	devAppserver, err := s.findDevAppserver()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(devAppserver), AppcfgName), nil
}
