package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/victoralfred/gowritter/safepath"

	"github.com/victoralfred/golaunch/launcher"
)

// AuditLogger records launch attempts. The launcher ceases to exist at
// exec, so events are written before process replacement.
type AuditLogger interface {
	// Log logs an audit event.
	Log(ctx context.Context, event *LaunchEvent) error

	// Close closes the audit logger.
	Close() error
}

// LaunchEventType represents the type of audit event.
type LaunchEventType string

const (
	// LaunchEventExec is a process-replacement launch.
	LaunchEventExec LaunchEventType = "exec"

	// LaunchEventDevServer is a supervised dev-server session.
	LaunchEventDevServer LaunchEventType = "dev_server"

	// LaunchEventError is a failed launch.
	LaunchEventError LaunchEventType = "error"
)

// LaunchEvent is an audit log entry for one launch attempt.
type LaunchEvent struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Type      LaunchEventType `json:"type"`
	Tool      string          `json:"tool"`
	Target    string          `json:"target,omitempty"`
	Args      []string        `json:"args"`
	Scrubbed  []string        `json:"scrubbed,omitempty"`
	Goroot    string          `json:"goroot,omitempty"`
	Status    string          `json:"status"`
	Error     string          `json:"error,omitempty"`
	ExitCode  int             `json:"exit_code,omitempty"`
	Duration  time.Duration   `json:"duration,omitempty"`
}

// AuditConfig configures the audit logger.
type AuditConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BasePath string `yaml:"base_path"`
	FilePath string `yaml:"file_path"`
}

// DefaultAuditConfig returns default audit configuration.
// Auditing is off by default: the launcher is silent unless an operator
// turns it on.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Enabled:  false,
		BasePath: "/var/log",
		FilePath: "golaunch/audit.log",
	}
}

// fileAuditLogger implements AuditLogger using gowritter.
type fileAuditLogger struct {
	safePath *safepath.SafePath
	config   AuditConfig
	mu       sync.Mutex
}

// NewFileAuditLogger creates a new file-based audit logger writing one
// JSON object per line.
func NewFileAuditLogger(config AuditConfig) (AuditLogger, error) {
	sp, err := safepath.New(config.BasePath)
	if err != nil {
		return nil, fmt.Errorf("creating safe path: %w", err)
	}

	return &fileAuditLogger{
		config:   config,
		safePath: sp,
	}, nil
}

// Log implements AuditLogger.Log.
func (l *fileAuditLogger) Log(ctx context.Context, event *LaunchEvent) error {
	if !l.config.Enabled {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling audit event: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.safePath.AppendFile(l.config.FilePath, data, 0o644); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}

	return nil
}

// Close implements AuditLogger.Close.
func (l *fileAuditLogger) Close() error {
	return nil
}

// CreateLaunchEvent creates an audit event from a prepared invocation.
func CreateLaunchEvent(inv *launcher.Invocation) *LaunchEvent {
	event := &LaunchEvent{
		ID:        inv.ID,
		Timestamp: time.Now(),
		Type:      LaunchEventExec,
		Tool:      inv.Tool,
		Target:    inv.Target,
		Args:      inv.Args,
		Scrubbed:  inv.Scrubbed,
		Status:    "exec",
	}
	if inv.Layout != nil {
		event.Goroot = inv.Layout.Goroot
	}
	return event
}

// CreateErrorEvent creates an audit event for a failed launch.
func CreateErrorEvent(inv *launcher.Invocation, launchErr error) *LaunchEvent {
	event := CreateLaunchEvent(inv)
	event.Type = LaunchEventError
	event.Status = "error"
	if launchErr != nil {
		event.Error = launchErr.Error()
	}
	return event
}

// CreateDevServerEvent creates an audit event for a finished dev-server
// session.
func CreateDevServerEvent(id, tool string, exitCode int, duration time.Duration, runErr error) *LaunchEvent {
	event := &LaunchEvent{
		ID:        id,
		Timestamp: time.Now(),
		Type:      LaunchEventDevServer,
		Tool:      tool,
		Status:    "finished",
		ExitCode:  exitCode,
		Duration:  duration,
	}
	if runErr != nil {
		event.Status = "error"
		event.Error = runErr.Error()
	}
	return event
}

// NoopAuditLogger returns a no-op audit logger.
func NoopAuditLogger() AuditLogger {
	return &noopAuditLogger{}
}

type noopAuditLogger struct{}

func (l *noopAuditLogger) Log(ctx context.Context, event *LaunchEvent) error { return nil }

func (l *noopAuditLogger) Close() error { return nil }
