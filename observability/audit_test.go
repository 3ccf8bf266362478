package observability

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/victoralfred/golaunch/env"
	"github.com/victoralfred/golaunch/launcher"
	"github.com/victoralfred/golaunch/sdk"
)

func testInvocation(t *testing.T) *launcher.Invocation {
	t.Helper()

	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "goroot", "bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	layout, err := sdk.ResolveFrom(base)
	if err != nil {
		t.Fatal(err)
	}

	inv, err := launcher.NewWithLayout(layout).Prepare(
		[]string{"go", "build", "main.go"},
		env.Environ{"GOARCH": "arm"},
	)
	if err != nil {
		t.Fatal(err)
	}
	return inv
}

func TestCreateLaunchEvent(t *testing.T) {
	inv := testInvocation(t)

	event := CreateLaunchEvent(inv)

	if event.ID != inv.ID {
		t.Errorf("ID = %q, want invocation ID %q", event.ID, inv.ID)
	}
	if event.Type != LaunchEventExec {
		t.Errorf("Type = %q, want %q", event.Type, LaunchEventExec)
	}
	if event.Tool != "go" {
		t.Errorf("Tool = %q, want 'go'", event.Tool)
	}
	if event.Target != inv.Target {
		t.Errorf("Target = %q, want %q", event.Target, inv.Target)
	}
	if len(event.Scrubbed) != 1 || event.Scrubbed[0] != "GOARCH" {
		t.Errorf("Scrubbed = %v, want [GOARCH]", event.Scrubbed)
	}
	if event.Goroot != inv.Layout.Goroot {
		t.Errorf("Goroot = %q, want %q", event.Goroot, inv.Layout.Goroot)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestCreateErrorEvent(t *testing.T) {
	inv := testInvocation(t)

	event := CreateErrorEvent(inv, errors.New("no such file or directory"))

	if event.Type != LaunchEventError {
		t.Errorf("Type = %q, want %q", event.Type, LaunchEventError)
	}
	if event.Status != "error" {
		t.Errorf("Status = %q, want 'error'", event.Status)
	}
	if event.Error != "no such file or directory" {
		t.Errorf("Error = %q, want raw OS error text", event.Error)
	}
}

func TestCreateDevServerEvent(t *testing.T) {
	event := CreateDevServerEvent("abc-123", "dev_appserver.py", 2, 5*time.Second, nil)

	if event.Type != LaunchEventDevServer {
		t.Errorf("Type = %q, want %q", event.Type, LaunchEventDevServer)
	}
	if event.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", event.ExitCode)
	}
	if event.Status != "finished" {
		t.Errorf("Status = %q, want 'finished'", event.Status)
	}
}

func TestFileAuditLogger(t *testing.T) {
	base := t.TempDir()
	logger, err := NewFileAuditLogger(AuditConfig{
		Enabled:  true,
		BasePath: base,
		FilePath: "audit.log",
	})
	if err != nil {
		t.Fatalf("NewFileAuditLogger() error = %v", err)
	}
	defer logger.Close()

	inv := testInvocation(t)
	if err := logger.Log(context.Background(), CreateLaunchEvent(inv)); err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(base, "audit.log"))
	if err != nil {
		t.Fatalf("reading audit log: %v", err)
	}

	var event LaunchEvent
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("audit log line is not valid JSON: %v", err)
	}
	if event.Tool != "go" {
		t.Errorf("logged Tool = %q, want 'go'", event.Tool)
	}
}

func TestFileAuditLogger_Disabled(t *testing.T) {
	base := t.TempDir()
	logger, err := NewFileAuditLogger(AuditConfig{
		Enabled:  false,
		BasePath: base,
		FilePath: "audit.log",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := logger.Log(context.Background(), CreateLaunchEvent(testInvocation(t))); err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(base, "audit.log")); !os.IsNotExist(err) {
		t.Error("disabled logger should not create the audit file")
	}
}

func TestNoopAuditLogger(t *testing.T) {
	logger := NoopAuditLogger()

	if err := logger.Log(context.Background(), &LaunchEvent{}); err != nil {
		t.Errorf("Log() error = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
