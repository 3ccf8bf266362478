package launcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/victoralfred/golaunch/env"
	"github.com/victoralfred/golaunch/sdk"
)

// newLayout builds a minimal SDK tree and resolves it.
func newLayout(t *testing.T, withDevAppserver bool) *sdk.Layout {
	t.Helper()

	base := t.TempDir()
	binDir := filepath.Join(base, "goroot", "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(binDir, "go"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if withDevAppserver {
		if err := os.WriteFile(filepath.Join(base, "dev_appserver.py"), []byte("#!/usr/bin/env python\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	layout, err := sdk.ResolveFrom(base)
	if err != nil {
		t.Fatal(err)
	}
	return layout
}

func TestPrepare_TargetResolution(t *testing.T) {
	layout := newLayout(t, false)
	l := NewWithLayout(layout)

	inv, err := l.Prepare([]string{"/some/where/go", "build", "main.go"}, env.Environ{})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if inv.Tool != "go" {
		t.Errorf("Tool = %q, want 'go'", inv.Tool)
	}

	want := filepath.Join(layout.BinDir, "go")
	if inv.Target != want {
		t.Errorf("Target = %q, want %q", inv.Target, want)
	}

	if inv.ID == "" {
		t.Error("Invocation ID should be set")
	}
}

func TestPrepare_ArgsForwardedUnchanged(t *testing.T) {
	l := NewWithLayout(newLayout(t, false))

	argv := []string{"go", "build", "-o", "out", "main.go"}
	inv, err := l.Prepare(argv, env.Environ{})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if !reflect.DeepEqual(inv.Args, argv) {
		t.Errorf("Args = %v, want %v", inv.Args, argv)
	}

	// The invocation must carry its own copy.
	argv[1] = "test"
	if inv.Args[1] != "build" {
		t.Error("Args should be independent of the caller's slice")
	}
}

func TestPrepare_EnvironmentMutation(t *testing.T) {
	layout := newLayout(t, false)
	l := NewWithLayout(layout)

	environ := env.Environ{
		"GOARCH": "arm",
		"GOBIN":  "/usr/local/go/bin",
		"GOOS":   "plan9",
		"GOROOT": "/usr/local/go",
		"PATH":   "/usr/bin",
	}

	inv, err := l.Prepare([]string{"go"}, environ)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	for _, key := range []string{"GOARCH", "GOBIN", "GOOS"} {
		if inv.Env.Has(key) {
			t.Errorf("%s should be scrubbed", key)
		}
	}

	if !reflect.DeepEqual(inv.Scrubbed, []string{"GOARCH", "GOBIN", "GOOS"}) {
		t.Errorf("Scrubbed = %v, want [GOARCH GOBIN GOOS]", inv.Scrubbed)
	}

	// GOROOT always points at the bundled toolchain, prior value ignored.
	if inv.Env.Get("GOROOT") != layout.Goroot {
		t.Errorf("GOROOT = %q, want %q", inv.Env.Get("GOROOT"), layout.Goroot)
	}

	// Unrelated variables pass through.
	if inv.Env.Get("PATH") != "/usr/bin" {
		t.Errorf("PATH = %q, want '/usr/bin'", inv.Env.Get("PATH"))
	}

	// The caller's environment is untouched.
	if environ.Get("GOROOT") != "/usr/local/go" || !environ.Has("GOARCH") {
		t.Error("Prepare must not mutate the input environment")
	}
}

func TestPrepare_GopathDefault(t *testing.T) {
	layout := newLayout(t, false)
	l := NewWithLayout(layout)

	// Absent: bundled workspace is injected.
	inv, err := l.Prepare([]string{"go"}, env.Environ{})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if inv.Env.Get("GOPATH") != layout.Gopath {
		t.Errorf("GOPATH = %q, want %q", inv.Env.Get("GOPATH"), layout.Gopath)
	}

	// Present: caller override wins.
	inv, err = l.Prepare([]string{"go"}, env.Environ{"GOPATH": "/home/user/go"})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if inv.Env.Get("GOPATH") != "/home/user/go" {
		t.Errorf("GOPATH = %q, want caller value '/home/user/go'", inv.Env.Get("GOPATH"))
	}
}

func TestPrepare_DevAppserverVar(t *testing.T) {
	withServer := newLayout(t, true)
	inv, err := NewWithLayout(withServer).Prepare([]string{"go"}, env.Environ{})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if inv.Env.Get(DevAppserverVar) != withServer.DevAppserver {
		t.Errorf("%s = %q, want %q", DevAppserverVar, inv.Env.Get(DevAppserverVar), withServer.DevAppserver)
	}

	withoutServer := newLayout(t, false)
	inv, err = NewWithLayout(withoutServer).Prepare([]string{"go"}, env.Environ{})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if inv.Env.Has(DevAppserverVar) {
		t.Errorf("%s should not be set without an entry point", DevAppserverVar)
	}
}

func TestPrepare_Errors(t *testing.T) {
	l := NewWithLayout(newLayout(t, false))

	if _, err := l.Prepare(nil, env.Environ{}); !errors.Is(err, ErrNoArguments) {
		t.Errorf("Prepare(nil) error = %v, want ErrNoArguments", err)
	}

	if _, err := l.Prepare([]string{".."}, env.Environ{}); err == nil {
		t.Error("Prepare('..') expected error, got nil")
	}

	bare := &Launcher{}
	if _, err := bare.Prepare([]string{"go"}, env.Environ{}); !errors.Is(err, ErrNoLayout) {
		t.Errorf("Prepare() without layout error = %v, want ErrNoLayout", err)
	}
}

func TestPrepare_CustomScrubVars(t *testing.T) {
	l := NewWithLayout(newLayout(t, false), WithScrubVars([]string{"GO111MODULE"}))

	inv, err := l.Prepare([]string{"go"}, env.Environ{
		"GO111MODULE": "off",
		"GOARCH":      "arm",
	})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if inv.Env.Has("GO111MODULE") {
		t.Error("GO111MODULE should be scrubbed with a custom scrub set")
	}
	if !inv.Env.Has("GOARCH") {
		t.Error("GOARCH should survive when not in the custom scrub set")
	}
}

func TestLaunch_ExecReceivesPreparedState(t *testing.T) {
	layout := newLayout(t, false)

	var gotTarget string
	var gotArgv, gotEnv []string
	l := NewWithLayout(layout, WithReplaceFunc(func(target string, argv, environ []string) error {
		gotTarget = target
		gotArgv = argv
		gotEnv = environ
		return nil
	}))

	argv := []string{"go", "build", "main.go"}
	if err := l.Launch(context.Background(), argv); err != nil {
		t.Fatalf("Launch() error = %v", err)
	}

	if gotTarget != filepath.Join(layout.BinDir, "go") {
		t.Errorf("exec target = %q, want %q", gotTarget, filepath.Join(layout.BinDir, "go"))
	}

	if !reflect.DeepEqual(gotArgv, argv) {
		t.Errorf("exec argv = %v, want %v", gotArgv, argv)
	}

	var sawGoroot bool
	for _, entry := range gotEnv {
		if entry == "GOROOT="+layout.Goroot {
			sawGoroot = true
		}
	}
	if !sawGoroot {
		t.Errorf("exec environment %v missing GOROOT=%s", gotEnv, layout.Goroot)
	}
}

func TestLaunch_ExecFailurePropagates(t *testing.T) {
	l := NewWithLayout(newLayout(t, false), WithReplaceFunc(func(string, []string, []string) error {
		return os.ErrNotExist
	}))

	err := l.Launch(context.Background(), []string{"go"})
	if err == nil {
		t.Fatal("Launch() expected error, got nil")
	}

	// The raw OS error stays reachable.
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Launch() error = %v, want wrapped os.ErrNotExist", err)
	}

	var launchErr *LaunchError
	if !errors.As(err, &launchErr) || launchErr.Op != "exec" {
		t.Errorf("Launch() error = %#v, want LaunchError with Op='exec'", err)
	}
}

type recordingHook struct {
	name  string
	order *[]string
	err   error
}

func (h *recordingHook) PreLaunch(ctx context.Context, inv *Invocation) error {
	*h.order = append(*h.order, h.name)
	return h.err
}

func TestLaunch_HooksRunInOrder(t *testing.T) {
	var order []string
	execCalled := false

	l := NewWithLayout(newLayout(t, false),
		WithHooks(
			&recordingHook{name: "first", order: &order},
			&recordingHook{name: "second", order: &order},
		),
		WithReplaceFunc(func(string, []string, []string) error {
			execCalled = true
			return nil
		}),
	)

	if err := l.Launch(context.Background(), []string{"go"}); err != nil {
		t.Fatalf("Launch() error = %v", err)
	}

	if !reflect.DeepEqual(order, []string{"first", "second"}) {
		t.Errorf("hook order = %v, want [first second]", order)
	}
	if !execCalled {
		t.Error("exec should run after hooks")
	}
}

func TestLaunch_HookAbortsBeforeExec(t *testing.T) {
	var order []string
	execCalled := false

	l := NewWithLayout(newLayout(t, false),
		WithHooks(&recordingHook{name: "deny", order: &order, err: errors.New("denied")}),
		WithReplaceFunc(func(string, []string, []string) error {
			execCalled = true
			return nil
		}),
	)

	err := l.Launch(context.Background(), []string{"go"})
	if !errors.Is(err, ErrHookAborted) {
		t.Errorf("Launch() error = %v, want ErrHookAborted", err)
	}
	if execCalled {
		t.Error("exec must not run after a hook aborts")
	}
}
