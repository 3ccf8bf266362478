// Package launcher implements the SDK tool launch contract: resolve the
// toolchain binary matching the launcher's own invocation name, correct
// the environment, and replace the process image with the target.
package launcher

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/victoralfred/golaunch/env"
	internalexec "github.com/victoralfred/golaunch/internal/exec"
	"github.com/victoralfred/golaunch/sdk"
	"github.com/victoralfred/golaunch/validation"
)

// Environment variables the launcher sets for the replaced process.
const (
	// GorootVar points the downstream tool at the bundled toolchain.
	GorootVar = "GOROOT"

	// GopathVar points the downstream tool at a module workspace.
	// An existing caller value always wins over the bundled default.
	GopathVar = "GOPATH"

	// DevAppserverVar points SDK tooling at the co-located development
	// server entry point. Set only when the entry point exists.
	DevAppserverVar = "APPENGINE_DEV_APPSERVER"
)

// DefaultScrubVars are removed from the environment before exec. They
// could steer the bundled toolchain at an incompatible external
// configuration: a target architecture override, an alternate binary
// install directory, or a target OS override.
func DefaultScrubVars() []string {
	return []string{"GOARCH", "GOBIN", "GOOS"}
}

// Invocation is a fully prepared launch: the resolved target and the
// mutated environment, ready to hand to exec. Invocations are built by
// Prepare and are not reused.
type Invocation struct {
	// ID uniquely identifies this launch attempt for audit purposes.
	ID string

	// Tool is the bare tool name derived from the invocation identity.
	Tool string

	// Target is the absolute path of the toolchain binary to exec.
	Target string

	// Args is the original argument vector, forwarded unchanged.
	Args []string

	// Env is the mutated environment for the replaced process.
	Env env.Environ

	// Scrubbed lists the environment keys that were removed.
	Scrubbed []string

	// Layout is the SDK layout the invocation was resolved against.
	Layout *sdk.Layout
}

// Hook is a pre-launch extension point. Hooks run after Prepare and
// before exec; an error aborts the launch.
type Hook interface {
	PreLaunch(ctx context.Context, inv *Invocation) error
}

// ReplaceFunc performs process replacement. On success it does not
// return. It exists as a seam so tests can observe the final exec
// without losing the test process.
type ReplaceFunc func(target string, argv, environ []string) error

// Launcher prepares and performs SDK tool launches.
type Launcher struct {
	layout  *sdk.Layout
	scrub   []string
	hooks   []Hook
	replace ReplaceFunc
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithHooks adds pre-launch hooks, run in registration order.
func WithHooks(hooks ...Hook) Option {
	return func(l *Launcher) {
		l.hooks = append(l.hooks, hooks...)
	}
}

// WithScrubVars overrides the set of environment variables removed
// before exec.
func WithScrubVars(vars []string) Option {
	return func(l *Launcher) {
		l.scrub = append([]string(nil), vars...)
	}
}

// WithReplaceFunc overrides the process-replacement primitive.
// Intended for tests.
func WithReplaceFunc(fn ReplaceFunc) Option {
	return func(l *Launcher) {
		l.replace = fn
	}
}

// New creates a Launcher for the SDK containing the running executable.
func New(opts ...Option) (*Launcher, error) {
	layout, err := sdk.Resolve()
	if err != nil {
		return nil, err
	}
	return NewWithLayout(layout, opts...), nil
}

// NewWithLayout creates a Launcher against an explicit SDK layout.
func NewWithLayout(layout *sdk.Layout, opts ...Option) *Launcher {
	l := &Launcher{
		layout:  layout,
		scrub:   DefaultScrubVars(),
		replace: internalexec.Replace,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Prepare resolves the target binary for argv[0] and builds the mutated
// environment:
//
//   - the scrub set is removed unconditionally
//   - GOROOT is forced to the toolchain root
//   - GOPATH defaults to the bundled workspace, preserving a caller value
//   - the dev-server variable is set when the entry point exists
//
// environ is not modified; the invocation carries an independent copy.
// Prepare does not check that the target exists: a missing or
// non-executable target surfaces as the exec error, per the contract.
func (l *Launcher) Prepare(argv []string, environ env.Environ) (*Invocation, error) {
	if l.layout == nil {
		return nil, ErrNoLayout
	}

	if len(argv) == 0 {
		return nil, ErrNoArguments
	}

	tool := filepath.Base(argv[0])
	if err := validation.ToolName(tool); err != nil {
		return nil, NewPrepareError(tool, err)
	}

	e := environ.Clone()
	scrubbed := e.Unset(l.scrub...)

	if err := e.Set(GorootVar, l.layout.Goroot); err != nil {
		return nil, NewPrepareError(tool, err)
	}

	if _, err := e.SetDefault(GopathVar, l.layout.Gopath); err != nil {
		return nil, NewPrepareError(tool, err)
	}

	if l.layout.HasDevAppserver() {
		if err := e.Set(DevAppserverVar, l.layout.DevAppserver); err != nil {
			return nil, NewPrepareError(tool, err)
		}
	}

	return &Invocation{
		ID:       uuid.New().String(),
		Tool:     tool,
		Target:   l.layout.ToolPath(tool),
		Args:     append([]string(nil), argv...),
		Env:      e,
		Scrubbed: scrubbed,
		Layout:   l.layout,
	}, nil
}

// Exec replaces the current process image with the invocation's target.
// On success it does not return; the returned error is the raw OS
// failure wrapped with launch context.
func (l *Launcher) Exec(inv *Invocation) error {
	err := l.replace(inv.Target, inv.Args, inv.Env.Slice())
	if err == nil {
		// Real process replacement never returns on success; only an
		// injected ReplaceFunc can take this path.
		return nil
	}
	return NewExecError(inv.Tool, err)
}

// Launch is the full contract: Prepare argv against the inherited
// environment, run hooks, exec. It returns only on failure.
func (l *Launcher) Launch(ctx context.Context, argv []string) error {
	inv, err := l.Prepare(argv, env.System())
	if err != nil {
		return err
	}

	for _, hook := range l.hooks {
		if err := hook.PreLaunch(ctx, inv); err != nil {
			return NewHookError(inv.Tool, err)
		}
	}

	return l.Exec(inv)
}
