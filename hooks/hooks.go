// Package hooks provides extension points for the launch lifecycle.
//
// A launch has a single extension window: after the invocation is
// prepared and before the process image is replaced. Anything a hook
// wants to record must happen there, because nothing of the launcher
// survives a successful exec.
package hooks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/victoralfred/golaunch/launcher"
	"github.com/victoralfred/golaunch/observability"
)

// Hook defines extension points for the launch lifecycle.
type Hook interface {
	// Name returns a unique identifier for the hook.
	Name() string

	// Priority determines execution order (lower = earlier).
	Priority() int
}

// PreLaunchHook is called before process replacement.
// An error aborts the launch.
type PreLaunchHook interface {
	Hook
	PreLaunch(ctx context.Context, inv *launcher.Invocation) error
}

// Registry manages hook registration and invocation.
// It satisfies launcher.Hook, so a populated registry plugs straight
// into launcher.WithHooks.
type Registry struct {
	preLaunch []PreLaunchHook
	mu        sync.RWMutex
}

// NewRegistry creates a new hook registry.
func NewRegistry() *Registry {
	return &Registry{
		preLaunch: make([]PreLaunchHook, 0),
	}
}

// Register adds a hook to the registry.
func (r *Registry) Register(hook Hook) error {
	h, ok := hook.(PreLaunchHook)
	if !ok {
		return fmt.Errorf("hook %s implements no launch extension point", hook.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.preLaunch = append(r.preLaunch, h)
	sort.SliceStable(r.preLaunch, func(i, j int) bool {
		return r.preLaunch[i].Priority() < r.preLaunch[j].Priority()
	})
	return nil
}

// Unregister removes a hook by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]PreLaunchHook, 0, len(r.preLaunch))
	for _, h := range r.preLaunch {
		if h.Name() != name {
			result = append(result, h)
		}
	}
	r.preLaunch = result
}

// PreLaunch runs all pre-launch hooks in priority order.
func (r *Registry) PreLaunch(ctx context.Context, inv *launcher.Invocation) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, hook := range r.preLaunch {
		if err := hook.PreLaunch(ctx, inv); err != nil {
			return fmt.Errorf("hook %s: %w", hook.Name(), err)
		}
	}
	return nil
}

// LoggingHook is a built-in hook that logs launches.
type LoggingHook struct {
	logger func(format string, args ...interface{})
}

// NewLoggingHook creates a new logging hook.
func NewLoggingHook(logger func(format string, args ...interface{})) *LoggingHook {
	return &LoggingHook{logger: logger}
}

func (h *LoggingHook) Name() string  { return "logging" }
func (h *LoggingHook) Priority() int { return 1000 }

// PreLaunch implements PreLaunchHook.
func (h *LoggingHook) PreLaunch(ctx context.Context, inv *launcher.Invocation) error {
	h.logger("Launching: %s -> %s %v", inv.Tool, inv.Target, inv.Args[1:])
	return nil
}

// AuditHook is a built-in hook that records launches to an audit log
// before the process image is replaced.
type AuditHook struct {
	logger observability.AuditLogger
}

// NewAuditHook creates a new audit hook.
func NewAuditHook(logger observability.AuditLogger) *AuditHook {
	return &AuditHook{logger: logger}
}

func (h *AuditHook) Name() string  { return "audit" }
func (h *AuditHook) Priority() int { return 100 }

// PreLaunch implements PreLaunchHook.
func (h *AuditHook) PreLaunch(ctx context.Context, inv *launcher.Invocation) error {
	return h.logger.Log(ctx, observability.CreateLaunchEvent(inv))
}
