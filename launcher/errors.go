package launcher

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoArguments indicates an empty argument vector.
	ErrNoArguments = errors.New("empty argument vector")

	// ErrNoLayout indicates the launcher was built without an SDK layout.
	ErrNoLayout = errors.New("SDK layout not resolved")

	// ErrHookAborted indicates a pre-launch hook refused the invocation.
	ErrHookAborted = errors.New("launch aborted by hook")
)

// LaunchError provides structured error information for a failed launch.
// The underlying OS error from a failed exec is reachable via Unwrap, so
// callers observe the raw failure the contract promises.
type LaunchError struct {
	// Op is the operation that failed.
	Op string

	// Tool is the tool being launched.
	Tool string

	// Err is the underlying error.
	Err error

	// Details provides human-readable details.
	Details string
}

// Error returns the error message.
func (e *LaunchError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Tool, e.Details)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Tool, e.Err)
}

// Unwrap returns the underlying error.
func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target.
func (e *LaunchError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewPrepareError creates an error for a failed invocation preparation.
func NewPrepareError(tool string, err error) error {
	return &LaunchError{
		Op:   "prepare",
		Tool: tool,
		Err:  err,
	}
}

// NewHookError creates an error for a hook that aborted the launch.
func NewHookError(tool string, err error) error {
	return &LaunchError{
		Op:      "pre_launch",
		Tool:    tool,
		Err:     fmt.Errorf("%w: %v", ErrHookAborted, err),
		Details: err.Error(),
	}
}

// NewExecError creates an error for a failed process replacement.
func NewExecError(tool string, err error) error {
	return &LaunchError{
		Op:   "exec",
		Tool: tool,
		Err:  err,
	}
}
