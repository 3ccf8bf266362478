//go:build unix

package exec

import "syscall"

// Replace substitutes the current process image with the target binary,
// preserving the process ID. argv must include the program name at
// index 0 and environ must be in "KEY=value" form.
// On success Replace does not return; the error is always non-nil.
func Replace(target string, argv, environ []string) error {
	return syscall.Exec(target, argv, environ)
}

// defaultSysProcAttr returns default process attributes for Unix systems.
func defaultSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		// Create a new process group so we can kill all children
		Setpgid: true,
		Pgid:    0,
	}
}

// extractSignal extracts the signal from the process state if the process
// was signaled.
func extractSignal(state interface{}) (syscall.Signal, bool) {
	if ws, ok := state.(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return ws.Signal(), true
		}
	}
	return 0, false
}
