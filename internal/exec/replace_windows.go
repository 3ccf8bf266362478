//go:build windows

package exec

import (
	"os"
	"os/exec"
	"syscall"
)

// Replace emulates process replacement on Windows, which has no execve.
// It spawns the target with inherited standard streams, waits for it to
// finish, and exits with the child's exit code. Only a start failure is
// returned to the caller.
func Replace(target string, argv, environ []string) error {
	var args []string
	if len(argv) > 1 {
		args = argv[1:]
	}

	cmd := exec.Command(target, args...)
	cmd.Env = environ
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		return err
	}
	os.Exit(0)
	return nil
}

// defaultSysProcAttr returns default process attributes for Windows.
// Windows doesn't support Setpgid/Pgid, so we return nil.
func defaultSysProcAttr() *syscall.SysProcAttr {
	return nil
}

// extractSignal is a no-op on Windows as signals work differently.
func extractSignal(_ interface{}) (syscall.Signal, bool) {
	return 0, false
}
