// Package validation provides input checks for tool names and resolved
// target paths.
//
// The raw launcher path deliberately performs only tool-name validation:
// existence and executability of the target are left to the exec call,
// whose OS error propagates unchanged. The richer checks here serve the
// CLI surfaces that want a diagnosable answer before spawning anything.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for common conditions.
var (
	// ErrInvalidToolName indicates a tool name that is not a bare file name.
	ErrInvalidToolName = errors.New("invalid tool name")

	// ErrOutsideToolchain indicates a target escaping the toolchain bin directory.
	ErrOutsideToolchain = errors.New("target outside toolchain bin directory")

	// ErrNotExecutable indicates a target that is not an executable regular file.
	ErrNotExecutable = errors.New("target not executable")
)

// maxToolNameLength bounds tool names; toolchain binaries are short.
const maxToolNameLength = 64

// ToolName checks that name is a plausible bare toolchain binary name:
// non-empty, no path separators, no traversal, no control bytes.
func ToolName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidToolName)
	}

	if len(name) > maxToolNameLength {
		return fmt.Errorf("%w: name too long (%d > %d)", ErrInvalidToolName, len(name), maxToolNameLength)
	}

	if name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidToolName, name)
	}

	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidToolName, name)
	}

	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: %q contains a control character", ErrInvalidToolName, name)
		}
	}

	return nil
}

// Target checks that target is an absolute path directly inside binDir.
func Target(binDir, target string) error {
	if !filepath.IsAbs(target) {
		return fmt.Errorf("%w: %q is not absolute", ErrOutsideToolchain, target)
	}

	if filepath.Dir(filepath.Clean(target)) != filepath.Clean(binDir) {
		return fmt.Errorf("%w: %q", ErrOutsideToolchain, target)
	}

	return nil
}

// Executable checks that path names an executable regular file.
func Executable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotExecutable, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %q is not a regular file", ErrNotExecutable, path)
	}

	if info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%w: %q has no execute permission", ErrNotExecutable, path)
	}

	return nil
}
