// Package sdk resolves the on-disk layout of a self-contained Go SDK.
//
// An SDK is a directory tree shipping its own toolchain and workspace:
//
//	<base>/
//	    go                  launcher, named after the tool it fronts
//	    goroot/bin/<tool>   bundled toolchain binaries
//	    gopath/             default module workspace
//	    dev_appserver.py    development server entry point (optional)
//
// The base is always the absolute, symlink-resolved directory holding
// the launcher executable itself.
package sdk

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Default names of the SDK components relative to the base directory.
const (
	GorootDirName    = "goroot"
	GopathDirName    = "gopath"
	DevAppserverName = "dev_appserver.py"
)

// Layout describes a resolved SDK directory tree.
// All paths are absolute. A Layout is immutable once resolved.
type Layout struct {
	// Base is the SDK base directory.
	Base string

	// Goroot is the toolchain root, <Base>/goroot.
	Goroot string

	// BinDir is the toolchain binary directory, <Goroot>/bin.
	BinDir string

	// Gopath is the bundled default workspace, <Base>/gopath.
	Gopath string

	// DevAppserver is the development server entry point,
	// <Base>/dev_appserver.py. The file may or may not exist.
	DevAppserver string
}

// Resolve locates the SDK from the running executable.
// Symlinks are resolved first, so a launcher symlinked into PATH still
// finds the SDK it was installed in.
func Resolve() (*Layout, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locating executable: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("resolving executable symlinks: %w", err)
	}

	return ResolveFrom(filepath.Dir(resolved))
}

// ResolveFrom resolves an SDK rooted at an explicit base directory,
// using the default component names.
func ResolveFrom(base string) (*Layout, error) {
	return ResolveWith(base, GorootDirName, GopathDirName, DevAppserverName)
}

// ResolveWith resolves an SDK rooted at base with custom component
// names, as configured by an operator.
func ResolveWith(base, gorootDir, gopathDir, devAppserver string) (*Layout, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolving SDK base: %w", err)
	}

	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolving SDK base symlinks: %w", err)
	}

	goroot := filepath.Join(abs, gorootDir)
	return &Layout{
		Base:         abs,
		Goroot:       goroot,
		BinDir:       filepath.Join(goroot, "bin"),
		Gopath:       filepath.Join(abs, gopathDir),
		DevAppserver: filepath.Join(abs, devAppserver),
	}, nil
}

// ToolPath returns the path of the toolchain binary for the given tool
// name. The name is joined verbatim; callers validate it first.
func (l *Layout) ToolPath(tool string) string {
	return filepath.Join(l.BinDir, tool)
}

// HasDevAppserver reports whether the development server entry point
// exists on disk.
func (l *Layout) HasDevAppserver() bool {
	info, err := os.Stat(l.DevAppserver)
	return err == nil && info.Mode().IsRegular()
}

// Tools lists the names of the toolchain binaries present in BinDir,
// sorted.
func (l *Layout) Tools() ([]string, error) {
	entries, err := os.ReadDir(l.BinDir)
	if err != nil {
		return nil, fmt.Errorf("reading toolchain bin directory: %w", err)
	}

	tools := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			tools = append(tools, entry.Name())
		}
	}
	sort.Strings(tools)
	return tools, nil
}
