// Package golaunch launches tools from a self-contained Go SDK.
//
// A golaunch binary is installed at the SDK base under the name of the
// toolchain tool it fronts (go, gofmt, ...). On invocation it resolves
// the SDK layout from its own location, corrects the environment, and
// replaces itself with the bundled toolchain binary, forwarding the
// argument vector unchanged.
//
// # Launch Contract
//
//   - The SDK base is the absolute, symlink-resolved directory holding
//     the launcher executable.
//   - The target is <base>/goroot/bin/<invocation name>.
//   - GOROOT is forced to the bundled toolchain root.
//   - GOARCH, GOBIN and GOOS are removed so an external toolchain
//     configuration cannot leak into the bundled one.
//   - GOPATH defaults to <base>/gopath; a caller-supplied value wins.
//   - APPENGINE_DEV_APPSERVER is set when the SDK ships a development
//     server entry point.
//   - The process image is replaced; on success nothing of the launcher
//     survives. An exec failure surfaces as the raw OS error.
//
// # Basic Usage
//
//	func main() {
//	    if err := golaunch.Launch(context.Background()); err != nil {
//	        fmt.Fprintf(os.Stderr, "golaunch: %v\n", err)
//	        os.Exit(1)
//	    }
//	}
//
// # Package Structure
//
//   - golaunch: Main entry point and convenience wiring
//   - launcher: Core launch contract (prepare, hooks, exec)
//   - sdk: SDK directory layout resolution
//   - env: Environment mapping handed to the replaced process
//   - config: Optional YAML configuration at the SDK base
//   - validation: Tool-name and target checks
//   - observability: OpenTelemetry metrics/tracing and audit logging
//   - hooks: Pre-launch extension points
//   - devserver: Supervision of the Python SDK tools (serve, deploy)
//
// # File I/O
//
// All file reads and appends in this library use
// github.com/victoralfred/gowritter/safepath for secure path handling.
package golaunch
