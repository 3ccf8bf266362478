// Command golaunch is the SDK tool wrapper. Installed (or symlinked)
// at the SDK base under a toolchain tool's name, it execs the bundled
// goroot/bin binary of the same name, forwarding all arguments.
//
// On success this process ceases to exist; on failure the raw OS error
// is printed and the exit status is nonzero.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/victoralfred/golaunch"
)

func main() {
	if err := golaunch.Launch(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "golaunch: %v\n", err)
		os.Exit(1)
	}
}
