// Command goapp drives the Python SDK tools from the command line:
// a local development server session and application deployment.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/victoralfred/golaunch/config"
	"github.com/victoralfred/golaunch/devserver"
	"github.com/victoralfred/golaunch/observability"
	"github.com/victoralfred/golaunch/sdk"
)

// A command is one goapp subcommand.
type command struct {
	name      string
	usageLine string
	short     string
	run       func(ctx context.Context, s *devserver.Supervisor, args []string) (int, error)
}

var commands = []*command{
	{
		name:      "serve",
		usageLine: "goapp serve [serve flags] application_dir | [yaml_files...]",
		short:     "starts a local development application server",
		run: func(ctx context.Context, s *devserver.Supervisor, args []string) (int, error) {
			return s.Serve(ctx, args)
		},
	},
	{
		name:      "deploy",
		usageLine: "goapp deploy [deploy flags] application_dir | [yaml_files...]",
		short:     "deploys your application",
		run: func(ctx context.Context, s *devserver.Supervisor, args []string) (int, error) {
			return s.Deploy(ctx, args)
		},
	},
}

func main() {
	args := os.Args[1:]
	if len(args) < 1 || args[0] == "help" {
		usage()
		os.Exit(2)
	}

	var cmd *command
	for _, c := range commands {
		if c.name == args[0] {
			cmd = c
			break
		}
	}
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "goapp: unknown command %q\n", args[0])
		usage()
		os.Exit(2)
	}

	supervisor, err := newSupervisor()
	if err != nil {
		fmt.Fprintf(os.Stderr, "goapp %s: %v\n", cmd.name, err)
		os.Exit(1)
	}

	code, err := cmd.run(context.Background(), supervisor, args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "goapp %s: %v\n", cmd.name, err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}

// newSupervisor wires the supervisor against the enclosing SDK. Running
// outside an SDK is allowed as long as the dev appserver is reachable
// through its environment override.
func newSupervisor() (*devserver.Supervisor, error) {
	var opts []devserver.Option

	layout, err := sdk.Resolve()
	if err != nil {
		layout = nil
	}

	cfg := config.DefaultConfig()
	if layout != nil {
		if _, statErr := os.Stat(filepath.Join(layout.Base, config.DefaultFileName)); statErr == nil {
			cfg, err = config.Load(layout.Base, config.DefaultFileName)
			if err != nil {
				return nil, err
			}

			layout, err = sdk.ResolveWith(layout.Base, cfg.GorootDir, cfg.GopathDir, cfg.DevAppserver)
			if err != nil {
				return nil, err
			}
		}
	}

	if cfg.Telemetry.EnableMetrics || cfg.Telemetry.EnableTracing {
		telemetry, err := observability.NewTelemetry(cfg.Telemetry)
		if err != nil {
			return nil, err
		}
		opts = append(opts, devserver.WithTelemetry(telemetry))
	}

	if cfg.Audit.Enabled {
		audit, err := observability.NewFileAuditLogger(cfg.Audit)
		if err != nil {
			return nil, err
		}
		opts = append(opts, devserver.WithAudit(audit))
	}

	return devserver.New(layout, opts...), nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "goapp is a tool for managing applications built with the SDK.\n\n")
	fmt.Fprintf(os.Stderr, "Usage:\n\n\tgoapp command [arguments]\n\nThe commands are:\n\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "\t%s\t%s\n", c.name, c.short)
	}
	fmt.Fprintf(os.Stderr, "\nUse \"goapp help\" to show this message.\n")
}
