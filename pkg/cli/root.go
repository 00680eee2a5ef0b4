/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/agnivade/levenshtein"
	"github.com/urfave/cli/v3"

	"github.com/PaloAltoNetworks/konnector-cli/pkg/bundle"
	apperrors "github.com/PaloAltoNetworks/konnector-cli/pkg/errors"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/logging"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/oci"
)

const (
	name           = "konnector"
	versionDefault = "dev"

	exitOK       = 0
	exitFatal    = 1
	exitCanceled = 2
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// collector runs one support bundle collection.
type collector interface {
	Run(ctx context.Context) (*bundle.Result, error)
}

// app holds the collaborators commands are built from.
type app struct {
	version      string
	stdout       io.Writer
	stderr       io.Writer
	newCollector func(cfg bundle.Config, opts ...bundle.Option) collector
	newSource    func(ref *oci.Reference, opts oci.RepositoryOptions) (oci.Source, error)
	executable   func() (string, error)
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		version: version,
		stdout:  stdout,
		stderr:  stderr,
		newCollector: func(cfg bundle.Config, opts ...bundle.Option) collector {
			return bundle.NewCollector(cfg, opts...)
		},
		newSource: func(ref *oci.Reference, opts oci.RepositoryOptions) (oci.Source, error) {
			return oci.NewRepository(ref, opts)
		},
		executable: os.Executable,
	}
}

func (a *app) rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Konnector support CLI",
		EnableShellCompletion: true,
		Writer:                a.stdout,
		ErrWriter:             a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.EnvLogLevel),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, a.version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", a.version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		OnUsageError: onUsageError,
		// Exit codes are decided by Execute.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Commands: []*cli.Command{
			a.collectLogsCmd(),
			a.updateCmd(),
			a.versionCmd(),
		},
	}
}

// run executes args and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	err := a.rootCmd().Run(ctx, args)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
	return exitCode(ctx, err)
}

// Execute runs the CLI with the process arguments and exits.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := newApp(os.Stdout, os.Stderr).run(ctx, os.Args)
	stop()
	os.Exit(code)
}

func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return exitOK
	case apperrors.IsCode(err, apperrors.ErrCodeCanceled),
		errors.Is(err, context.Canceled),
		ctx.Err() != nil:
		return exitCanceled
	default:
		return exitFatal
	}
}

// onUsageError adds a suggestion for mistyped flags.
func onUsageError(_ context.Context, cmd *cli.Command, err error, _ bool) error {
	if s := suggestFlag(cmd, err); s != "" {
		return fmt.Errorf("%w (did you mean --%s?)", err, s)
	}
	return err
}

func suggestFlag(cmd *cli.Command, err error) string {
	msg := err.Error()
	i := strings.LastIndex(msg, ": ")
	if !strings.Contains(msg, "not defined") || i < 0 {
		return ""
	}
	unknown := strings.TrimLeft(strings.TrimSpace(msg[i+2:]), "-")
	if unknown == "" {
		return ""
	}

	best, bestDist := "", 3
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if len(n) < 2 {
				continue
			}
			if d := levenshtein.ComputeDistance(unknown, n); d < bestDist {
				best, bestDist = n, d
			}
		}
	}
	return best
}

func (a *app) versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintf(cmd.Root().Writer, "%s %s (commit %s, built %s)\n", name, a.version, commit, date)
			return err
		},
	}
}
