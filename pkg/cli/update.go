/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	apperrors "github.com/PaloAltoNetworks/konnector-cli/pkg/errors"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/oci"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/update"
)

func (a *app) updateCmd() *cli.Command {
	return &cli.Command{
		Name:         "update",
		Usage:        "Check for and install a newer konnector release",
		OnUsageError: onUsageError,
		Description: `Look up the newest release in the release repository and replace the
running binary with it. Releases with a new major version are mandatory:
collect-logs refuses to run until they are installed.

# Examples

Check only:
  konnector update --check --update-repository oci://ghcr.io/paloaltonetworks/konnector

Install:
  konnector update --update-repository oci://ghcr.io/paloaltonetworks/konnector`,
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "check",
				Usage: "Only report whether an update is available",
			},
			&cli.BoolFlag{
				Name:  "pre",
				Usage: "Consider pre-release versions",
			},
			repositoryFlag(),
		}, registryFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			repository := cmd.String("update-repository")
			if repository == "" {
				return apperrors.New(apperrors.ErrCodeInvalidRequest, "--update-repository is required")
			}

			var checkerOpts []update.Option
			if cmd.Bool("pre") {
				checkerOpts = append(checkerOpts, update.WithPrereleases())
			}
			checker, err := a.checker(repository, oci.RepositoryOptions{
				PlainHTTP:   cmd.Bool("plain-http"),
				InsecureTLS: cmd.Bool("insecure-tls"),
			}, checkerOpts...)
			if err != nil {
				return err
			}

			st, err := checker.Check(ctx)
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			if !st.Available {
				fmt.Fprintf(out, "%s is up to date (%s)\n", name, st.Current)
				return nil
			}

			kind := "optional"
			if st.Mandatory {
				kind = "mandatory"
			}
			fmt.Fprintf(out, "%s update available: %s -> %s\n", kind, st.Current, st.Latest)
			if cmd.Bool("check") {
				return nil
			}

			exe, err := a.executable()
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to locate executable", err)
			}
			if err := checker.Apply(ctx, st, exe); err != nil {
				return err
			}
			fmt.Fprintf(out, "updated to %s\n", st.Latest)
			return nil
		},
	}
}
