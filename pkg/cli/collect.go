/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/PaloAltoNetworks/konnector-cli/pkg/bundle"
	apperrors "github.com/PaloAltoNetworks/konnector-cli/pkg/errors"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/k8s/client"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/oci"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/update"
)

const defaultNamespace = "panw"

// Flags shared by several commands. Each call returns a fresh flag since
// flags hold parse state.

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "kubeconfig",
		Usage: "Path to kubeconfig file (KUBECONFIG and ~/.kube/config are used when unset)",
	}
}

func contextFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "context",
		Usage:   "Kubeconfig context to use",
		Sources: cli.EnvVars("KONNECTOR_CONTEXT"),
	}
}

func repositoryFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "update-repository",
		Usage:   "Release repository (oci://registry/repository)",
		Sources: cli.EnvVars("KONNECTOR_UPDATE_REPOSITORY"),
	}
}

func registryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "plain-http",
			Usage: "Use HTTP instead of HTTPS for the release repository",
		},
		&cli.BoolFlag{
			Name:  "insecure-tls",
			Usage: "Skip TLS certificate verification for the release repository",
		},
	}
}

type collectCmdOptions struct {
	namespace       string
	conn            client.Connection
	outputDir       string
	workDir         string
	repository      string
	skipUpdateCheck bool
	registry        oci.RepositoryOptions
}

func parseCollectCmdOptions(cmd *cli.Command) (*collectCmdOptions, error) {
	opts := &collectCmdOptions{
		namespace: cmd.String("namespace"),
		conn: client.Connection{
			Kubeconfig: cmd.String("kubeconfig"),
			Context:    cmd.String("context"),
		},
		outputDir:       cmd.String("output-dir"),
		workDir:         cmd.String("work-dir"),
		repository:      cmd.String("update-repository"),
		skipUpdateCheck: cmd.Bool("skip-update-check"),
		registry: oci.RepositoryOptions{
			PlainHTTP:   cmd.Bool("plain-http"),
			InsecureTLS: cmd.Bool("insecure-tls"),
		},
	}
	if opts.namespace == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "--namespace must not be empty")
	}
	return opts, nil
}

func (a *app) collectLogsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "collect-logs",
		EnableShellCompletion: true,
		Usage:                 "Collect a support bundle from the Konnector namespace",
		Description: `Collect cluster, Helm release, workload, log, and webhook state for a
Konnector installation into a single .tar.gz archive.

Sections are collected in order: cluster, namespace, helm, workloads, logs,
operator. Individual query failures are recorded in the bundle and do not
stop collection. The archive path is printed on the last line of output.

# Examples

Collect from the default namespace:
  konnector collect-logs

Collect from another namespace and context:
  konnector collect-logs -n konnector --context prod-cluster

Enforce mandatory updates before collecting:
  konnector collect-logs --update-repository oci://ghcr.io/paloaltonetworks/konnector`,
		OnUsageError: onUsageError,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "namespace",
				Aliases: []string{"n"},
				Usage:   "Namespace Konnector is installed in",
				Sources: cli.EnvVars("KONNECTOR_NAMESPACE"),
				Value:   defaultNamespace,
			},
			kubeconfigFlag(),
			contextFlag(),
			&cli.StringFlag{
				Name:    "output-dir",
				Usage:   "Directory the archive is written to",
				Sources: cli.EnvVars("KONNECTOR_OUTPUT_DIR"),
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  "work-dir",
				Usage: "Directory for the temporary staging directory (default: system temp dir)",
			},
			repositoryFlag(),
			&cli.BoolFlag{
				Name:  "skip-update-check",
				Usage: "Do not check the release repository for mandatory updates",
			},
		}, registryFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseCollectCmdOptions(cmd)
			if err != nil {
				return err
			}

			var collectorOpts []bundle.Option
			if opts.repository != "" && !opts.skipUpdateCheck {
				checker, err := a.checker(opts.repository, opts.registry)
				if err != nil {
					return err
				}
				collectorOpts = append(collectorOpts, bundle.WithGate(checker.Enforce))
			}

			c := a.newCollector(bundle.Config{
				Namespace:   opts.namespace,
				Connection:  opts.conn,
				OutputDir:   opts.outputDir,
				WorkDir:     opts.workDir,
				ToolVersion: a.version,
			}, collectorOpts...)

			res, err := c.Run(ctx)
			if res != nil {
				if failed := res.Failed(); failed > 0 {
					fmt.Fprintf(cmd.Root().ErrWriter, "%d of %d queries failed, see manifest.yaml in the bundle\n",
						failed, len(res.Artifacts))
				}
				fmt.Fprintln(cmd.Root().Writer, res.ArchivePath)
			}
			return err
		},
	}
}

func (a *app) checker(repository string, ro oci.RepositoryOptions, opts ...update.Option) (*update.Checker, error) {
	ref, err := oci.ParseReference(repository)
	if err != nil {
		return nil, err
	}
	src, err := a.newSource(ref, ro)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to configure release repository", err)
	}
	return update.NewChecker(src, a.version, opts...), nil
}
