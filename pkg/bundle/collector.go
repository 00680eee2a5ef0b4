// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/PaloAltoNetworks/konnector-cli/pkg/archive"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/defaults"
	stderrors "github.com/PaloAltoNetworks/konnector-cli/pkg/errors"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/helm"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/k8s/client"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/k8s/inventory"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/k8s/kubectl"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/runner"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	utilexec "k8s.io/utils/exec"
)

// KubeClient is the read-only orchestration API used by the sections.
type KubeClient interface {
	Get(ctx context.Context, kind string, opts kubectl.GetOptions) ([]byte, error)
	Describe(ctx context.Context, kind, name, namespace string) ([]byte, error)
	Logs(ctx context.Context, pod, container, namespace string, previous bool) ([]byte, error)
	ClusterInfo(ctx context.Context) ([]byte, error)
	Version(ctx context.Context) ([]byte, error)
}

// HelmClient reads release state.
type HelmClient interface {
	Status(ctx context.Context, release, namespace string) ([]byte, error)
	Values(ctx context.Context, release, namespace string, includeDefaults bool) ([]byte, error)
}

// Enumerator lists namespaced resources. List and Containers return empty
// results on failure.
type Enumerator interface {
	List(ctx context.Context, kind inventory.Kind, namespace string) []string
	Containers(ctx context.Context, pod, namespace string) []string
	NamespaceExists(ctx context.Context, namespace string) (bool, error)
}

// Gate is a preflight check run after the dependency check and before any
// cluster access. A non-nil error aborts the run.
type Gate func(ctx context.Context) error

// Config describes one collection run.
type Config struct {
	// Namespace is the namespace Konnector is installed in.
	Namespace string
	// Connection selects the cluster.
	Connection client.Connection
	// OutputDir receives the archive. Defaults to the working directory.
	OutputDir string
	// WorkDir holds the staging directory. Defaults to os.TempDir().
	WorkDir string
	// ToolVersion is recorded in the manifest.
	ToolVersion string
}

// Result is the outcome of a completed run.
type Result struct {
	RunID       string
	ArchivePath string
	Artifacts   []Artifact
}

// Failed returns the number of unexpected artifact failures.
func (r *Result) Failed() int {
	n := 0
	for _, a := range r.Artifacts {
		if a.Err != nil && !a.Expected {
			n++
		}
	}
	return n
}

// Collector drives a run through its fixed sequence of steps.
type Collector struct {
	cfg         Config
	exec        utilexec.Interface
	kube        KubeClient
	helm        HelmClient
	inv         Enumerator
	gate        Gate
	now         func() time.Time
	buildClient func(client.Connection) (client.Interface, error)
}

// Option configures a Collector.
type Option func(*Collector)

// WithExec sets the process executor used for kubectl, helm, and PATH lookups.
func WithExec(e utilexec.Interface) Option {
	return func(c *Collector) {
		c.exec = e
	}
}

// WithKubeClient overrides the kubectl-backed orchestration client.
func WithKubeClient(k KubeClient) Option {
	return func(c *Collector) {
		c.kube = k
	}
}

// WithHelmClient overrides the helm-backed release client.
func WithHelmClient(h HelmClient) Option {
	return func(c *Collector) {
		c.helm = h
	}
}

// WithEnumerator overrides the client-go backed enumerator.
func WithEnumerator(e Enumerator) Option {
	return func(c *Collector) {
		c.inv = e
	}
}

// WithGate installs a preflight check.
func WithGate(g Gate) Option {
	return func(c *Collector) {
		c.gate = g
	}
}

// WithClock overrides the time source used for bundle names.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

// NewCollector returns a Collector for cfg.
func NewCollector(cfg Config, opts ...Option) *Collector {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}
	c := &Collector{
		cfg: cfg,
		now: time.Now,
		buildClient: func(conn client.Connection) (client.Interface, error) {
			cs, _, err := client.BuildKubeClient(conn)
			return cs, err
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.exec == nil {
		c.exec = utilexec.New()
	}
	if c.kube == nil {
		c.kube = kubectl.New(c.exec, cfg.Connection)
	}
	if c.helm == nil {
		c.helm = helm.New(c.exec, cfg.Connection)
	}
	return c
}

// Run collects the bundle and returns the archive location. The staging
// directory is removed on every return path. Per-query failures are
// recorded in the result and never fail the run.
func (c *Collector) Run(ctx context.Context) (res *Result, err error) {
	started := c.now()
	runID := uuid.NewString()
	ns := c.cfg.Namespace

	slog.Info("starting support bundle collection",
		slog.String("namespace", ns),
		slog.String("run_id", runID))

	if err := c.validateConfig(); err != nil {
		return nil, err
	}

	if missing, lerr := runner.Require(c.exec, kubectl.Binary, helm.Binary); lerr != nil {
		return nil, stderrors.WrapWithContext(stderrors.ErrCodeDependencyMissing,
			fmt.Sprintf("%s is required but was not found on PATH", missing), lerr,
			map[string]any{"tool": missing})
	}

	if c.gate != nil {
		if err := c.checkCanceled(ctx); err != nil {
			return nil, err
		}
		if err := c.gate(ctx); err != nil {
			return nil, err
		}
	}

	if err := c.checkCanceled(ctx); err != nil {
		return nil, err
	}
	if err := c.validateNamespace(ctx); err != nil {
		return nil, err
	}

	staging, err := acquireStaging(c.cfg.WorkDir, StagingName(ns, PrimaryRelease, started))
	if err != nil {
		return nil, stderrors.Wrap(stderrors.ErrCodeInternal, "failed to create staging directory", err)
	}
	defer func() {
		if rerr := staging.Release(); rerr != nil {
			slog.Warn("failed to clean up staging directory", slog.String("error", rerr.Error()))
			err = multierr.Append(err, rerr)
		}
	}()
	slog.Debug("staging directory created", slog.String("path", staging.Dir))

	metrics := NewMetrics()
	r := &run{
		exec:      NewExecutor(staging.Dir, metrics),
		kube:      c.kube,
		helm:      c.helm,
		inv:       c.inv,
		namespace: ns,
	}

	all := sections()
	for i, s := range all {
		if err := c.checkCanceled(ctx); err != nil {
			return nil, err
		}
		slog.Info("collecting section",
			slog.String("section", sectionTitle(s.id)),
			slog.String("step", fmt.Sprintf("%d/%d", i+1, len(all))))

		sectionStart := time.Now()
		serr := s.collect(ctx, r)
		metrics.sectionTime.WithLabelValues(s.id).Set(time.Since(sectionStart).Seconds())
		if serr != nil {
			return nil, stderrors.Wrap(stderrors.ErrCodeCanceled, "collection interrupted", serr)
		}
	}
	metrics.runDuration.Set(time.Since(started).Seconds())

	if err := c.checkCanceled(ctx); err != nil {
		return nil, err
	}
	finalize(ctx, staging.Dir, newManifest(runID, c.cfg.ToolVersion, ns, c.cfg.Connection.Context, started, c.now(), r.artifacts), metrics)

	archivePath, err := c.archive(ctx, staging)
	if err != nil {
		return nil, err
	}

	res = &Result{
		RunID:       runID,
		ArchivePath: archivePath,
		Artifacts:   r.artifacts,
	}
	slog.Info("support bundle created",
		slog.String("path", archivePath),
		slog.Int("artifacts", len(res.Artifacts)),
		slog.Int("failed", res.Failed()))
	return res, nil
}

func (c *Collector) validateConfig() error {
	if c.cfg.Namespace == "" {
		return stderrors.New(stderrors.ErrCodeInvalidRequest, "namespace is required")
	}
	info, err := os.Stat(c.cfg.OutputDir)
	if err != nil {
		return stderrors.Wrap(stderrors.ErrCodeInvalidRequest, "output directory is not accessible", err)
	}
	if !info.IsDir() {
		return stderrors.NewWithContext(stderrors.ErrCodeInvalidRequest, "output path is not a directory",
			map[string]any{"path": c.cfg.OutputDir})
	}
	return nil
}

func (c *Collector) checkCanceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return stderrors.Wrap(stderrors.ErrCodeCanceled, "collection interrupted", err)
	}
	return nil
}

func (c *Collector) validateNamespace(ctx context.Context) error {
	if c.inv == nil {
		cs, err := c.buildClient(c.cfg.Connection)
		if err != nil {
			return stderrors.Wrap(stderrors.ErrCodeInvalidRequest, "failed to configure cluster access", err)
		}
		c.inv = inventory.New(cs)
	}

	ok, err := c.inv.NamespaceExists(ctx, c.cfg.Namespace)
	if err != nil {
		if cerr := c.checkCanceled(ctx); cerr != nil {
			return cerr
		}
		return stderrors.Wrap(stderrors.ErrCodeUnavailable, "cluster is not reachable", err)
	}
	if !ok {
		return stderrors.NewWithContext(stderrors.ErrCodeNotFound,
			fmt.Sprintf("namespace %q does not exist", c.cfg.Namespace),
			map[string]any{"namespace": c.cfg.Namespace})
	}
	return nil
}

func (c *Collector) archive(ctx context.Context, staging *Staging) (string, error) {
	dest, err := filepath.Abs(filepath.Join(c.cfg.OutputDir, staging.Name+archive.Extension))
	if err != nil {
		return "", stderrors.Wrap(stderrors.ErrCodeInternal, "failed to resolve archive path", err)
	}

	actx, cancel := context.WithTimeout(ctx, defaults.ArchiveTimeout)
	defer cancel()

	slog.Info("creating archive", slog.String("path", dest))
	if err := archive.Create(actx, staging.Dir, dest); err != nil {
		if cerr := c.checkCanceled(ctx); cerr != nil {
			return "", cerr
		}
		return "", stderrors.Wrap(stderrors.ErrCodeInternal, "failed to create archive", err)
	}
	return dest, nil
}
