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
	"path"

	"github.com/PaloAltoNetworks/konnector-cli/pkg/k8s/inventory"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/k8s/kubectl"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// PrimaryRelease is the Helm release named in bundle file names.
	PrimaryRelease = "konnector"
	// LegacyRelease is the release name used by older installs.
	LegacyRelease = "k8s-connector-release"
)

// Releases returns the Helm releases collected, in collection order.
func Releases() []string {
	return []string{PrimaryRelease, LegacyRelease}
}

// Section IDs in collection order. Each is also the artifact subdirectory.
const (
	SectionCluster   = "cluster"
	SectionNamespace = "namespace"
	SectionHelm      = "helm"
	SectionWorkloads = "workloads"
	SectionLogs      = "logs"
	SectionOperator  = "operator"
)

type section struct {
	id      string
	collect func(ctx context.Context, r *run) error
}

func sections() []section {
	return []section{
		{id: SectionCluster, collect: collectCluster},
		{id: SectionNamespace, collect: collectNamespace},
		{id: SectionHelm, collect: collectHelm},
		{id: SectionWorkloads, collect: collectWorkloads},
		{id: SectionLogs, collect: collectLogs},
		{id: SectionOperator, collect: collectOperator},
	}
}

// SectionIDs returns the section IDs in collection order.
func SectionIDs() []string {
	all := sections()
	ids := make([]string, 0, len(all))
	for _, s := range all {
		ids = append(ids, s.id)
	}
	return ids
}

var titleCaser = cases.Title(language.English)

func sectionTitle(id string) string {
	return titleCaser.String(id)
}

// run carries the per-run state shared by the section collectors.
type run struct {
	exec      *Executor
	kube      KubeClient
	helm      HelmClient
	inv       Enumerator
	namespace string
	artifacts []Artifact
}

func (r *run) execute(ctx context.Context, title, relPath string, q Query) {
	r.artifacts = append(r.artifacts, r.exec.Execute(ctx, title, relPath, q))
}

func (r *run) executeExpected(ctx context.Context, title, relPath string, q Query) {
	r.artifacts = append(r.artifacts, r.exec.ExecuteExpected(ctx, title, relPath, q))
}

func collectCluster(ctx context.Context, r *run) error {
	r.execute(ctx, "cluster info", "cluster/cluster-info.txt", r.kube.ClusterInfo)
	r.execute(ctx, "version", "cluster/version.txt", r.kube.Version)
	r.execute(ctx, "nodes", "cluster/nodes.txt", func(ctx context.Context) ([]byte, error) {
		return r.kube.Get(ctx, "nodes", kubectl.GetOptions{Output: kubectl.OutputWide})
	})
	return ctx.Err()
}

func collectNamespace(ctx context.Context, r *run) error {
	r.execute(ctx, "events", "namespace/events.txt", func(ctx context.Context) ([]byte, error) {
		return r.kube.Get(ctx, "events", kubectl.GetOptions{Namespace: r.namespace, SortBy: ".lastTimestamp"})
	})
	return ctx.Err()
}

func collectHelm(ctx context.Context, r *run) error {
	for _, rel := range Releases() {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.execute(ctx, "status "+rel, path.Join(SectionHelm, "status-"+rel+".txt"), func(ctx context.Context) ([]byte, error) {
			return r.helm.Status(ctx, rel, r.namespace)
		})
		r.execute(ctx, "values "+rel, path.Join(SectionHelm, "values-"+rel+".yaml"), func(ctx context.Context) ([]byte, error) {
			return r.helm.Values(ctx, rel, r.namespace, true)
		})
	}
	return ctx.Err()
}

func collectWorkloads(ctx context.Context, r *run) error {
	r.execute(ctx, "all resources", "workloads/all-wide.txt", func(ctx context.Context) ([]byte, error) {
		return r.kube.Get(ctx, "all", kubectl.GetOptions{Namespace: r.namespace, Output: kubectl.OutputWide})
	})
	r.execute(ctx, "all resources yaml", "workloads/all.yaml", func(ctx context.Context) ([]byte, error) {
		return r.kube.Get(ctx, "all", kubectl.GetOptions{Namespace: r.namespace, Output: kubectl.OutputYAML})
	})

	for _, kind := range inventory.Kinds() {
		if err := ctx.Err(); err != nil {
			return err
		}
		names := r.inv.List(ctx, kind, r.namespace)
		if len(names) == 0 {
			continue
		}
		slog.Info("describing resources", slog.String("kind", string(kind)), slog.Int("count", len(names)))
		for _, name := range names {
			if err := ctx.Err(); err != nil {
				return err
			}
			k := string(kind)
			r.execute(ctx, fmt.Sprintf("describe %s %s", k, name), path.Join(SectionWorkloads, k, name),
				func(ctx context.Context) ([]byte, error) {
					return r.kube.Describe(ctx, k, name, r.namespace)
				})
		}
	}
	return ctx.Err()
}

func collectLogs(ctx context.Context, r *run) error {
	for _, pod := range r.inv.List(ctx, inventory.KindPod, r.namespace) {
		for _, container := range r.inv.Containers(ctx, pod, r.namespace) {
			if err := ctx.Err(); err != nil {
				return err
			}
			slog.Info("collecting container logs", slog.String("pod", pod), slog.String("container", container))

			base := path.Join(SectionLogs, pod+"_"+container)
			r.execute(ctx, fmt.Sprintf("logs %s/%s", pod, container), base+".log",
				func(ctx context.Context) ([]byte, error) {
					return r.kube.Logs(ctx, pod, container, r.namespace, false)
				})
			r.executeExpected(ctx, fmt.Sprintf("previous logs %s/%s", pod, container), base+".previous.log",
				func(ctx context.Context) ([]byte, error) {
					return r.kube.Logs(ctx, pod, container, r.namespace, true)
				})
		}
	}
	return ctx.Err()
}

func collectOperator(ctx context.Context, r *run) error {
	selector, selErr := kubectl.InstanceSelector(Releases()...)
	webhooks := []struct {
		resource string
		file     string
	}{
		{"validatingwebhookconfigurations", "operator/validating-webhooks.yaml"},
		{"mutatingwebhookconfigurations", "operator/mutating-webhooks.yaml"},
	}
	for _, wh := range webhooks {
		r.execute(ctx, wh.resource, wh.file, func(ctx context.Context) ([]byte, error) {
			if selErr != nil {
				return nil, selErr
			}
			return r.kube.Get(ctx, wh.resource, kubectl.GetOptions{Selector: selector, Output: kubectl.OutputYAML})
		})
	}
	return ctx.Err()
}
