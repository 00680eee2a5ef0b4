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

package kubectl

import (
	"context"
	"fmt"
	"sort"

	"github.com/PaloAltoNetworks/konnector-cli/pkg/defaults"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/k8s/client"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/runner"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/selection"
	utilexec "k8s.io/utils/exec"
)

// Binary is the kubectl executable name resolved on PATH.
const Binary = "kubectl"

// Output selects the kubectl output format.
type Output string

const (
	// OutputDefault leaves the format to kubectl.
	OutputDefault Output = ""
	// OutputWide renders tables with extra columns.
	OutputWide Output = "wide"
	// OutputYAML renders full objects as YAML.
	OutputYAML Output = "yaml"
)

// GetOptions narrows a get query.
type GetOptions struct {
	Namespace string
	Output    Output
	SortBy    string
	Selector  string
}

// Client runs kubectl argument vectors against one cluster connection.
type Client struct {
	runner *runner.Runner
}

// New returns a Client using e for process execution. A nil e uses the host.
func New(e utilexec.Interface, conn client.Connection) *Client {
	global := append(conn.KubectlArgs(), fmt.Sprintf("--request-timeout=%s", defaults.RequestTimeout))
	return &Client{runner: runner.New(e, Binary, global...)}
}

// Get lists resources of kind. kind may be a comma-separated list such as "all".
func (c *Client) Get(ctx context.Context, kind string, opts GetOptions) ([]byte, error) {
	args := []string{"get", kind}
	args = appendNamespace(args, opts.Namespace)
	if opts.Selector != "" {
		args = append(args, "-l", opts.Selector)
	}
	if opts.Output != OutputDefault {
		args = append(args, "-o", string(opts.Output))
	}
	if opts.SortBy != "" {
		args = append(args, "--sort-by="+opts.SortBy)
	}
	return c.runner.Run(ctx, args...)
}

// Describe returns the human-readable description of a single object.
func (c *Client) Describe(ctx context.Context, kind, name, namespace string) ([]byte, error) {
	args := appendNamespace([]string{"describe", kind, name}, namespace)
	return c.runner.Run(ctx, args...)
}

// Logs returns the logs of one container. previous selects the prior
// terminated instance, which usually does not exist.
func (c *Client) Logs(ctx context.Context, pod, container, namespace string, previous bool) ([]byte, error) {
	args := appendNamespace([]string{"logs", pod, "-c", container}, namespace)
	if previous {
		args = append(args, "--previous")
	}
	return c.runner.Run(ctx, args...)
}

// ClusterInfo returns the control plane endpoints.
func (c *Client) ClusterInfo(ctx context.Context) ([]byte, error) {
	return c.runner.Run(ctx, "cluster-info")
}

// Version returns client and server versions.
func (c *Client) Version(ctx context.Context) ([]byte, error) {
	return c.runner.Run(ctx, "version")
}

func appendNamespace(args []string, namespace string) []string {
	if namespace == "" {
		return args
	}
	return append(args, "-n", namespace)
}

// InstanceSelector returns a label selector matching any of the given
// app.kubernetes.io/instance values.
func InstanceSelector(instances ...string) (string, error) {
	values := append([]string(nil), instances...)
	sort.Strings(values)
	req, err := labels.NewRequirement(InstanceLabel, selection.In, values)
	if err != nil {
		return "", fmt.Errorf("invalid instance selector: %w", err)
	}
	return labels.NewSelector().Add(*req).String(), nil
}

// InstanceLabel is the well-known label naming a Helm release instance.
const InstanceLabel = "app.kubernetes.io/instance"
