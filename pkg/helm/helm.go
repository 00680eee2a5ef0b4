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

package helm

import (
	"context"

	"github.com/PaloAltoNetworks/konnector-cli/pkg/k8s/client"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/runner"
	utilexec "k8s.io/utils/exec"
)

// Binary is the helm executable name resolved on PATH.
const Binary = "helm"

// Client queries Helm release state.
type Client struct {
	runner *runner.Runner
}

// New returns a Client for conn. A nil e uses the host.
func New(e utilexec.Interface, conn client.Connection) *Client {
	return &Client{runner: runner.New(e, Binary, conn.HelmArgs()...)}
}

// Status returns the release status report.
func (c *Client) Status(ctx context.Context, release, namespace string) ([]byte, error) {
	return c.runner.Run(ctx, "status", release, "-n", namespace)
}

// Values returns the release values as YAML. includeDefaults adds the
// chart defaults to the user-supplied values.
func (c *Client) Values(ctx context.Context, release, namespace string, includeDefaults bool) ([]byte, error) {
	args := []string{"get", "values", release, "-n", namespace, "-o", "yaml"}
	if includeDefaults {
		args = append(args, "--all")
	}
	return c.runner.Run(ctx, args...)
}
