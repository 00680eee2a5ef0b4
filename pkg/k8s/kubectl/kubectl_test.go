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
	"testing"

	"github.com/PaloAltoNetworks/konnector-cli/pkg/k8s/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	utilexec "k8s.io/utils/exec"
	testingexec "k8s.io/utils/exec/testing"
)

// recorder returns a FakeExec that records n invocations, all succeeding.
func recorder(n int) (*testingexec.FakeExec, *[][]string) {
	var calls [][]string
	fexec := &testingexec.FakeExec{}
	for i := 0; i < n; i++ {
		fexec.CommandScript = append(fexec.CommandScript, func(cmd string, args ...string) utilexec.Cmd {
			calls = append(calls, append([]string{cmd}, args...))
			return testingexec.InitFakeCmd(&testingexec.FakeCmd{
				CombinedOutputScript: []testingexec.FakeAction{
					func() ([]byte, []byte, error) { return []byte("ok"), nil, nil },
				},
			}, cmd, args...)
		})
	}
	return fexec, &calls
}

func TestClientArgs(t *testing.T) {
	conn := client.Connection{Kubeconfig: "/tmp/kc", Context: "prod"}
	global := []string{"--kubeconfig", "/tmp/kc", "--context", "prod", "--request-timeout=1m30s"}

	tests := []struct {
		name string
		call func(ctx context.Context, c *Client) ([]byte, error)
		want []string
	}{
		{
			name: "get wide",
			call: func(ctx context.Context, c *Client) ([]byte, error) {
				return c.Get(ctx, "nodes", GetOptions{Output: OutputWide})
			},
			want: []string{"kubectl", "get", "nodes", "-o", "wide"},
		},
		{
			name: "get events sorted",
			call: func(ctx context.Context, c *Client) ([]byte, error) {
				return c.Get(ctx, "events", GetOptions{Namespace: "panw", SortBy: ".lastTimestamp"})
			},
			want: []string{"kubectl", "get", "events", "-n", "panw", "--sort-by=.lastTimestamp"},
		},
		{
			name: "get with selector",
			call: func(ctx context.Context, c *Client) ([]byte, error) {
				return c.Get(ctx, "validatingwebhookconfigurations", GetOptions{Selector: "a in (b)", Output: OutputYAML})
			},
			want: []string{"kubectl", "get", "validatingwebhookconfigurations", "-l", "a in (b)", "-o", "yaml"},
		},
		{
			name: "describe",
			call: func(ctx context.Context, c *Client) ([]byte, error) {
				return c.Describe(ctx, "pod", "agent-0", "panw")
			},
			want: []string{"kubectl", "describe", "pod", "agent-0", "-n", "panw"},
		},
		{
			name: "logs",
			call: func(ctx context.Context, c *Client) ([]byte, error) {
				return c.Logs(ctx, "agent-0", "main", "panw", false)
			},
			want: []string{"kubectl", "logs", "agent-0", "-c", "main", "-n", "panw"},
		},
		{
			name: "previous logs",
			call: func(ctx context.Context, c *Client) ([]byte, error) {
				return c.Logs(ctx, "agent-0", "main", "panw", true)
			},
			want: []string{"kubectl", "logs", "agent-0", "-c", "main", "-n", "panw", "--previous"},
		},
		{
			name: "cluster-info",
			call: func(ctx context.Context, c *Client) ([]byte, error) {
				return c.ClusterInfo(ctx)
			},
			want: []string{"kubectl", "cluster-info"},
		},
		{
			name: "version",
			call: func(ctx context.Context, c *Client) ([]byte, error) {
				return c.Version(ctx)
			},
			want: []string{"kubectl", "version"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fexec, calls := recorder(1)
			c := New(fexec, conn)

			out, err := tt.call(context.Background(), c)
			require.NoError(t, err)
			assert.Equal(t, "ok", string(out))
			require.Len(t, *calls, 1)
			assert.Equal(t, append(tt.want, global...), (*calls)[0])
		})
	}
}

func TestInstanceSelector(t *testing.T) {
	sel, err := InstanceSelector("konnector", "k8s-connector-release")
	require.NoError(t, err)
	assert.Equal(t, "app.kubernetes.io/instance in (k8s-connector-release,konnector)", sel)

	_, err = InstanceSelector()
	assert.Error(t, err)
}
