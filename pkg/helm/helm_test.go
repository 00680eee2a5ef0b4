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
	"errors"
	"testing"

	"github.com/PaloAltoNetworks/konnector-cli/pkg/k8s/client"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	utilexec "k8s.io/utils/exec"
	testingexec "k8s.io/utils/exec/testing"
)

func scripted(out string, err error) (*testingexec.FakeExec, *testingexec.FakeCmd) {
	fcmd := &testingexec.FakeCmd{
		CombinedOutputScript: []testingexec.FakeAction{
			func() ([]byte, []byte, error) { return []byte(out), nil, err },
		},
	}
	return &testingexec.FakeExec{
		CommandScript: []testingexec.FakeCommandAction{
			func(cmd string, args ...string) utilexec.Cmd {
				return testingexec.InitFakeCmd(fcmd, cmd, args...)
			},
		},
	}, fcmd
}

func TestStatus(t *testing.T) {
	fexec, fcmd := scripted("STATUS: deployed", nil)
	c := New(fexec, client.Connection{Context: "prod"})

	out, err := c.Status(context.Background(), "konnector", "panw")
	require.NoError(t, err)
	assert.Equal(t, "STATUS: deployed", string(out))
	assert.Equal(t, []string{"helm", "status", "konnector", "-n", "panw", "--kube-context", "prod"}, fcmd.CombinedOutputLog[0])
}

func TestValues(t *testing.T) {
	tests := []struct {
		name     string
		defaults bool
		want     []string
	}{
		{
			name: "user values",
			want: []string{"helm", "get", "values", "konnector", "-n", "panw", "-o", "yaml", "--kubeconfig", "/tmp/kc"},
		},
		{
			name:     "computed values",
			defaults: true,
			want:     []string{"helm", "get", "values", "konnector", "-n", "panw", "-o", "yaml", "--all", "--kubeconfig", "/tmp/kc"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fexec, fcmd := scripted("replicas: 1\n", nil)
			c := New(fexec, client.Connection{Kubeconfig: "/tmp/kc"})

			_, err := c.Values(context.Background(), "konnector", "panw", tt.defaults)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fcmd.CombinedOutputLog[0])
		})
	}
}

func TestStatus_ReleaseNotFound(t *testing.T) {
	fexec, _ := scripted("Error: release: not found", &testingexec.FakeExitError{Status: 1})
	c := New(fexec, client.Connection{})

	out, err := c.Status(context.Background(), "k8s-connector-release", "panw")
	require.Error(t, err)
	assert.Equal(t, "Error: release: not found", string(out))

	var qe *runner.QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, 1, qe.ExitCode)
}
