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

package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PaloAltoNetworks/konnector-cli/pkg/bundle"
	apperrors "github.com/PaloAltoNetworks/konnector-cli/pkg/errors"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/oci"
)

type fakeCollector struct {
	res *bundle.Result
	err error
}

func (f *fakeCollector) Run(context.Context) (*bundle.Result, error) {
	return f.res, f.err
}

// testApp records collector construction instead of touching a cluster.
type testApp struct {
	*app
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	configs []bundle.Config
	options [][]bundle.Option
	sources []*oci.Reference
	result  *fakeCollector
}

func newTestApp() *testApp {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	t := &testApp{
		app:    newApp(stdout, stderr),
		stdout: stdout,
		stderr: stderr,
		result: &fakeCollector{res: &bundle.Result{ArchivePath: "/work/konnector-support-bundle-panw-konnector-20261015-093000.tar.gz"}},
	}
	t.version = "v1.4.0"
	t.newCollector = func(cfg bundle.Config, opts ...bundle.Option) collector {
		t.configs = append(t.configs, cfg)
		t.options = append(t.options, opts)
		return t.result
	}
	t.newSource = func(ref *oci.Reference, _ oci.RepositoryOptions) (oci.Source, error) {
		t.sources = append(t.sources, ref)
		return newRegistry(), nil
	}
	return t
}

func TestCollectLogs_Flags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bundle.Config
	}{
		{
			name: "defaults",
			args: []string{"collect-logs"},
			want: bundle.Config{Namespace: "panw", OutputDir: "."},
		},
		{
			name: "separate values",
			args: []string{"collect-logs", "--namespace", "konnector", "--kubeconfig", "/tmp/kc", "--context", "prod"},
			want: bundle.Config{Namespace: "konnector", OutputDir: "."},
		},
		{
			name: "equals values",
			args: []string{"collect-logs", "--namespace=konnector", "--kubeconfig=/tmp/kc", "--context=prod"},
			want: bundle.Config{Namespace: "konnector", OutputDir: "."},
		},
		{
			name: "short namespace",
			args: []string{"collect-logs", "-n", "konnector", "--output-dir", "/out"},
			want: bundle.Config{Namespace: "konnector", OutputDir: "/out"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp()

			code := a.run(context.Background(), append([]string{"konnector"}, tt.args...))
			require.Equal(t, exitOK, code, a.stderr.String())
			require.Len(t, a.configs, 1)

			got := a.configs[0]
			assert.Equal(t, tt.want.Namespace, got.Namespace)
			assert.Equal(t, tt.want.OutputDir, got.OutputDir)
			assert.Equal(t, "v1.4.0", got.ToolVersion)
			if strings.Contains(strings.Join(tt.args, " "), "prod") {
				assert.Equal(t, "/tmp/kc", got.Connection.Kubeconfig)
				assert.Equal(t, "prod", got.Connection.Context)
			}

			lines := strings.Split(strings.TrimSpace(a.stdout.String()), "\n")
			assert.Equal(t, a.result.res.ArchivePath, lines[len(lines)-1])
		})
	}
}

func TestCollectLogs_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown flag", args: []string{"collect-logs", "--bogus"}, want: "bogus"},
		{name: "missing value", args: []string{"collect-logs", "--namespace"}, want: "namespace"},
		{name: "empty namespace", args: []string{"collect-logs", "--namespace="}, want: "namespace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp()

			code := a.run(context.Background(), append([]string{"konnector"}, tt.args...))
			assert.Equal(t, exitFatal, code)
			assert.Empty(t, a.configs, "no collection may start")
			assert.Contains(t, a.stderr.String(), tt.want)
		})
	}
}

func TestCollectLogs_FatalError(t *testing.T) {
	a := newTestApp()
	a.result = &fakeCollector{err: apperrors.New(apperrors.ErrCodeNotFound, `namespace "panw" does not exist`)}

	code := a.run(context.Background(), []string{"konnector", "collect-logs"})
	assert.Equal(t, exitFatal, code)
	assert.Contains(t, a.stderr.String(), "does not exist")
	assert.Empty(t, a.stdout.String())
}

func TestCollectLogs_Canceled(t *testing.T) {
	a := newTestApp()
	a.result = &fakeCollector{err: apperrors.Wrap(apperrors.ErrCodeCanceled, "collection interrupted", context.Canceled)}

	code := a.run(context.Background(), []string{"konnector", "collect-logs"})
	assert.Equal(t, exitCanceled, code)
}

func TestCollectLogs_PartialFailuresStillSucceed(t *testing.T) {
	a := newTestApp()
	a.result.res.Artifacts = []bundle.Artifact{
		{Path: "logs/agent-0_agent.previous.log", Expected: true, Err: errors.New("exit status 1")},
		{Path: "helm/status-k8s-connector-release.txt", Err: errors.New("exit status 1")},
		{Path: "cluster/version.txt"},
	}

	code := a.run(context.Background(), []string{"konnector", "collect-logs"})
	assert.Equal(t, exitOK, code)
	assert.Contains(t, a.stderr.String(), "1 of 3 queries failed")
}

func TestCollectLogs_UpdateGate(t *testing.T) {
	a := newTestApp()

	code := a.run(context.Background(), []string{"konnector", "collect-logs",
		"--update-repository", "oci://ghcr.io/paloaltonetworks/konnector"})
	require.Equal(t, exitOK, code, a.stderr.String())
	require.Len(t, a.sources, 1)
	assert.Equal(t, "paloaltonetworks/konnector", a.sources[0].Repository)
	assert.Len(t, a.options[0], 1)

	skip := newTestApp()
	code = skip.run(context.Background(), []string{"konnector", "collect-logs",
		"--update-repository", "oci://ghcr.io/paloaltonetworks/konnector", "--skip-update-check"})
	require.Equal(t, exitOK, code)
	assert.Empty(t, skip.sources)
	assert.Empty(t, skip.options[0])

	bad := newTestApp()
	code = bad.run(context.Background(), []string{"konnector", "collect-logs", "--update-repository", "oci://"})
	assert.Equal(t, exitFatal, code)
	assert.Empty(t, bad.configs)
}

func TestExitCode(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, exitOK, exitCode(context.Background(), nil))
	assert.Equal(t, exitFatal, exitCode(context.Background(), errors.New("boom")))
	assert.Equal(t, exitFatal, exitCode(context.Background(), apperrors.New(apperrors.ErrCodeDependencyMissing, "helm")))
	assert.Equal(t, exitCanceled, exitCode(context.Background(), apperrors.New(apperrors.ErrCodeCanceled, "x")))
	assert.Equal(t, exitCanceled, exitCode(canceled, errors.New("signal: killed")))
}

func TestSuggestFlag(t *testing.T) {
	a := newTestApp()
	cmd := a.collectLogsCmd()

	assert.Equal(t, "namespace", suggestFlag(cmd, errors.New("flag provided but not defined: -namespce")))
	assert.Equal(t, "context", suggestFlag(cmd, errors.New("flag provided but not defined: -contxt")))
	assert.Empty(t, suggestFlag(cmd, errors.New("flag provided but not defined: -bogus")))
	assert.Empty(t, suggestFlag(cmd, errors.New("flag needs an argument: -namespace")))
}

func TestVersionCmd(t *testing.T) {
	a := newTestApp()
	code := a.run(context.Background(), []string{"konnector", "version"})
	require.Equal(t, exitOK, code)
	assert.Contains(t, a.stdout.String(), "konnector v1.4.0")
}
