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
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutor_Success(t *testing.T) {
	root := t.TempDir()
	m := NewMetrics()
	e := NewExecutor(root, m)

	a := e.Execute(context.Background(), "version", "cluster/version.txt", func(context.Context) ([]byte, error) {
		return []byte("v1.35.0\n"), nil
	})
	require.True(t, a.OK())
	assert.Equal(t, SectionCluster, a.Section)
	assert.Equal(t, 8, a.Bytes)

	data, err := os.ReadFile(filepath.Join(root, "cluster", "version.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v1.35.0\n", string(data))

	assert.InDelta(t, 1, testutil.ToFloat64(m.queries.WithLabelValues(SectionCluster, resultSuccess)), 0)
	assert.InDelta(t, 8, testutil.ToFloat64(m.bytesWritten.WithLabelValues(SectionCluster)), 0)
}

func TestExecutor_FailureKeepsOutput(t *testing.T) {
	tests := []struct {
		name     string
		out      []byte
		expected bool
		want     string
		result   string
	}{
		{
			name:   "captured output",
			out:    []byte("Error: release: not found\n"),
			want:   "Error: release: not found\n",
			result: resultFailure,
		},
		{
			name:   "no output",
			want:   "exit status 1\n",
			result: resultFailure,
		},
		{
			name:     "expected failure",
			out:      []byte("previous terminated container not found\n"),
			expected: true,
			want:     "previous terminated container not found\n",
			result:   resultExpectedFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			root := t.TempDir()
			m := NewMetrics()
			e := NewExecutor(root, m)
			q := func(context.Context) ([]byte, error) {
				return tt.out, errors.New("exit status 1")
			}

			var a Artifact
			if tt.expected {
				a = e.ExecuteExpected(context.Background(), "t", "logs/p_c.previous.log", q)
			} else {
				a = e.Execute(context.Background(), "t", "logs/p_c.previous.log", q)
			}
			require.False(t, a.OK())
			assert.Equal(t, tt.expected, a.Expected)

			data, err := os.ReadFile(filepath.Join(root, "logs", "p_c.previous.log"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
			assert.InDelta(t, 1, testutil.ToFloat64(m.queries.WithLabelValues(SectionLogs, tt.result)), 0)

			records := logs()
			level := slog.LevelWarn
			if tt.expected {
				level = slog.LevelDebug
				assert.Empty(t, recordsAt(records, slog.LevelWarn))
			}
			failed := recordsAt(records, level)
			require.Len(t, failed, 1)
			assert.Equal(t, "query failed", failed[0][slog.MessageKey])
			assert.Equal(t, "logs/p_c.previous.log", failed[0]["path"])
		})
	}
}

func TestExecutor_WriteOnce(t *testing.T) {
	root := t.TempDir()
	e := NewExecutor(root, nil)
	q := func(context.Context) ([]byte, error) { return []byte("first"), nil }

	require.True(t, e.Execute(context.Background(), "t", "namespace/events.txt", q).OK())

	again := e.Execute(context.Background(), "t", "namespace/events.txt", func(context.Context) ([]byte, error) {
		return []byte("second"), nil
	})
	assert.False(t, again.OK())

	data, err := os.ReadFile(filepath.Join(root, "namespace", "events.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestExecutor_RejectsEscapingPath(t *testing.T) {
	root := filepath.Join(t.TempDir(), "stage")
	require.NoError(t, os.Mkdir(root, 0o700))
	e := NewExecutor(root, nil)

	a := e.Execute(context.Background(), "t", "../outside.txt", func(context.Context) ([]byte, error) {
		return []byte("x"), nil
	})
	require.False(t, a.OK())
	assert.True(t, strings.Contains(a.Err.Error(), "escapes"))
	_, err := os.Stat(filepath.Join(filepath.Dir(root), "outside.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestExecutor_Timeout(t *testing.T) {
	e := NewExecutor(t.TempDir(), nil)
	e.timeout = 10 * time.Millisecond

	a := e.Execute(context.Background(), "t", "cluster/nodes.txt", func(ctx context.Context) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	require.False(t, a.OK())
	assert.True(t, errors.Is(a.Err, context.DeadlineExceeded))
}

func TestExecutor_CanceledBeforeStart(t *testing.T) {
	e := NewExecutor(t.TempDir(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	a := e.Execute(ctx, "t", "cluster/nodes.txt", func(context.Context) ([]byte, error) {
		called = true
		return nil, nil
	})
	assert.False(t, called)
	assert.False(t, a.OK())
}

func TestMetrics_WriteText(t *testing.T) {
	m := NewMetrics()
	m.observe(Artifact{Section: SectionHelm, Bytes: 10, Duration: time.Second})

	var sb strings.Builder
	require.NoError(t, m.WriteText(&sb))
	out := sb.String()
	assert.Contains(t, out, `konnector_bundle_queries_total{result="success",section="helm"} 1`)
	assert.Contains(t, out, `konnector_bundle_artifact_bytes_total{section="helm"} 10`)
}

func TestSectionOf(t *testing.T) {
	assert.Equal(t, "workloads", sectionOf("workloads/pod/agent-0"))
	assert.Equal(t, "manifest.yaml", sectionOf("manifest.yaml"))
}

func TestSectionTitle(t *testing.T) {
	assert.Equal(t, "Workloads", sectionTitle(SectionWorkloads))
	assert.Equal(t, []string{"cluster", "namespace", "helm", "workloads", "logs", "operator"}, SectionIDs())
}
