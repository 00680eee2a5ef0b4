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
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/PaloAltoNetworks/konnector-cli/pkg/k8s/inventory"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/k8s/kubectl"
	"github.com/stretchr/testify/require"
	utilexec "k8s.io/utils/exec"
	testingexec "k8s.io/utils/exec/testing"
)

// fakeKube answers every query with a deterministic body. Previous logs
// fail the way kubectl does for containers that never restarted.
type fakeKube struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	hook  func(call string)
}

func (f *fakeKube) record(call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	hook := f.hook
	err := f.fail[call]
	f.mu.Unlock()
	if hook != nil {
		hook(call)
	}
	return err
}

func (f *fakeKube) Get(_ context.Context, kind string, opts kubectl.GetOptions) ([]byte, error) {
	call := fmt.Sprintf("get %s %s", kind, opts.Output)
	if err := f.record(call); err != nil {
		return nil, err
	}
	return []byte(call + "\n"), nil
}

func (f *fakeKube) Describe(_ context.Context, kind, name, _ string) ([]byte, error) {
	call := fmt.Sprintf("describe %s %s", kind, name)
	if err := f.record(call); err != nil {
		return nil, err
	}
	return []byte("Name: " + name + "\n"), nil
}

func (f *fakeKube) Logs(_ context.Context, pod, container, _ string, previous bool) ([]byte, error) {
	call := fmt.Sprintf("logs %s %s previous=%t", pod, container, previous)
	if err := f.record(call); err != nil {
		return nil, err
	}
	if previous {
		return []byte("Error from server (BadRequest): previous terminated container \"" + container + "\" in pod \"" + pod + "\" not found\n"),
			errors.New("exit status 1")
	}
	return []byte("started " + container + "\n"), nil
}

func (f *fakeKube) ClusterInfo(context.Context) ([]byte, error) {
	if err := f.record("cluster-info"); err != nil {
		return nil, err
	}
	return []byte("Kubernetes control plane is running\n"), nil
}

func (f *fakeKube) Version(context.Context) ([]byte, error) {
	if err := f.record("version"); err != nil {
		return nil, err
	}
	return []byte("Server Version: v1.35.0\n"), nil
}

func (f *fakeKube) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// fakeHelm knows only the releases in status.
type fakeHelm struct {
	status map[string]string
}

func (f *fakeHelm) Status(_ context.Context, release, _ string) ([]byte, error) {
	s, ok := f.status[release]
	if !ok {
		return []byte("Error: release: not found\n"), errors.New("exit status 1")
	}
	return []byte("NAME: " + release + "\nSTATUS: " + s + "\n"), nil
}

func (f *fakeHelm) Values(_ context.Context, release, _ string, _ bool) ([]byte, error) {
	if _, ok := f.status[release]; !ok {
		return []byte("Error: release: not found\n"), errors.New("exit status 1")
	}
	return []byte("replicaCount: 1\n"), nil
}

// fakeEnum serves a static inventory of one namespace.
type fakeEnum struct {
	namespace  string
	err        error
	resources  map[inventory.Kind][]string
	containers map[string][]string
	nsChecks   int
}

func (f *fakeEnum) List(_ context.Context, kind inventory.Kind, namespace string) []string {
	if namespace != f.namespace {
		return nil
	}
	return f.resources[kind]
}

func (f *fakeEnum) Containers(_ context.Context, pod, _ string) []string {
	return f.containers[pod]
}

func (f *fakeEnum) NamespaceExists(_ context.Context, namespace string) (bool, error) {
	f.nsChecks++
	if f.err != nil {
		return false, f.err
	}
	return namespace == f.namespace, nil
}

// pathExec resolves only the listed tools.
func pathExec(tools ...string) *testingexec.FakeExec {
	return &testingexec.FakeExec{
		LookPathFunc: func(file string) (string, error) {
			for _, t := range tools {
				if t == file {
					return "/usr/bin/" + file, nil
				}
			}
			return "", utilexec.ErrExecutableNotFound
		},
	}
}

// readArchive returns the content of every regular file in a tar.gz.
func readArchive(t *testing.T, p string) map[string]string {
	t.Helper()
	f, err := os.Open(p)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	files := map[string]string{}
	tr := tar.NewReader(gz)
	for {
		h, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return files
		}
		require.NoError(t, err)
		if h.Typeflag != tar.TypeReg {
			files[h.Name] = ""
			continue
		}
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		files[h.Name] = string(data)
	}
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// logRecord is one decoded slog JSON line.
type logRecord map[string]any

// captureLogs routes the default logger into a buffer until the test ends.
func captureLogs(t *testing.T) func() []logRecord {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	return func() []logRecord {
		var records []logRecord
		for _, line := range bytes.Split(buf.Bytes(), []byte("\n")) {
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			var r logRecord
			require.NoError(t, json.Unmarshal(line, &r))
			records = append(records, r)
		}
		return records
	}
}

func recordsAt(records []logRecord, level slog.Level) []logRecord {
	var out []logRecord
	for _, r := range records {
		if r[slog.LevelKey] == level.String() {
			out = append(out, r)
		}
	}
	return out
}
