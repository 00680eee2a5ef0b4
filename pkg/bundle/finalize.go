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
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PaloAltoNetworks/konnector-cli/pkg/header"
	"gopkg.in/yaml.v3"
)

// Files written by the finalize step, relative to the staging root.
const (
	ManifestFileName = "manifest.yaml"
	ChecksumFileName = "checksums.txt"
	MetricsFileName  = "metrics.prom"
)

// Manifest describes a bundle's contents.
type Manifest struct {
	header.Header `yaml:",inline"`

	RunID       string          `yaml:"runID"`
	ToolVersion string          `yaml:"toolVersion"`
	Namespace   string          `yaml:"namespace"`
	Release     string          `yaml:"release"`
	Context     string          `yaml:"context,omitempty"`
	StartedAt   time.Time       `yaml:"startedAt"`
	FinishedAt  time.Time       `yaml:"finishedAt"`
	Sections    []string        `yaml:"sections"`
	Summary     ManifestSummary `yaml:"summary"`
	Artifacts   []ManifestEntry `yaml:"artifacts"`
}

// ManifestSummary counts artifact outcomes.
type ManifestSummary struct {
	Total          int `yaml:"total"`
	Failed         int `yaml:"failed"`
	ExpectedFailed int `yaml:"expectedFailed"`
}

// ManifestEntry is the manifest form of an Artifact.
type ManifestEntry struct {
	Section  string `yaml:"section"`
	Path     string `yaml:"path"`
	Title    string `yaml:"title"`
	OK       bool   `yaml:"ok"`
	Expected bool   `yaml:"expected,omitempty"`
	Bytes    int    `yaml:"bytes"`
	Error    string `yaml:"error,omitempty"`
}

func newManifest(runID, toolVersion, namespace, kubeContext string, started, finished time.Time, artifacts []Artifact) *Manifest {
	m := &Manifest{
		Header: header.New(header.KindBundleManifest,
			header.WithTimestamp(finished),
			header.WithMetadata("runID", runID)),
		RunID:       runID,
		ToolVersion: toolVersion,
		Namespace:   namespace,
		Release:     PrimaryRelease,
		Context:     kubeContext,
		StartedAt:   started.UTC(),
		FinishedAt:  finished.UTC(),
		Sections:    SectionIDs(),
		Artifacts:   make([]ManifestEntry, 0, len(artifacts)),
	}
	for _, a := range artifacts {
		e := ManifestEntry{
			Section:  a.Section,
			Path:     a.Path,
			Title:    a.Title,
			OK:       a.OK(),
			Expected: a.Expected,
			Bytes:    a.Bytes,
		}
		m.Summary.Total++
		if a.Err != nil {
			e.Error = a.Err.Error()
			if a.Expected {
				m.Summary.ExpectedFailed++
			} else {
				m.Summary.Failed++
			}
		}
		m.Artifacts = append(m.Artifacts, e)
	}
	return m
}

// finalize writes the manifest, checksums, and metrics into the staging
// root. Problems are logged and never abort the run.
func finalize(ctx context.Context, root string, m *Manifest, metrics *Metrics) {
	if data, err := yaml.Marshal(m); err != nil {
		slog.Warn("failed to encode manifest", slog.String("error", err.Error()))
	} else if _, err := writeExclusive(filepath.Join(root, ManifestFileName), data); err != nil {
		slog.Warn("failed to write manifest", slog.String("error", err.Error()))
	}

	var buf bytes.Buffer
	if err := metrics.WriteText(&buf); err != nil {
		slog.Warn("failed to render metrics", slog.String("error", err.Error()))
	} else if _, err := writeExclusive(filepath.Join(root, MetricsFileName), buf.Bytes()); err != nil {
		slog.Warn("failed to write metrics", slog.String("error", err.Error()))
	}

	paths := make([]string, 0, len(m.Artifacts)+2)
	for _, a := range m.Artifacts {
		paths = append(paths, a.Path)
	}
	paths = append(paths, ManifestFileName, MetricsFileName)
	if err := writeChecksums(ctx, root, paths); err != nil {
		slog.Warn("failed to write checksums", slog.String("error", err.Error()))
	}
}

// writeChecksums writes sha256sum-compatible lines for every existing file
// in paths, sorted by path.
func writeChecksums(ctx context.Context, root string, paths []string) error {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	lines := make([]string, 0, len(sorted))
	for i, p := range sorted {
		if i > 0 && sorted[i-1] == p {
			continue
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}
		sum, err := fileSHA256(filepath.Join(root, filepath.FromSlash(p)))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to checksum %s: %w", p, err)
		}
		lines = append(lines, fmt.Sprintf("%s  %s", sum, p))
	}

	content := strings.Join(lines, "\n") + "\n"
	if _, err := writeExclusive(filepath.Join(root, ChecksumFileName), []byte(content)); err != nil {
		return err
	}
	slog.Debug("checksums generated", slog.Int("file_count", len(lines)))
	return nil
}

func fileSHA256(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
