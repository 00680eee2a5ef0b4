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

	"github.com/PaloAltoNetworks/konnector-cli/pkg/defaults"
	"go.uber.org/multierr"
	"golang.org/x/time/rate"
)

// Query performs one read-only request and returns its combined output.
// Output should be returned even when err is non-nil.
type Query func(ctx context.Context) ([]byte, error)

// Executor runs queries one at a time and stores each result under the
// staging root. It never fails: every outcome becomes an Artifact.
type Executor struct {
	root    string
	timeout time.Duration
	limiter *rate.Limiter
	metrics *Metrics
}

// NewExecutor returns an Executor writing below root.
func NewExecutor(root string, m *Metrics) *Executor {
	if m == nil {
		m = NewMetrics()
	}
	return &Executor{
		root:    root,
		timeout: defaults.QueryTimeout,
		limiter: rate.NewLimiter(rate.Limit(defaults.QueryRate), defaults.QueryBurst),
		metrics: m,
	}
}

// Execute runs q and writes its output to relPath. Failures are logged as
// warnings.
func (e *Executor) Execute(ctx context.Context, title, relPath string, q Query) Artifact {
	return e.execute(ctx, title, relPath, q, false)
}

// ExecuteExpected is Execute for queries that commonly fail, such as logs
// of a previous container instance. Failures are logged at debug level.
func (e *Executor) ExecuteExpected(ctx context.Context, title, relPath string, q Query) Artifact {
	return e.execute(ctx, title, relPath, q, true)
}

func (e *Executor) execute(ctx context.Context, title, relPath string, q Query, expected bool) Artifact {
	start := time.Now()
	a := Artifact{
		Section:  sectionOf(relPath),
		Title:    title,
		Path:     relPath,
		Expected: expected,
	}

	out, err := e.run(ctx, q)
	if err != nil && len(out) == 0 {
		out = []byte(err.Error() + "\n")
	}

	n, werr := e.write(relPath, out)
	a.Bytes = n
	a.Err = multierr.Append(err, werr)
	a.Duration = time.Since(start)
	e.metrics.observe(a)

	if a.Err != nil {
		level := slog.LevelWarn
		if expected && werr == nil {
			level = slog.LevelDebug
		}
		slog.Log(ctx, level, "query failed",
			slog.String("title", title),
			slog.String("path", relPath),
			slog.String("error", a.Err.Error()))
	}
	return a
}

func (e *Executor) run(ctx context.Context, q Query) ([]byte, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("query not started: %w", err)
	}
	qctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return q(qctx)
}

// write creates relPath exclusively; artifacts are never overwritten.
func (e *Executor) write(relPath string, data []byte) (int, error) {
	local := filepath.FromSlash(relPath)
	if !filepath.IsLocal(local) {
		return 0, fmt.Errorf("artifact path %q escapes the staging root", relPath)
	}
	dst := filepath.Join(e.root, local)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directory for %s: %w", relPath, err)
	}
	return writeExclusive(dst, data)
}

func writeExclusive(dst string, data []byte) (n int, err error) {
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	n, err = f.Write(data)
	if err != nil {
		return n, fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return n, nil
}
