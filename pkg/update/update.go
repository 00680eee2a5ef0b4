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

package update

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/PaloAltoNetworks/konnector-cli/pkg/defaults"
	apperrors "github.com/PaloAltoNetworks/konnector-cli/pkg/errors"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/oci"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/version"
	"github.com/google/uuid"
)

// Status compares the running build with the newest published release.
type Status struct {
	Current version.Version
	Latest  version.Version
	// Tag is the registry tag of Latest as published.
	Tag string
	// Available is true when Latest is newer than Current.
	Available bool
	// Mandatory is true when Latest is a new major version.
	Mandatory bool
}

// Checker looks up releases in one repository.
type Checker struct {
	source     oci.Source
	current    string
	includePre bool
	goos       string
	goarch     string
}

// Option configures a Checker.
type Option func(*Checker)

// WithPrereleases includes pre-release tags when picking the latest version.
func WithPrereleases() Option {
	return func(c *Checker) {
		c.includePre = true
	}
}

// WithPlatform overrides the platform whose binary Apply downloads.
func WithPlatform(goos, goarch string) Option {
	return func(c *Checker) {
		c.goos = goos
		c.goarch = goarch
	}
}

// NewChecker returns a Checker for the build identified by current.
func NewChecker(src oci.Source, current string, opts ...Option) *Checker {
	c := &Checker{
		source:  src,
		current: current,
		goos:    runtime.GOOS,
		goarch:  runtime.GOARCH,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check lists the repository tags and reports whether an update exists.
func (c *Checker) Check(ctx context.Context) (*Status, error) {
	current, err := version.ParseVersion(c.current)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("running build %q is not a release version", c.current), err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.UpdateCheckTimeout)
	defer cancel()

	tags, err := oci.ListTags(ctx, c.source)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to list releases", err)
	}

	latest, ok := version.Latest(tags, c.includePre)
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "no releases published")
	}

	return &Status{
		Current:   current,
		Latest:    latest,
		Tag:       tagFor(tags, latest),
		Available: latest.IsNewer(current),
		Mandatory: current.IsMajorUpgrade(latest),
	}, nil
}

// tagFor returns the published spelling of v, which may lack the "v" prefix.
func tagFor(tags []string, v version.Version) string {
	for _, t := range tags {
		if pv, err := version.ParseVersion(t); err == nil && pv.Compare(v) == 0 {
			return t
		}
	}
	return v.String()
}

// Enforce fails when a mandatory update is published. A failed check only
// logs a warning so diagnostics stay possible without registry access.
func (c *Checker) Enforce(ctx context.Context) error {
	st, err := c.Check(ctx)
	if err != nil {
		slog.Warn("update check failed, continuing", slog.String("error", err.Error()))
		return nil
	}
	if st.Mandatory {
		return apperrors.NewWithContext(apperrors.ErrCodeUpgradeRequired,
			fmt.Sprintf("version %s is required, run 'konnector update'", st.Latest),
			map[string]any{"current": st.Current.String(), "latest": st.Latest.String()})
	}
	if st.Available {
		slog.Warn("a newer version is available",
			slog.String("current", st.Current.String()),
			slog.String("latest", st.Latest.String()))
	}
	return nil
}

// Apply downloads the binary for st.Tag and replaces the file at exePath.
// The new binary is written next to exePath and renamed into place.
func (c *Checker) Apply(ctx context.Context, st *Status, exePath string) error {
	if st == nil || st.Tag == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "no release selected")
	}

	resolved, err := filepath.EvalSymlinks(exePath)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to resolve executable path", err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to stat executable", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.UpdateDownloadTimeout)
	defer cancel()

	tmp := filepath.Join(filepath.Dir(resolved),
		fmt.Sprintf(".%s-%s.download", filepath.Base(resolved), uuid.NewString()))
	title := oci.BinaryTitle(c.goos, c.goarch)

	slog.Info("downloading release", slog.String("tag", st.Tag), slog.String("binary", title))
	res, err := oci.PullBinaryToFile(ctx, c.source, st.Tag, title, tmp, info.Mode().Perm()|0o100)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to download release", err)
	}

	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to replace executable", err)
	}

	slog.Info("executable replaced",
		slog.String("path", resolved),
		slog.String("version", st.Latest.String()),
		slog.String("digest", res.Digest))
	return nil
}
