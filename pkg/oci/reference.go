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

package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/PaloAltoNetworks/konnector-cli/pkg/errors"
)

// URIScheme prefixes release repository locations (e.g., "oci://ghcr.io/org/konnector").
const URIScheme = "oci://"

// Reference is a parsed release repository location.
type Reference struct {
	// Registry is the registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the repository path (e.g., "paloaltonetworks/konnector").
	Repository string
	// Tag is optional; empty means the caller picks one.
	Tag string
}

// ParseReference parses "oci://registry/repository[:tag]". The scheme is
// optional.
func ParseReference(s string) (*Reference, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), URIScheme)
	if raw == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "repository reference is empty")
	}

	ref, err := reference.ParseNormalizedNamed(raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}
	if _, ok := ref.(reference.Digested); ok {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "digest references are not supported")
	}

	r := &Reference{
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
	}
	if tagged, ok := ref.(reference.Tagged); ok {
		r.Tag = tagged.Tag()
	}
	return r, nil
}

// Name returns "registry/repository".
func (r *Reference) Name() string {
	return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
}

// String returns the oci:// form of the reference.
func (r *Reference) String() string {
	if r.Tag == "" {
		return URIScheme + r.Name()
	}
	return fmt.Sprintf("%s%s:%s", URIScheme, r.Name(), r.Tag)
}

// WithTag returns a copy of r with tag set.
func (r *Reference) WithTag(tag string) *Reference {
	c := *r
	c.Tag = tag
	return &c
}
