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

package header

import (
	"time"
)

// APIVersion is the schema version of documents written into bundles.
const APIVersion = "konnector.paloaltonetworks.com/v1"

// Kind names the type of a bundle document.
type Kind string

const (
	// KindBundleManifest describes the contents of a support bundle.
	KindBundleManifest Kind = "SupportBundleManifest"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	return k == KindBundleManifest
}

// Header identifies a document in Kubernetes resource style.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind" yaml:"kind"`

	// APIVersion is the schema version of the document.
	APIVersion string `json:"apiVersion" yaml:"apiVersion"`

	// Metadata holds free-form key-value pairs such as the creation time.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata adds a metadata key-value pair.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		h.Metadata[key] = value
	}
}

// WithTimestamp records t as the "timestamp" metadata value in RFC 3339 UTC.
func WithTimestamp(t time.Time) Option {
	return WithMetadata("timestamp", t.UTC().Format(time.RFC3339))
}

// New returns a Header for kind at the current APIVersion.
func New(kind Kind, opts ...Option) Header {
	h := Header{
		Kind:       kind,
		APIVersion: APIVersion,
		Metadata:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}
