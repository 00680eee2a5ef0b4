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

// Package header provides the Kubernetes-style header shared by documents
// written into support bundles.
//
//	h := header.New(header.KindBundleManifest,
//	    header.WithTimestamp(time.Now()),
//	    header.WithMetadata("runID", id))
//
// Serialized as YAML:
//
//	kind: SupportBundleManifest
//	apiVersion: konnector.paloaltonetworks.com/v1
//	metadata:
//	  runID: 4b1f...
//	  timestamp: "2026-10-15T09:30:00Z"
package header
