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

// Package oci reads konnector releases from an OCI registry.
//
// A release is an OCI artifact tagged with its semantic version. Its
// manifest has one layer per platform, each with media type
// BinaryMediaType and an org.opencontainers.image.title annotation such as
// "konnector-linux-amd64".
//
// # Usage
//
//	ref, err := oci.ParseReference("oci://ghcr.io/paloaltonetworks/konnector")
//	if err != nil {
//	    return err
//	}
//	repo, err := oci.NewRepository(ref, oci.RepositoryOptions{})
//	if err != nil {
//	    return err
//	}
//	tags, err := oci.ListTags(ctx, repo)
//	...
//	_, err = oci.PullBinaryToFile(ctx, repo, "v2.0.0", oci.BinaryTitle(runtime.GOOS, runtime.GOARCH), dst, 0o755)
//
// Downloads are verified against the layer digest before they are reported
// as successful.
//
// # Authentication
//
// Credentials are loaded from the standard Docker configuration
// (~/.docker/config.json) using the ORAS credentials package.
package oci
