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

// Package archive packs a directory into a single .tar.gz file.
//
// The archive always has exactly one top-level directory, named after the
// source directory, so extracting it never scatters files:
//
//	err := archive.Create(ctx, "/tmp/konnector-support-bundle-panw-...", "./konnector-support-bundle-panw-....tar.gz")
//
// Create refuses to overwrite an existing destination.
package archive
