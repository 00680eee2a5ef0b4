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

// Package cli implements the command-line interface for the konnector support tool.
//
// # Overview
//
// The konnector CLI collects support bundles from a Konnector installation
// and keeps itself up to date from an OCI release repository.
//
// # Commands
//
//	collect-logs  Collect a support bundle into a .tar.gz archive
//	update        Check for and install a newer release
//	version       Print version information
//
// # Usage
//
// Collect from the default namespace (panw) using the current kubeconfig context:
//
//	konnector collect-logs
//
// Collect from another namespace and cluster:
//
//	konnector collect-logs --namespace=konnector --kubeconfig ~/.kube/prod --context prod
//
// Flags accept both "--flag value" and "--flag=value". Unknown flags and
// flags missing a value fail before any cluster query is made.
//
// # Environment Variables
//
//	LOG_LEVEL                    Set logging verbosity (debug, info, warn, error)
//	KONNECTOR_NAMESPACE          Default for --namespace
//	KONNECTOR_CONTEXT            Default for --context
//	KONNECTOR_OUTPUT_DIR         Default for --output-dir
//	KONNECTOR_UPDATE_REPOSITORY  Default for --update-repository
//	KUBECONFIG                   Honored by kubectl, helm, and the API client when --kubeconfig is unset
//
// # Exit Codes
//
//	0  Success, including runs where individual queries failed
//	1  General error (invalid arguments, missing kubectl or helm, missing namespace, archive failure)
//	2  Interrupted or canceled
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized packages:
//   - pkg/bundle - Support bundle collection
//   - pkg/update - Release checks and self-update
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/PaloAltoNetworks/konnector-cli/pkg/cli.version=1.0.0'"
package cli
