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

package defaults

import "time"

// Collection timeouts for support bundle runs.
const (
	// QueryTimeout bounds a single kubectl or helm invocation.
	// Log queries for chatty containers are the usual reason to hit it.
	QueryTimeout = 2 * time.Minute

	// RequestTimeout is passed to kubectl as --request-timeout so the
	// server-side call gives up before the local process is killed.
	RequestTimeout = 90 * time.Second

	// EnumerateTimeout bounds a single client-go list or get call.
	EnumerateTimeout = 30 * time.Second

	// ArchiveTimeout bounds writing the final tar.gz.
	ArchiveTimeout = 10 * time.Minute
)

// Query pacing. Execution is sequential; the limiter only keeps large
// namespaces from issuing hundreds of back-to-back API calls.
const (
	// QueryRate is the sustained number of queries per second.
	QueryRate = 10

	// QueryBurst is the number of queries allowed without waiting.
	QueryBurst = 20
)

// Update timeouts for the self-update check and download.
const (
	// UpdateCheckTimeout bounds listing tags in the release repository.
	UpdateCheckTimeout = 15 * time.Second

	// UpdateDownloadTimeout bounds pulling a release artifact.
	UpdateDownloadTimeout = 5 * time.Minute
)
