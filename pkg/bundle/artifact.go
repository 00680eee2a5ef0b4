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
	"path"
	"strings"
	"time"
)

// Artifact is the recorded outcome of one query. Failed queries still
// produce an artifact whose file holds the captured output or error text.
type Artifact struct {
	// Section is the section ID, the first element of Path.
	Section string
	// Title is a short human-readable description of the query.
	Title string
	// Path is the slash-separated location relative to the staging root.
	Path string
	// Bytes is the number of bytes written to Path.
	Bytes int
	// Duration is how long the query took, including pacing.
	Duration time.Duration
	// Expected marks queries whose failure is a normal outcome.
	Expected bool
	// Err is nil on success.
	Err error
}

// OK reports whether the query succeeded and its output was stored.
func (a Artifact) OK() bool {
	return a.Err == nil
}

func sectionOf(relPath string) string {
	first, _, _ := strings.Cut(path.Clean(relPath), "/")
	return first
}
