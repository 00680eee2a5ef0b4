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

// Package update checks a release repository for newer konnector versions
// and replaces the running binary.
//
// A release whose major version is greater than the running one is
// mandatory: Enforce returns an UPGRADE_REQUIRED error that collect-logs
// uses as a preflight gate. Minor and patch releases only produce a
// warning.
//
//	checker := update.NewChecker(repo, version)
//	st, err := checker.Check(ctx)
//	if err == nil && st.Available {
//	    exe, _ := os.Executable()
//	    err = checker.Apply(ctx, st, exe)
//	}
package update
