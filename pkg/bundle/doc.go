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

// Package bundle collects a Konnector support bundle.
//
// A run moves through a fixed, linear sequence:
//
//	init -> dependency check -> gate -> namespace validation -> staging ->
//	cluster, namespace, helm, workloads, logs, operator -> finalize -> archive -> cleanup
//
// Every query goes through an Executor, which runs it with a timeout and
// request pacing, writes the combined output to a write-once file under the
// staging directory, and returns an Artifact. Query failures are recorded
// and logged; they never stop the run. Only precondition failures
// (missing kubectl or helm, missing namespace, unreachable cluster),
// archive failures, and cancellation end a run early.
//
// Usage:
//
//	c := bundle.NewCollector(bundle.Config{
//	    Namespace:  "panw",
//	    Connection: client.Connection{Context: "prod"},
//	})
//	res, err := c.Run(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.ArchivePath)
//
// The staging directory is removed on every exit path. The finalize step
// adds manifest.yaml, checksums.txt, and metrics.prom to the bundle.
package bundle
