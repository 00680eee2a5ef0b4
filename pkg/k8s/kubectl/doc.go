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

// Package kubectl runs read-only kubectl queries as argument vectors.
//
// Every invocation carries the run's connection flags (--kubeconfig,
// --context) and a --request-timeout. Output is combined stdout and stderr,
// returned even when the command fails:
//
//	kc := kubectl.New(nil, client.Connection{Context: "prod"})
//	out, err := kc.Get(ctx, "pods", kubectl.GetOptions{Namespace: "panw", Output: kubectl.OutputWide})
//
// InstanceSelector builds set-based selectors with k8s.io/apimachinery labels.
package kubectl
