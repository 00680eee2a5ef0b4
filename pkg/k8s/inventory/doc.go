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

// Package inventory enumerates namespaced resources through the typed
// client-go clientset.
//
// Enumeration is deliberately forgiving: List and Containers return an empty
// slice both when nothing exists and when the API call fails, so callers
// simply skip per-instance collection. Names are sorted.
//
//	inv := inventory.New(clientset)
//	for _, pod := range inv.List(ctx, inventory.KindPod, "panw") {
//	    containers := inv.Containers(ctx, pod, "panw")
//	    ...
//	}
//
// NamespaceExists distinguishes a missing namespace from an unreachable
// API server.
package inventory
