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

// Package client builds the cluster connection used by a support bundle run.
//
// A Connection carries the optional kubeconfig path and context name given on
// the command line. It is rendered three ways:
//
//	conn := client.Connection{Kubeconfig: "/tmp/kc", Context: "prod"}
//	conn.KubectlArgs() // --kubeconfig /tmp/kc --context prod
//	conn.HelmArgs()    // --kubeconfig /tmp/kc --kube-context prod
//	cs, cfg, err := client.BuildKubeClient(conn)
//
// # Authentication Modes
//
// Out-of-cluster, the kubeconfig is taken from the flag, otherwise every
// KUBECONFIG entry is merged the way kubectl and helm merge them, otherwise
// ~/.kube/config. In-cluster service account credentials are used when none
// of those provide a configuration.
//
// # Testing
//
// Consumers accept Interface so tests can pass fake.NewSimpleClientset().
package client
