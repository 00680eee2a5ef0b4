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

package client

import (
	"fmt"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Interface is an alias for kubernetes.Interface to allow easier mocking in tests.
// This enables using fake.NewSimpleClientset() which returns kubernetes.Interface.
type Interface = kubernetes.Interface

// Connection describes how a run reaches the cluster. The same values are
// rendered for kubectl, helm, and client-go; only the flag spellings differ.
type Connection struct {
	// Kubeconfig is an explicit kubeconfig path. Empty means automatic discovery.
	Kubeconfig string
	// Context overrides the kubeconfig's current context. Empty keeps it.
	Context string
}

// KubectlArgs renders the connection as kubectl global flags.
func (c Connection) KubectlArgs() []string {
	var args []string
	if c.Kubeconfig != "" {
		args = append(args, "--kubeconfig", c.Kubeconfig)
	}
	if c.Context != "" {
		args = append(args, "--context", c.Context)
	}
	return args
}

// HelmArgs renders the connection as helm global flags. Helm spells the
// context flag --kube-context.
func (c Connection) HelmArgs() []string {
	var args []string
	if c.Kubeconfig != "" {
		args = append(args, "--kubeconfig", c.Kubeconfig)
	}
	if c.Context != "" {
		args = append(args, "--kube-context", c.Context)
	}
	return args
}

// BuildKubeClient creates a Kubernetes client for the given connection.
//
// Kubeconfig resolution follows kubectl: an explicit Connection.Kubeconfig
// wins, otherwise every KUBECONFIG entry is merged, otherwise ~/.kube/config.
// Without any kubeconfig the in-cluster service account is used.
//
// Building the client does not contact the API server.
func BuildKubeClient(conn Connection) (Interface, *rest.Config, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if conn.Kubeconfig != "" {
		rules.ExplicitPath = conn.Kubeconfig
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: conn.Context}

	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build kube config: %w", err)
	}

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return client, config, nil
}
