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

package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/PaloAltoNetworks/konnector-cli/pkg/defaults"
	"github.com/PaloAltoNetworks/konnector-cli/pkg/k8s/client"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Kind names a namespaced resource kind that can be enumerated.
type Kind string

const (
	KindPod         Kind = "pod"
	KindDeployment  Kind = "deployment"
	KindStatefulSet Kind = "statefulset"
	KindDaemonSet   Kind = "daemonset"
	KindService     Kind = "service"
	KindConfigMap   Kind = "configmap"
	KindReplicaSet  Kind = "replicaset"
	KindIngress     Kind = "ingress"
)

// Kinds returns the enumerable kinds in collection order.
func Kinds() []Kind {
	return []Kind{
		KindPod,
		KindDeployment,
		KindStatefulSet,
		KindDaemonSet,
		KindService,
		KindConfigMap,
		KindReplicaSet,
		KindIngress,
	}
}

// Enumerator lists resource names in a namespace.
type Enumerator struct {
	client client.Interface
}

// New returns an Enumerator backed by c.
func New(c client.Interface) *Enumerator {
	return &Enumerator{client: c}
}

// List returns the sorted names of every kind instance in namespace.
// Absence and failure both yield an empty result; failures are logged at
// debug level only.
func (e *Enumerator) List(ctx context.Context, kind Kind, namespace string) []string {
	ctx, cancel := context.WithTimeout(ctx, defaults.EnumerateTimeout)
	defer cancel()

	names, err := e.list(ctx, kind, namespace)
	if err != nil {
		slog.Debug("enumeration failed",
			slog.String("kind", string(kind)),
			slog.String("namespace", namespace),
			slog.String("error", err.Error()))
		return nil
	}
	sort.Strings(names)
	return names
}

func (e *Enumerator) list(ctx context.Context, kind Kind, namespace string) ([]string, error) {
	opts := metav1.ListOptions{}
	var names []string

	switch kind {
	case KindPod:
		l, err := e.client.CoreV1().Pods(namespace).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		for i := range l.Items {
			names = append(names, l.Items[i].Name)
		}
	case KindDeployment:
		l, err := e.client.AppsV1().Deployments(namespace).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		for i := range l.Items {
			names = append(names, l.Items[i].Name)
		}
	case KindStatefulSet:
		l, err := e.client.AppsV1().StatefulSets(namespace).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		for i := range l.Items {
			names = append(names, l.Items[i].Name)
		}
	case KindDaemonSet:
		l, err := e.client.AppsV1().DaemonSets(namespace).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		for i := range l.Items {
			names = append(names, l.Items[i].Name)
		}
	case KindService:
		l, err := e.client.CoreV1().Services(namespace).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		for i := range l.Items {
			names = append(names, l.Items[i].Name)
		}
	case KindConfigMap:
		l, err := e.client.CoreV1().ConfigMaps(namespace).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		for i := range l.Items {
			names = append(names, l.Items[i].Name)
		}
	case KindReplicaSet:
		l, err := e.client.AppsV1().ReplicaSets(namespace).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		for i := range l.Items {
			names = append(names, l.Items[i].Name)
		}
	case KindIngress:
		l, err := e.client.NetworkingV1().Ingresses(namespace).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		for i := range l.Items {
			names = append(names, l.Items[i].Name)
		}
	default:
		return nil, fmt.Errorf("unsupported kind %q", kind)
	}
	return names, nil
}

// Containers returns the container names of pod: regular containers in
// sorted order, then init containers in sorted order.
func (e *Enumerator) Containers(ctx context.Context, pod, namespace string) []string {
	ctx, cancel := context.WithTimeout(ctx, defaults.EnumerateTimeout)
	defer cancel()

	p, err := e.client.CoreV1().Pods(namespace).Get(ctx, pod, metav1.GetOptions{})
	if err != nil {
		slog.Debug("container enumeration failed",
			slog.String("pod", pod),
			slog.String("namespace", namespace),
			slog.String("error", err.Error()))
		return nil
	}

	regular := make([]string, 0, len(p.Spec.Containers))
	for _, c := range p.Spec.Containers {
		regular = append(regular, c.Name)
	}
	sort.Strings(regular)

	initNames := make([]string, 0, len(p.Spec.InitContainers))
	for _, c := range p.Spec.InitContainers {
		initNames = append(initNames, c.Name)
	}
	sort.Strings(initNames)

	return append(regular, initNames...)
}

// NamespaceExists reports whether namespace exists. A NotFound response is
// not an error; any other failure means the API server could not answer.
func (e *Enumerator) NamespaceExists(ctx context.Context, namespace string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.EnumerateTimeout)
	defer cancel()

	_, err := e.client.CoreV1().Namespaces().Get(ctx, namespace, metav1.GetOptions{})
	if err == nil {
		return true, nil
	}
	if apierrors.IsNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to get namespace %s: %w", namespace, err)
}
