// Copyright 2025 The Freya Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"). You may
// not use this file except in compliance with the License. A copy of the
// License is located at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// or in the "license" file accompanying this file. This file is distributed
// on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
// express or implied. See the License for the specific language governing
// permissions and limitations under the License.

package client

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"

	"github.com/scala-steward/freya/pkg/operator"
)

// configMapTransport implements the pipeline transport for ConfigMap-backed
// operators over the typed clientset. A label selector scopes which config
// maps the operator owns. ConfigMaps have no status subresource, so status
// updates are accepted and dropped with a log line.
type configMapTransport struct {
	client        kubernetes.Interface
	namespace     string
	labelSelector string
	log           logr.Logger
}

var _ operator.Transport = &configMapTransport{}

// NewConfigMapTransport returns a transport over config maps matching
// labelSelector in namespace; pass metav1.NamespaceAll (the empty string)
// for all namespaces and an empty selector for no filtering.
func NewConfigMapTransport(client kubernetes.Interface, namespace, labelSelector string, log logr.Logger) operator.Transport {
	return &configMapTransport{
		client:        client,
		namespace:     namespace,
		labelSelector: labelSelector,
		log:           log.WithName("configmap-transport"),
	}
}

func (t *configMapTransport) Watch(ctx context.Context) (operator.WatchHandle, error) {
	w, err := t.client.CoreV1().ConfigMaps(t.namespace).Watch(ctx, metav1.ListOptions{LabelSelector: t.labelSelector})
	if err != nil {
		return nil, fmt.Errorf("watching config maps: %w", err)
	}
	return newStreamHandle(w, asConfigMapUnstructured), nil
}

// asConfigMapUnstructured converts a watched config map, restoring the type
// metadata the typed client strips.
func asConfigMapUnstructured(obj runtime.Object) (*unstructured.Unstructured, bool) {
	u, ok := asUnstructured(obj)
	if !ok {
		return nil, false
	}
	if u.GetKind() == "" {
		u.SetAPIVersion("v1")
		u.SetKind("ConfigMap")
	}
	return u, true
}

func (t *configMapTransport) List(ctx context.Context) ([]*unstructured.Unstructured, error) {
	list, err := t.client.CoreV1().ConfigMaps(t.namespace).List(ctx, metav1.ListOptions{LabelSelector: t.labelSelector})
	if err != nil {
		return nil, fmt.Errorf("listing config maps: %w", err)
	}

	objs := make([]*unstructured.Unstructured, 0, len(list.Items))
	for i := range list.Items {
		obj, ok := asConfigMapUnstructured(&list.Items[i])
		if !ok {
			continue
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

func (t *configMapTransport) UpdateStatus(_ context.Context, meta metav1.ObjectMeta, _ map[string]interface{}) error {
	t.log.V(1).Info("Config maps carry no status subresource, dropping status update",
		"namespace", meta.Namespace, "name", meta.Name)
	return nil
}
