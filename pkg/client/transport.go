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

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"

	"github.com/scala-steward/freya/pkg/operator"
)

// customResourceTransport implements the pipeline transport for CRD-backed
// resources over the dynamic client. It is scoped at construction to one
// GroupVersionResource and one namespace; an empty namespace spans the whole
// cluster.
type customResourceTransport struct {
	client    dynamic.Interface
	gvr       schema.GroupVersionResource
	namespace string
}

var _ operator.Transport = &customResourceTransport{}

// NewCustomResourceTransport returns a transport for the given GVR scoped to
// namespace; pass metav1.NamespaceAll (the empty string) for all namespaces.
func NewCustomResourceTransport(client dynamic.Interface, gvr schema.GroupVersionResource, namespace string) operator.Transport {
	return &customResourceTransport{client: client, gvr: gvr, namespace: namespace}
}

func (t *customResourceTransport) Watch(ctx context.Context) (operator.WatchHandle, error) {
	w, err := t.client.Resource(t.gvr).Namespace(t.namespace).Watch(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", t.gvr, err)
	}
	return newStreamHandle(w, asUnstructured), nil
}

func (t *customResourceTransport) List(ctx context.Context) ([]*unstructured.Unstructured, error) {
	list, err := t.client.Resource(t.gvr).Namespace(t.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", t.gvr, err)
	}

	objs := make([]*unstructured.Unstructured, 0, len(list.Items))
	for i := range list.Items {
		objs = append(objs, &list.Items[i])
	}
	return objs, nil
}

// UpdateStatus fetches the latest revision of the target resource, replaces
// its status document and writes it through the status subresource. Write
// conflicts surface as errors for the feedback writer to log; the next
// update proceeds from fresh state.
func (t *customResourceTransport) UpdateStatus(ctx context.Context, meta metav1.ObjectMeta, status map[string]interface{}) error {
	res := t.client.Resource(t.gvr).Namespace(meta.Namespace)

	current, err := res.Get(ctx, meta.Name, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("fetching %s/%s for status update: %w", meta.Namespace, meta.Name, err)
	}

	if err := unstructured.SetNestedMap(current.Object, status, "status"); err != nil {
		return fmt.Errorf("setting status of %s/%s: %w", meta.Namespace, meta.Name, err)
	}

	if _, err := res.UpdateStatus(ctx, current, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("updating status of %s/%s: %w", meta.Namespace, meta.Name, err)
	}
	return nil
}
