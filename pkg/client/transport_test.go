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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic/fake"

	"github.com/scala-steward/freya/pkg/operator"
)

var kerbGVR = schema.GroupVersionResource{Group: "example.com", Version: "v1", Resource: "kerbs"}

func kerbObject(name, namespace, phase string) *unstructured.Unstructured {
	obj := map[string]interface{}{
		"apiVersion": "example.com/v1",
		"kind":       "Kerb",
		"metadata": map[string]interface{}{
			"name":      name,
			"namespace": namespace,
		},
		"spec": map[string]interface{}{"message": "hi"},
	}
	if phase != "" {
		obj["status"] = map[string]interface{}{"phase": phase}
	}
	return &unstructured.Unstructured{Object: obj}
}

func newFakeDynamicClient(objects ...runtime.Object) *fake.FakeDynamicClient {
	scheme := runtime.NewScheme()
	return fake.NewSimpleDynamicClientWithCustomListKinds(scheme, map[schema.GroupVersionResource]string{
		kerbGVR: "KerbList",
	}, objects...)
}

func TestCustomResourceTransportList(t *testing.T) {
	client := newFakeDynamicClient(
		kerbObject("k1", "default", ""),
		kerbObject("k2", "team-a", ""),
	)
	transport := NewCustomResourceTransport(client, kerbGVR, metav1.NamespaceAll)

	objs, err := transport.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, objs, 2)

	scoped := NewCustomResourceTransport(client, kerbGVR, "team-a")
	objs, err = scoped.List(context.Background())
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "k2", objs[0].GetName())
}

func TestCustomResourceTransportWatch(t *testing.T) {
	client := newFakeDynamicClient()
	transport := NewCustomResourceTransport(client, kerbGVR, metav1.NamespaceAll)

	handle, err := transport.Watch(context.Background())
	require.NoError(t, err)
	defer handle.Stop()

	_, err = client.Resource(kerbGVR).Namespace("default").Create(
		context.Background(), kerbObject("k1", "default", ""), metav1.CreateOptions{})
	require.NoError(t, err)

	select {
	case ev := <-handle.Events():
		assert.Equal(t, operator.VerbAdded, ev.Verb)
		assert.Equal(t, "k1", ev.Object.GetName())
	case <-time.After(2 * time.Second):
		t.Fatal("no watch event within deadline")
	}
}

func TestCustomResourceTransportStopClosesStream(t *testing.T) {
	client := newFakeDynamicClient()
	transport := NewCustomResourceTransport(client, kerbGVR, metav1.NamespaceAll)

	handle, err := transport.Watch(context.Background())
	require.NoError(t, err)

	handle.Stop()

	select {
	case _, ok := <-handle.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after Stop")
	}
	assert.NoError(t, handle.Err())
}

func TestCustomResourceTransportUpdateStatus(t *testing.T) {
	client := newFakeDynamicClient(kerbObject("k1", "default", "Pending"))
	transport := NewCustomResourceTransport(client, kerbGVR, metav1.NamespaceAll)

	meta := metav1.ObjectMeta{Name: "k1", Namespace: "default"}
	err := transport.UpdateStatus(context.Background(), meta, map[string]interface{}{"phase": "Ready"})
	require.NoError(t, err)

	current, err := client.Resource(kerbGVR).Namespace("default").Get(context.Background(), "k1", metav1.GetOptions{})
	require.NoError(t, err)
	phase, _, err := unstructured.NestedString(current.Object, "status", "phase")
	require.NoError(t, err)
	assert.Equal(t, "Ready", phase)
}

func TestCustomResourceTransportUpdateStatusMissingResource(t *testing.T) {
	client := newFakeDynamicClient()
	transport := NewCustomResourceTransport(client, kerbGVR, metav1.NamespaceAll)

	meta := metav1.ObjectMeta{Name: "ghost", Namespace: "default"}
	err := transport.UpdateStatus(context.Background(), meta, map[string]interface{}{"phase": "Ready"})
	assert.Error(t, err)
}
