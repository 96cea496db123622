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
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/scala-steward/freya/pkg/operator"
	"github.com/scala-steward/freya/pkg/resource"
)

func newConfigMap(name, namespace string, labels map[string]string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    labels,
		},
		Data: map[string]string{"config": "message: hi\n"},
	}
}

func TestConfigMapTransportList(t *testing.T) {
	client := fake.NewSimpleClientset(
		newConfigMap("c1", "default", map[string]string{"operator": "kerb"}),
		newConfigMap("c2", "default", nil),
	)
	transport := NewConfigMapTransport(client, "default", "operator=kerb", noopLogger())

	objs, err := transport.List(context.Background())
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "c1", objs[0].GetName())
	assert.Equal(t, "ConfigMap", objs[0].GetKind())
}

func TestConfigMapTransportWatch(t *testing.T) {
	client := fake.NewSimpleClientset()
	transport := NewConfigMapTransport(client, "default", "", noopLogger())

	handle, err := transport.Watch(context.Background())
	require.NoError(t, err)
	defer handle.Stop()

	_, err = client.CoreV1().ConfigMaps("default").Create(
		context.Background(), newConfigMap("c1", "default", nil), metav1.CreateOptions{})
	require.NoError(t, err)

	select {
	case ev := <-handle.Events():
		assert.Equal(t, operator.VerbAdded, ev.Verb)
		assert.Equal(t, "c1", ev.Object.GetName())
		data, _, err := unstructuredData(ev.Object.Object)
		require.NoError(t, err)
		assert.Equal(t, "message: hi\n", data["config"])
	case <-time.After(2 * time.Second):
		t.Fatal("no watch event within deadline")
	}
}

func TestConfigMapTransportDropsStatusUpdates(t *testing.T) {
	client := fake.NewSimpleClientset()
	transport := NewConfigMapTransport(client, "default", "", noopLogger())

	err := transport.UpdateStatus(context.Background(),
		metav1.ObjectMeta{Name: "c1", Namespace: "default"},
		map[string]interface{}{"phase": "Ready"})
	assert.NoError(t, err)
}

type cmSpec struct {
	Message string `json:"message,omitempty"`
}

type cmStatus struct {
	Phase string `json:"phase,omitempty"`
}

func TestConfigMapStatusPathEndToEnd(t *testing.T) {
	// The full status path of the config map flavor: a controller-returned
	// status encodes to no payload and the transport drops the write, so a
	// chatty controller never produces a status failure.
	codec := resource.NewConfigMapCodec[cmSpec, cmStatus]("")
	payload, err := codec.EncodeStatus(&cmStatus{Phase: "Ready"})
	require.NoError(t, err)
	require.Nil(t, payload)

	client := fake.NewSimpleClientset()
	transport := NewConfigMapTransport(client, "default", "", noopLogger())

	err = transport.UpdateStatus(context.Background(),
		metav1.ObjectMeta{Name: "c1", Namespace: "default"}, payload)
	assert.NoError(t, err)
}
