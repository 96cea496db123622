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

package operator

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// WatchHandle owns one live watch subscription. Stop releases the
// subscription; the Events channel is closed when the stream terminates for
// any reason, after which Err reports the terminating cause (nil for a clean
// close or an explicit Stop).
type WatchHandle interface {
	Events() <-chan RawEvent
	Err() error
	Stop()
}

// Transport abstracts the cluster operations the pipeline needs. A Transport
// is scoped at construction time to one resource kind and one namespace
// scope; implementations live in pkg/client.
type Transport interface {
	// Watch opens a watch subscription for the scoped kind.
	Watch(ctx context.Context) (WatchHandle, error)

	// List enumerates the current live resource set for the scoped kind.
	List(ctx context.Context) ([]*unstructured.Unstructured, error)

	// UpdateStatus writes a status document to the resource identified by
	// meta. Errors are transient from the pipeline's point of view: the
	// feedback writer logs them and moves on.
	UpdateStatus(ctx context.Context, meta metav1.ObjectMeta, status map[string]interface{}) error
}
