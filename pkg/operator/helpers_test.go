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
	"fmt"
	"io"
	"sync"

	"github.com/go-logr/logr"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/scala-steward/freya/pkg/resource"
)

type testSpec struct {
	Value string `json:"value,omitempty"`
}

type testStatus struct {
	Phase string `json:"phase,omitempty"`
}

func noopLogger() logr.Logger {
	opts := zap.Options{
		// Write to dev/null
		DestWriter: io.Discard,
	}
	return zap.New(zap.UseFlagOptions(&opts))
}

func newTestObject(namespace, name, uid, value string) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "example.com/v1",
		"kind":       "Kerb",
		"metadata": map[string]interface{}{
			"name":            name,
			"namespace":       namespace,
			"uid":             uid,
			"resourceVersion": "1",
		},
		"spec": map[string]interface{}{
			"value": value,
		},
	}}
}

func newTestResource(namespace, name, uid, value string) *resource.CustomResource[testSpec, testStatus] {
	return &resource.CustomResource[testSpec, testStatus]{
		Metadata: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			UID:       types.UID(uid),
		},
		Spec: testSpec{Value: value},
	}
}

// fakeController records every callback invocation in order and returns the
// configured statuses and errors.
type fakeController struct {
	mu    sync.Mutex
	calls []string

	onInit    func(ctx context.Context) error
	onAdd     func(res *resource.CustomResource[testSpec, testStatus]) (*testStatus, error)
	onModify  func(res *resource.CustomResource[testSpec, testStatus]) (*testStatus, error)
	onDelete  func(res *resource.CustomResource[testSpec, testStatus]) error
	reconcile func(res *resource.CustomResource[testSpec, testStatus]) (*testStatus, error)
}

var _ Controller[testSpec, testStatus] = &fakeController{}

func (c *fakeController) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *fakeController) recorded() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *fakeController) OnInit(ctx context.Context) error {
	c.record("init")
	if c.onInit != nil {
		return c.onInit(ctx)
	}
	return nil
}

func (c *fakeController) OnAdd(_ context.Context, res *resource.CustomResource[testSpec, testStatus]) (*testStatus, error) {
	c.record("add:" + res.NamespacedName().String())
	if c.onAdd != nil {
		return c.onAdd(res)
	}
	return nil, nil
}

func (c *fakeController) OnModify(_ context.Context, res *resource.CustomResource[testSpec, testStatus]) (*testStatus, error) {
	c.record("modify:" + res.NamespacedName().String())
	if c.onModify != nil {
		return c.onModify(res)
	}
	return nil, nil
}

func (c *fakeController) OnDelete(_ context.Context, res *resource.CustomResource[testSpec, testStatus]) error {
	c.record("delete:" + res.NamespacedName().String())
	if c.onDelete != nil {
		return c.onDelete(res)
	}
	return nil
}

func (c *fakeController) Reconcile(_ context.Context, res *resource.CustomResource[testSpec, testStatus]) (*testStatus, error) {
	c.record("reconcile:" + res.NamespacedName().String())
	if c.reconcile != nil {
		return c.reconcile(res)
	}
	return nil, nil
}

// fakeHandle is a test double for a live watch subscription, fed directly by
// the test.
type fakeHandle struct {
	events chan RawEvent

	mu        sync.Mutex
	err       error
	closeOnce sync.Once
}

var _ WatchHandle = &fakeHandle{}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{events: make(chan RawEvent)}
}

func (h *fakeHandle) Events() <-chan RawEvent { return h.events }

func (h *fakeHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *fakeHandle) Stop() { h.closeWith(nil) }

func (h *fakeHandle) emit(verb WatchVerb, obj *unstructured.Unstructured) {
	h.events <- RawEvent{Verb: verb, Object: obj}
}

func (h *fakeHandle) closeWith(err error) {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.err = err
		h.mu.Unlock()
		close(h.events)
	})
}

type recordedUpdate struct {
	meta   metav1.ObjectMeta
	status map[string]interface{}
}

// fakeTransport is an in-memory transport. Every Watch call produces a fresh
// handle the test controls; status updates are recorded in order.
type fakeTransport struct {
	mu      sync.Mutex
	handles []*fakeHandle
	listed  []*unstructured.Unstructured
	listErr error
	updates []recordedUpdate

	watchStarted chan *fakeHandle
}

var _ Transport = &fakeTransport{}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{watchStarted: make(chan *fakeHandle, 16)}
}

func (t *fakeTransport) Watch(context.Context) (WatchHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := newFakeHandle()
	t.handles = append(t.handles, h)
	t.watchStarted <- h
	return h, nil
}

func (t *fakeTransport) List(context.Context) ([]*unstructured.Unstructured, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listErr != nil {
		return nil, t.listErr
	}
	return append([]*unstructured.Unstructured(nil), t.listed...), nil
}

func (t *fakeTransport) UpdateStatus(_ context.Context, meta metav1.ObjectMeta, status map[string]interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.updates = append(t.updates, recordedUpdate{meta: meta, status: status})
	return nil
}

func (t *fakeTransport) recordedUpdates() []recordedUpdate {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]recordedUpdate(nil), t.updates...)
}

func (t *fakeTransport) watchCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handles)
}

func phaseOf(u recordedUpdate) string {
	return fmt.Sprintf("%v", u.status["phase"])
}

func encodeTestStatus(s *testStatus) (map[string]interface{}, error) {
	if s == nil {
		return nil, nil
	}
	return map[string]interface{}{"phase": s.Phase}, nil
}
