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
	"sync"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/apimachinery/pkg/watch"

	"github.com/scala-steward/freya/pkg/operator"
)

// streamHandle adapts a client-go watch.Interface to the pipeline's
// WatchHandle. A pump goroutine converts each watch.Event into a RawEvent;
// error events are forwarded with VerbError and additionally recorded as the
// terminating cause, since the server closes the stream after emitting them.
type streamHandle struct {
	events chan operator.RawEvent

	stopOnce sync.Once
	stop     func()

	mu  sync.Mutex
	err error
}

var _ operator.WatchHandle = &streamHandle{}

// newStreamHandle starts the pump and returns the handle. convert turns a
// watched object into the unstructured payload; it returns false for objects
// that should not be forwarded.
func newStreamHandle(w watch.Interface, convert func(runtime.Object) (*unstructured.Unstructured, bool)) *streamHandle {
	h := &streamHandle{
		events: make(chan operator.RawEvent),
		stop:   w.Stop,
	}

	go func() {
		defer utilruntime.HandleCrash()
		defer close(h.events)

		for ev := range w.ResultChan() {
			switch ev.Type {
			case watch.Added, watch.Modified, watch.Deleted:
				obj, ok := convert(ev.Object)
				if !ok {
					continue
				}
				h.events <- operator.RawEvent{Verb: verbFor(ev.Type), Object: obj}
			case watch.Error:
				h.recordErr(apierrors.FromObject(ev.Object))
				h.events <- operator.RawEvent{Verb: operator.VerbError}
			case watch.Bookmark:
				// Progress marker, nothing to deliver.
			}
		}
	}()

	return h
}

func (h *streamHandle) Events() <-chan operator.RawEvent {
	return h.events
}

func (h *streamHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *streamHandle) Stop() {
	h.stopOnce.Do(h.stop)
}

func (h *streamHandle) recordErr(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err == nil {
		h.err = err
	}
}

func verbFor(t watch.EventType) operator.WatchVerb {
	switch t {
	case watch.Added:
		return operator.VerbAdded
	case watch.Modified:
		return operator.VerbModified
	case watch.Deleted:
		return operator.VerbDeleted
	default:
		return operator.VerbError
	}
}

func asUnstructured(obj runtime.Object) (*unstructured.Unstructured, bool) {
	if u, ok := obj.(*unstructured.Unstructured); ok {
		return u, true
	}
	raw, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, false
	}
	return &unstructured.Unstructured{Object: raw}, true
}
