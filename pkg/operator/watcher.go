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

	"github.com/go-logr/logr"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
)

// watcher drives one watch subscription: every transport event is decoded
// and fed to the dispatcher through the shared action conduit. When the
// stream terminates, the terminating cause is forwarded as a ClosedStream
// failure and the watcher stops producing.
type watcher[T, U any] struct {
	decoder decoder[T, U]
	actions chan<- Action[T, U]
	log     logr.Logger
}

func newWatcher[T, U any](dec decoder[T, U], actions chan<- Action[T, U], log logr.Logger) *watcher[T, U] {
	return &watcher[T, U]{
		decoder: dec,
		actions: actions,
		log:     log.WithName("watcher"),
	}
}

// run pumps the subscription until the stream closes or the context is
// cancelled. The handle is owned by the supervisor; run never stops it.
func (w *watcher[T, U]) run(ctx context.Context, handle WatchHandle) {
	defer utilruntime.HandleCrash()

	for ev := range handle.Events() {
		eventsTotal.WithLabelValues(string(ev.Verb)).Inc()
		w.log.V(4).Info("Watch event", "verb", ev.Verb)

		if err := w.send(ctx, w.decoder.decodeEvent(ev)); err != nil {
			w.log.V(1).Info("Watcher cancelled mid-stream", "reason", err.Error())
			return
		}
	}

	cause := handle.Err()
	if cause != nil {
		w.log.Error(cause, "Watch stream closed")
	} else {
		w.log.Info("Watch stream closed cleanly")
	}
	if err := w.send(ctx, &FailureAction[T, U]{Failure: NewClosedStream(cause)}); err != nil {
		w.log.V(1).Info("Watcher cancelled before closure could be reported", "reason", err.Error())
	}
}

func (w *watcher[T, U]) send(ctx context.Context, a Action[T, U]) error {
	select {
	case w.actions <- a:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
