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
	"time"

	"github.com/go-logr/logr"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
)

// reconciler periodically enumerates the live resource set and injects
// reconcile actions into the same conduit the watcher feeds, so within a
// namespace a reconcile never overtakes a preceding live event.
type reconciler[T, U any] struct {
	transport Transport
	decoder   decoder[T, U]
	actions   chan<- Action[T, U]
	period    time.Duration
	log       logr.Logger
}

func newReconciler[T, U any](
	transport Transport,
	dec decoder[T, U],
	actions chan<- Action[T, U],
	period time.Duration,
	log logr.Logger,
) *reconciler[T, U] {
	return &reconciler[T, U]{
		transport: transport,
		decoder:   dec,
		actions:   actions,
		period:    period,
		log:       log.WithName("reconciler"),
	}
}

// run ticks until cancelled. A failed list pass is logged and skipped; the
// next tick still fires.
func (r *reconciler[T, U]) run(ctx context.Context) {
	defer utilruntime.HandleCrash()

	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	r.log.V(1).Info("Reconciler started", "period", r.period)
	for {
		select {
		case <-ctx.Done():
			r.log.Info("Reconciler cancelled")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *reconciler[T, U]) tick(ctx context.Context) {
	objs, err := r.transport.List(ctx)
	if err != nil {
		reconcileListFailuresTotal.Inc()
		r.log.Error(err, "Failed to list resources, skipping reconcile pass")
		return
	}

	r.log.V(4).Info("Reconcile pass", "resources", len(objs))
	for _, obj := range objs {
		reconcileTotal.Inc()
		select {
		case r.actions <- r.decoder.decodeListed(obj):
		case <-ctx.Done():
			r.log.Info("Reconciler cancelled mid-pass")
			return
		}
	}
}
