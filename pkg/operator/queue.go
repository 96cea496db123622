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
)

// nsQueue is the bounded per-namespace FIFO between the dispatcher and one
// consumer. Single producer (the dispatcher), single consumer (the owning
// actionConsumer). A full queue blocks the producer until the consumer makes
// progress; an action is enqueued exactly once.
type nsQueue[T, U any] struct {
	namespace string
	actions   chan Action[T, U]
	log       logr.Logger
}

func newNsQueue[T, U any](namespace string, capacity int, log logr.Logger) *nsQueue[T, U] {
	return &nsQueue[T, U]{
		namespace: namespace,
		actions:   make(chan Action[T, U], capacity),
		log:       log.WithName("queue").WithValues("namespace", namespace),
	}
}

// enqueue appends an action, blocking while the queue is at capacity. It
// returns the context error if the context is cancelled before space frees
// up.
func (q *nsQueue[T, U]) enqueue(ctx context.Context, a Action[T, U]) error {
	select {
	case q.actions <- a:
		queueLength.WithLabelValues(q.namespace).Set(float64(len(q.actions)))
		return nil
	default:
	}

	q.log.V(4).Info("Queue full, waiting for consumer progress", "capacity", cap(q.actions))
	select {
	case q.actions <- a:
		queueLength.WithLabelValues(q.namespace).Set(float64(len(q.actions)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// dequeue removes the oldest action, blocking while the queue is empty.
func (q *nsQueue[T, U]) dequeue(ctx context.Context) (Action[T, U], error) {
	select {
	case a := <-q.actions:
		queueLength.WithLabelValues(q.namespace).Set(float64(len(q.actions)))
		return a, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *nsQueue[T, U]) length() int {
	return len(q.actions)
}

func (q *nsQueue[T, U]) nonEmpty() bool {
	return len(q.actions) > 0
}
