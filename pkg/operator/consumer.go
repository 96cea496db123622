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
	"time"

	"github.com/go-logr/logr"
)

// actionConsumer serializes all interaction with the user controller for one
// namespace. It owns its queue and its status feedback writer; the dispatcher
// is the only producer.
type actionConsumer[T, U any] struct {
	namespace  string
	queue      *nsQueue[T, U]
	controller Controller[T, U]
	feedback   *statusFeedback[U]
	log        logr.Logger
}

func newActionConsumer[T, U any](
	namespace string,
	capacity int,
	controller Controller[T, U],
	feedback *statusFeedback[U],
	log logr.Logger,
) *actionConsumer[T, U] {
	return &actionConsumer[T, U]{
		namespace:  namespace,
		queue:      newNsQueue[T, U](namespace, capacity, log),
		controller: controller,
		feedback:   feedback,
		log:        log.WithName("consumer").WithValues("namespace", namespace),
	}
}

// putAction enqueues an action, blocking under backpressure until the
// consumer has made progress. The action is enqueued exactly once.
func (c *actionConsumer[T, U]) putAction(ctx context.Context, a Action[T, U]) error {
	return c.queue.enqueue(ctx, a)
}

// consume is the run loop. It terminates only on a fatal ClosedStreamError
// (returning ExitConsumerClosed) or on context cancellation.
func (c *actionConsumer[T, U]) consume(ctx context.Context) ExitCode {
	for {
		a, err := c.queue.dequeue(ctx)
		if err != nil {
			c.log.V(1).Info("Consumer cancelled", "reason", err.Error())
			if c.feedback != nil {
				c.feedback.stop()
			}
			return ExitSuccess
		}

		switch act := a.(type) {
		case *ServerAction[T, U]:
			c.dispatchServer(ctx, act)
		case *ReconcileAction[T, U]:
			c.dispatchReconcile(ctx, act)
		case *FailureAction[T, U]:
			if closed, ok := act.Failure.(*ClosedStreamError); ok {
				c.log.Info("Watch stream closed, stopping consumer", "cause", closed.Error())
				if c.feedback != nil {
					c.feedback.stop()
				}
				return ExitConsumerClosed
			}
			c.log.Error(act.Failure, "Dropping undecodable event")
		}
	}
}

func (c *actionConsumer[T, U]) dispatchServer(ctx context.Context, a *ServerAction[T, U]) {
	switch a.Verb {
	case VerbAdded:
		status := c.invoke(string(VerbAdded), a.Resource, func() (*U, error) {
			return c.controller.OnAdd(ctx, a.Resource)
		})
		c.forwardStatus(ctx, a, status)
	case VerbModified:
		status := c.invoke(string(VerbModified), a.Resource, func() (*U, error) {
			return c.controller.OnModify(ctx, a.Resource)
		})
		c.forwardStatus(ctx, a, status)
	case VerbDeleted:
		// The resource is gone, any status is discarded.
		c.invoke(string(VerbDeleted), a.Resource, func() (*U, error) {
			return nil, c.controller.OnDelete(ctx, a.Resource)
		})
	case VerbError:
		c.log.Error(nil, "Received error event from watch stream")
	}
}

func (c *actionConsumer[T, U]) dispatchReconcile(ctx context.Context, a *ReconcileAction[T, U]) {
	status := c.invoke("RECONCILE", a.Resource, func() (*U, error) {
		return c.controller.Reconcile(ctx, a.Resource)
	})
	if status != nil && c.feedback != nil {
		if err := c.feedback.put(ctx, StatusUpdate[U]{Metadata: a.Resource.Metadata, Status: status}); err != nil {
			c.log.Error(err, "Failed to hand off status update", "name", a.Resource.Name())
		}
	}
}

func (c *actionConsumer[T, U]) forwardStatus(ctx context.Context, a *ServerAction[T, U], status *U) {
	if status == nil || c.feedback == nil {
		return
	}
	if err := c.feedback.put(ctx, StatusUpdate[U]{Metadata: a.Resource.Metadata, Status: status}); err != nil {
		c.log.Error(err, "Failed to hand off status update", "name", a.Resource.Name())
	}
}

// invoke runs one controller callback, recovering panics and logging errors
// with the offending action. A misbehaving callback never terminates the
// consumer; a failed callback produces no status.
func (c *actionConsumer[T, U]) invoke(verb string, res interface{ Name() string }, fn func() (*U, error)) (status *U) {
	started := time.Now()
	defer func() {
		dispatchDuration.WithLabelValues(c.namespace, verb).Observe(time.Since(started).Seconds())
		if r := recover(); r != nil {
			status = nil
			controllerErrorsTotal.WithLabelValues(c.namespace, verb).Inc()
			c.log.Error(fmt.Errorf("controller panic: %v", r), "Controller callback panicked",
				"verb", verb, "name", res.Name())
		}
	}()

	var err error
	status, err = fn()
	if err != nil {
		controllerErrorsTotal.WithLabelValues(c.namespace, verb).Inc()
		c.log.Error(err, "Controller callback failed", "verb", verb, "name", res.Name())
		return nil
	}
	return status
}
