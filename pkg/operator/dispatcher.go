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
	"sync"

	"github.com/go-logr/logr"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
)

// dispatcher routes decoded actions to per-namespace consumers, creating
// consumers lazily on the first action for a namespace. It is the exclusive
// owner of the namespace -> consumer map; consumers are created and written
// to only from the dispatcher's single goroutine, so at most one consumer
// per namespace ever exists during a pipeline run.
type dispatcher[T, U any] struct {
	actions     <-chan Action[T, U]
	newConsumer func(namespace string) *actionConsumer[T, U]
	log         logr.Logger

	consumers map[string]*actionConsumer[T, U]
	wg        sync.WaitGroup

	exitMu   sync.Mutex
	exitCode ExitCode
	exitSet  bool
}

func newDispatcher[T, U any](
	actions <-chan Action[T, U],
	newConsumer func(namespace string) *actionConsumer[T, U],
	log logr.Logger,
) *dispatcher[T, U] {
	return &dispatcher[T, U]{
		actions:     actions,
		newConsumer: newConsumer,
		log:         log.WithName("dispatcher"),
		consumers:   map[string]*actionConsumer[T, U]{},
	}
}

// run routes actions until a ClosedStreamError arrives or the context is
// cancelled, then waits for every consumer to drain and exit. The returned
// code is the consumer-exit code of the run.
func (d *dispatcher[T, U]) run(ctx context.Context) ExitCode {
	defer utilruntime.HandleCrash()

	for {
		select {
		case <-ctx.Done():
			d.log.V(1).Info("Dispatcher cancelled, draining consumers")
			d.wg.Wait()
			return d.exit(ExitSuccess)
		case a, ok := <-d.actions:
			if !ok {
				d.log.V(1).Info("Action channel closed, draining consumers")
				d.wg.Wait()
				return d.exit(ExitSuccess)
			}
			if fail, isFailure := a.(*FailureAction[T, U]); isFailure {
				if _, isClosed := fail.Failure.(*ClosedStreamError); isClosed {
					d.broadcast(ctx, a)
					d.wg.Wait()
					return d.exit(ExitConsumerClosed)
				}
			}
			if err := d.route(ctx, a); err != nil {
				d.log.V(1).Info("Dispatch interrupted", "reason", err.Error())
			}
		}
	}
}

// route delivers one action to the consumer owning its namespace.
func (d *dispatcher[T, U]) route(ctx context.Context, a Action[T, U]) error {
	return d.consumerFor(ctx, namespaceOf[T, U](a)).putAction(ctx, a)
}

// broadcast delivers a stream-closure marker to every live consumer so each
// one drains its in-flight actions and exits.
func (d *dispatcher[T, U]) broadcast(ctx context.Context, a Action[T, U]) {
	d.log.Info("Broadcasting stream closure", "consumers", len(d.consumers))
	for _, c := range d.consumers {
		if err := c.putAction(ctx, a); err != nil {
			d.log.V(1).Info("Broadcast interrupted", "namespace", c.namespace, "reason", err.Error())
		}
	}
}

func (d *dispatcher[T, U]) consumerFor(ctx context.Context, namespace string) *actionConsumer[T, U] {
	if c, ok := d.consumers[namespace]; ok {
		return c
	}

	d.log.V(1).Info("Starting consumer", "namespace", namespace)
	c := d.newConsumer(namespace)
	d.consumers[namespace] = c
	consumersGauge.Set(float64(len(d.consumers)))

	if c.feedback != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			c.feedback.run(ctx)
		}()
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer utilruntime.HandleCrash()
		d.recordExit(c.consume(ctx))
	}()

	return c
}

// recordExit keeps the first consumer exit code as the run result.
func (d *dispatcher[T, U]) recordExit(code ExitCode) {
	d.exitMu.Lock()
	defer d.exitMu.Unlock()
	if !d.exitSet {
		d.exitCode = code
		d.exitSet = true
	}
}

func (d *dispatcher[T, U]) exit(fallback ExitCode) ExitCode {
	d.exitMu.Lock()
	defer d.exitMu.Unlock()
	if d.exitSet {
		return d.exitCode
	}
	return fallback
}
