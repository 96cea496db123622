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

	"github.com/scala-steward/freya/pkg/resource"
)

// ExitCode is the result of a pipeline run.
type ExitCode int

const (
	// ExitSuccess marks a graceful, externally requested shutdown.
	ExitSuccess ExitCode = 0
	// ExitConsumerClosed marks a run terminated by the cluster closing the
	// watch stream and the consumers draining to completion.
	ExitConsumerClosed ExitCode = 1
	// ExitError marks an unrecoverable failure before or during startup.
	ExitError ExitCode = 2
)

// SchemaDeployer ensures the server-side schema for the operator's kind
// exists before the pipeline starts. Implementations live in pkg/crd.
type SchemaDeployer interface {
	Ensure(ctx context.Context) error
}

// ClusterProbe checks that a live cluster is reachable on startup.
// Implementations live in pkg/client.
type ClusterProbe interface {
	Check(ctx context.Context) error
}

// Operator is the top-level supervisor tying the watch pipeline together:
// watcher, dispatcher, per-namespace consumers, reconciler and the restart
// loop.
type Operator[T, U any] struct {
	cfg        Config
	controller Controller[T, U]
	codec      resource.Codec[T, U]
	transport  Transport
	deployer   SchemaDeployer
	probe      ClusterProbe
	log        logr.Logger
}

// Option customizes an Operator at construction time.
type Option[T, U any] func(*Operator[T, U])

// WithLogger replaces the discarding default logger.
func WithLogger[T, U any](log logr.Logger) Option[T, U] {
	return func(o *Operator[T, U]) { o.log = log }
}

// WithSchemaDeployer wires the deployer consulted when Config.DeployCRD is
// set.
func WithSchemaDeployer[T, U any](d SchemaDeployer) Option[T, U] {
	return func(o *Operator[T, U]) { o.deployer = d }
}

// WithClusterProbe wires the startup probe consulted when
// Config.CheckKubernetesOnStartup is set.
func WithClusterProbe[T, U any](p ClusterProbe) Option[T, U] {
	return func(o *Operator[T, U]) { o.probe = p }
}

// New validates the configuration and assembles an Operator. The transport
// and codec select the resource flavor (custom resource or config map) at
// wiring time.
func New[T, U any](
	cfg Config,
	controller Controller[T, U],
	codec resource.Codec[T, U],
	transport Transport,
	opts ...Option[T, U],
) (*Operator[T, U], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &Operator[T, U]{
		cfg:        cfg.withDefaults(),
		controller: controller,
		codec:      codec,
		transport:  transport,
		log:        logr.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = o.log.WithName("operator").WithValues("kind", o.cfg.Kind)
	return o, nil
}

// Run performs a single pipeline attempt: startup checks, schema deployment,
// controller initialization, then the watch pipeline until the stream closes
// or the context is cancelled. The watch handle is released on every exit
// path.
func (o *Operator[T, U]) Run(ctx context.Context) (ExitCode, error) {
	if o.cfg.CheckKubernetesOnStartup && o.probe != nil {
		if err := o.probe.Check(ctx); err != nil {
			return ExitError, fmt.Errorf("cluster probe failed: %w", err)
		}
	}

	if o.cfg.DeployCRD && o.deployer != nil {
		if err := o.deployer.Ensure(ctx); err != nil {
			return ExitError, fmt.Errorf("deploying schema for kind %s: %w", o.cfg.Kind, err)
		}
	}

	if err := o.controller.OnInit(ctx); err != nil {
		return ExitError, fmt.Errorf("controller initialization failed: %w", err)
	}

	handle, err := o.transport.Watch(ctx)
	if err != nil {
		return ExitError, fmt.Errorf("starting watch for kind %s: %w", o.cfg.Kind, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer handle.Stop()

	// Single-slot conduit between producers (watcher, reconciler) and the
	// dispatcher: one action is handed over at a time, with backpressure.
	actions := make(chan Action[T, U], 1)
	dec := decoder[T, U]{codec: o.codec}

	disp := newDispatcher[T, U](actions, o.newConsumer, o.log)
	dispatchDone := make(chan ExitCode, 1)
	go func() { dispatchDone <- disp.run(runCtx) }()

	rec := newReconciler[T, U](o.transport, dec, actions, o.cfg.ReconcilePeriod, o.log)
	reconcileDone := make(chan struct{})
	go func() {
		defer close(reconcileDone)
		rec.run(runCtx)
	}()

	go newWatcher[T, U](dec, actions, o.log).run(runCtx, handle)

	o.log.Info("Pipeline running", "scope", o.cfg.Scope.String())

	// The first of the consumer-exit signal and the reconciler exit decides
	// the run result.
	select {
	case code := <-dispatchDone:
		o.log.Info("Pipeline stopped", "code", int(code))
		return code, nil
	case <-reconcileDone:
		o.log.Info("Pipeline stopped by reconciler exit")
		cancel()
		<-dispatchDone
		return ExitSuccess, nil
	case <-ctx.Done():
		o.log.Info("Pipeline cancelled")
		handle.Stop()
		cancel()
		<-dispatchDone
		return ExitSuccess, nil
	}
}

// RunWithRestart runs the pipeline and, on each exit, consults the
// configured retry policy to decide between restart, sleep and exit. The
// result of the final attempt is returned.
func (o *Operator[T, U]) RunWithRestart(ctx context.Context) (ExitCode, error) {
	policy := o.cfg.Retry

	for {
		code, err := o.Run(ctx)
		if err != nil && code == ExitError {
			// Startup failures are not retried blindly either: the policy
			// decides, same as for watch closures.
			o.log.Error(err, "Pipeline attempt failed")
		}
		if ctx.Err() != nil || policy == nil {
			return code, err
		}

		canRestart, delay, next := policy.Next()
		if !canRestart {
			o.log.Info("Retry policy exhausted", "code", int(code))
			return code, err
		}

		restartsTotal.Inc()
		o.log.Info("Restarting pipeline", "delay", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return code, err
		}
		policy = next
	}
}

func (o *Operator[T, U]) newConsumer(namespace string) *actionConsumer[T, U] {
	feedback := newStatusFeedback[U](o.transport, o.codec.EncodeStatus, o.cfg.StatusQPS, o.log)
	return newActionConsumer[T, U](namespace, o.cfg.QueueCapacity, o.controller, feedback, o.log)
}
