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

	"github.com/scala-steward/freya/pkg/resource"
)

// Controller is the user-facing callback surface. The framework invokes the
// callbacks from its own goroutines; for any single namespace the callbacks
// are never invoked concurrently with each other. Callbacks for different
// namespaces may run concurrently, so controllers holding cross-namespace
// state must treat it as shared.
//
// OnAdd, OnModify and Reconcile may return a new status document; a non-nil
// return is written back to the cluster through the status feedback writer.
// A returned error is logged together with the offending action and the
// pipeline moves on — a failing callback never terminates its consumer.
type Controller[T, U any] interface {
	// OnInit is called exactly once per pipeline run, before any event of
	// that run is dispatched; RunWithRestart calls it again on every
	// restart. An error aborts the pipeline run.
	OnInit(ctx context.Context) error

	// OnAdd handles a resource creation event.
	OnAdd(ctx context.Context, res *resource.CustomResource[T, U]) (*U, error)

	// OnModify handles a resource modification event.
	OnModify(ctx context.Context, res *resource.CustomResource[T, U]) (*U, error)

	// OnDelete handles a resource deletion event. Any status is discarded,
	// the resource is gone.
	OnDelete(ctx context.Context, res *resource.CustomResource[T, U]) error

	// Reconcile handles a synthetic event injected by the periodic
	// reconciler for a live resource.
	Reconcile(ctx context.Context, res *resource.CustomResource[T, U]) (*U, error)
}

// ControllerDefaults provides no-op implementations of every callback.
// Embed it to implement only the callbacks a controller cares about.
type ControllerDefaults[T, U any] struct{}

func (ControllerDefaults[T, U]) OnInit(context.Context) error { return nil }

func (ControllerDefaults[T, U]) OnAdd(context.Context, *resource.CustomResource[T, U]) (*U, error) {
	return nil, nil
}

func (ControllerDefaults[T, U]) OnModify(context.Context, *resource.CustomResource[T, U]) (*U, error) {
	return nil, nil
}

func (ControllerDefaults[T, U]) OnDelete(context.Context, *resource.CustomResource[T, U]) error {
	return nil
}

func (ControllerDefaults[T, U]) Reconcile(context.Context, *resource.CustomResource[T, U]) (*U, error) {
	return nil, nil
}
