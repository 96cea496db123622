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
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/scala-steward/freya/pkg/resource"
)

// WatchVerb is the lifecycle verb of one event on the cluster watch stream.
type WatchVerb string

const (
	VerbAdded    WatchVerb = "ADDED"
	VerbModified WatchVerb = "MODIFIED"
	VerbDeleted  WatchVerb = "DELETED"
	VerbError    WatchVerb = "ERROR"
)

// RawEvent is one untyped event as delivered by the cluster transport,
// before decoding into a typed action.
type RawEvent struct {
	Verb   WatchVerb
	Object *unstructured.Unstructured
}

// Action is the closed set of work items flowing through the pipeline.
// Actions are single-use: an action is dropped once dispatched.
//
// The three variants are ServerAction (a decoded live watch event),
// ReconcileAction (a synthetic event injected by the reconciler) and
// FailureAction (a decode failure reported through the same conduit so that
// per-namespace ordering is preserved).
type Action[T, U any] interface {
	isAction()
}

// ServerAction is a decoded live event from the watch stream. Resource is
// non-nil unless Verb is VerbError.
type ServerAction[T, U any] struct {
	Verb     WatchVerb
	Resource *resource.CustomResource[T, U]
}

func (*ServerAction[T, U]) isAction() {}

// ReconcileAction is a synthetic event produced by the periodic reconciler.
// It always carries a live resource.
type ReconcileAction[T, U any] struct {
	Resource *resource.CustomResource[T, U]
}

func (*ReconcileAction[T, U]) isAction() {}

// FailureAction carries a decode failure: a *ClosedStreamError,
// *ParseResourceError or *ParseReconcileError.
type FailureAction[T, U any] struct {
	Failure error
}

func (*FailureAction[T, U]) isAction() {}

// namespaceOf extracts the target namespace of an action. Cluster-scoped
// resources and failures with no attributable namespace map to the synthetic
// "" key.
func namespaceOf[T, U any](a Action[T, U]) string {
	switch act := a.(type) {
	case *ServerAction[T, U]:
		if act.Resource != nil {
			return act.Resource.Metadata.Namespace
		}
	case *ReconcileAction[T, U]:
		return act.Resource.Metadata.Namespace
	case *FailureAction[T, U]:
		switch f := act.Failure.(type) {
		case *ParseResourceError:
			if f.Raw != nil {
				return f.Raw.GetNamespace()
			}
		case *ParseReconcileError:
			if f.Raw != nil {
				return f.Raw.GetNamespace()
			}
		}
	}
	return ""
}
