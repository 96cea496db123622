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

package resource

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

// CustomResource is the typed view of one cluster resource as seen by a
// controller. T is the user's spec type, U the user's status type. The spec
// is always present; the status may be absent right after creation, in which
// case Status is nil.
//
// Instances are produced by a Codec and are treated as immutable once they
// enter the event pipeline.
type CustomResource[T, U any] struct {
	Metadata metav1.ObjectMeta
	Spec     T
	Status   *U
}

// Name returns the resource name.
func (r *CustomResource[T, U]) Name() string {
	return r.Metadata.Name
}

// Namespace returns the resource namespace. Cluster-scoped resources return
// the empty string.
func (r *CustomResource[T, U]) Namespace() string {
	return r.Metadata.Namespace
}

// UID returns the cluster-assigned unique identifier.
func (r *CustomResource[T, U]) UID() types.UID {
	return r.Metadata.UID
}

// NamespacedName returns the "namespace/name" key for the resource.
func (r *CustomResource[T, U]) NamespacedName() types.NamespacedName {
	return types.NamespacedName{Namespace: r.Metadata.Namespace, Name: r.Metadata.Name}
}
