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

package apis

import "golang.org/x/exp/slices"

// NewReadyConditions returns a ConditionTypes to hold the conditions for a
// long-running resource. ConditionReady is used as the root condition; the
// condition types provided are the terminal sub-conditions.
func NewReadyConditions(d ...string) ConditionTypes {
	return newConditionTypes(ConditionReady, d...)
}

// NewSucceededConditions returns a ConditionTypes to hold the conditions
// for a run-to-completion resource. ConditionSucceeded is used as the root
// condition.
func NewSucceededConditions(d ...string) ConditionTypes {
	return newConditionTypes(ConditionSucceeded, d...)
}

// ConditionTypes is an abstract collection of the possible condition types
// a resource might expose, together with its root condition.
type ConditionTypes struct {
	root       string
	dependents []string
}

// For creates a ConditionSet over the object's conditions using the
// receiver as the type reference. Known conditions not yet set are
// initialized to Unknown, the root condition first for consistent
// transition timing.
func (ct ConditionTypes) For(object Object) ConditionSet {
	cs := ConditionSet{object: object, ConditionTypes: ct}
	for _, t := range append([]string{ct.root}, ct.dependents...) {
		if cs.Get(t) == nil {
			cs.SetUnknown(t)
		}
	}
	return cs
}

// DependsOn reports whether the root condition depends on the provided
// condition type.
func (ct ConditionTypes) DependsOn(d string) bool {
	return slices.Contains(ct.dependents, d)
}

func newConditionTypes(root string, dependents ...string) ConditionTypes {
	deps := make([]string, 0, len(dependents))
	for _, d := range dependents {
		// Skip duplicates
		if d == root || slices.Contains(deps, d) {
			continue
		}
		deps = append(deps, d)
	}
	return ConditionTypes{
		root:       root,
		dependents: deps,
	}
}
