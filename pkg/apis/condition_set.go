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

import (
	"fmt"
	"reflect"
	"sort"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ConditionSet provides methods for evaluating and updating the conditions
// of one object.
type ConditionSet struct {
	ConditionTypes
	object Object
}

// Root returns the root condition, typically "Ready" or "Succeeded".
func (c ConditionSet) Root() *Condition {
	if c.object == nil {
		return nil
	}
	return c.Get(c.root)
}

// List returns all conditions currently set.
func (c ConditionSet) List() []Condition {
	if c.object == nil {
		return nil
	}
	return c.object.GetConditions()
}

// Get finds and returns the condition of the given type, or nil.
func (c ConditionSet) Get(t string) *Condition {
	if c.object == nil {
		return nil
	}
	for _, cond := range c.object.GetConditions() {
		if cond.Type == t {
			return &cond
		}
	}
	return nil
}

// IsTrue returns true if all given condition types are true.
func (c ConditionSet) IsTrue(conditionTypes ...string) bool {
	for _, conditionType := range conditionTypes {
		if !c.Get(conditionType).IsTrue() {
			return false
		}
	}
	return true
}

// IsDependentCondition reports whether the provided type is involved in
// calculating the root condition.
func (c ConditionSet) IsDependentCondition(t string) bool {
	return t == c.root || c.DependsOn(t)
}

// Set sets or updates the condition of the given type. If there is an
// update, conditions are stored back sorted with the root condition last.
func (c ConditionSet) Set(condition Condition) (modified bool) {
	if c.object == nil {
		return false
	}

	var conditions []Condition
	var foundCondition bool

	for _, cond := range c.object.GetConditions() {
		if cond.Type != condition.Type {
			conditions = append(conditions, cond)
		} else {
			foundCondition = true
			if condition.Status == cond.Status {
				condition.LastTransitionTime = cond.LastTransitionTime
			} else {
				condition.LastTransitionTime = metav1.Now()
			}
			if reflect.DeepEqual(condition, cond) {
				return false
			}
		}
	}
	if !foundCondition {
		condition.LastTransitionTime = metav1.Now()
	}
	conditions = append(conditions, condition)
	// Sorted for convenience of the consumer, i.e. kubectl.
	sort.SliceStable(conditions, func(i, j int) bool {
		if conditions[i].Type == c.root || conditions[j].Type == c.root {
			return conditions[j].Type == c.root
		}
		return conditions[i].LastTransitionTime.Time.Before(conditions[j].LastTransitionTime.Time)
	})
	c.object.SetConditions(conditions)

	c.recomputeRootCondition(condition.Type)
	return true
}

// SetTrue sets the condition to true and recomputes the root condition.
func (c ConditionSet) SetTrue(conditionType string) (modified bool) {
	return c.SetTrueWithReason(conditionType, conditionType, "")
}

// SetTrueWithReason sets the condition to true with the given reason.
func (c ConditionSet) SetTrueWithReason(conditionType string, reason, message string) (modified bool) {
	return c.Set(Condition{
		Type:    conditionType,
		Status:  metav1.ConditionTrue,
		Reason:  reason,
		Message: message,
	})
}

// SetUnknown sets the condition to Unknown.
func (c ConditionSet) SetUnknown(conditionType string) (modified bool) {
	return c.SetUnknownWithReason(conditionType, "AwaitingReconciliation",
		fmt.Sprintf("condition %q is awaiting reconciliation", conditionType))
}

// SetUnknownWithReason sets the condition to Unknown with the given reason.
func (c ConditionSet) SetUnknownWithReason(conditionType string, reason, message string) (modified bool) {
	return c.Set(Condition{
		Type:    conditionType,
		Status:  metav1.ConditionUnknown,
		Reason:  reason,
		Message: message,
	})
}

// SetFalse sets the condition to False with the given reason.
func (c ConditionSet) SetFalse(conditionType string, reason, message string) (modified bool) {
	return c.Set(Condition{
		Type:    conditionType,
		Status:  metav1.ConditionFalse,
		Reason:  reason,
		Message: message,
	})
}

// recomputeRootCondition marks the root condition true if all dependents
// are true, otherwise it mirrors the most unhealthy dependent.
func (c ConditionSet) recomputeRootCondition(conditionType string) {
	if conditionType == c.root {
		return
	}
	if conditions := c.findUnhealthyDependents(); len(conditions) == 0 {
		c.SetTrue(c.root)
	} else if unhealthy, found := findMostUnhealthy(conditions); found {
		c.Set(Condition{
			Type:    c.root,
			Status:  unhealthy.Status,
			Reason:  unhealthy.Reason,
			Message: unhealthy.Message,
		})
	}
}

func findMostUnhealthy(deps []Condition) (Condition, bool) {
	sort.Slice(deps, func(i, j int) bool {
		return deps[i].LastTransitionTime.Time.After(deps[j].LastTransitionTime.Time)
	})

	// False conditions trump Unknown.
	for _, c := range deps {
		if c.IsFalse() {
			return c, true
		}
	}
	for _, c := range deps {
		if c.IsUnknown() {
			return c, true
		}
	}

	return Condition{}, false
}

func (c ConditionSet) findUnhealthyDependents() []Condition {
	if len(c.dependents) == 0 {
		return nil
	}
	deps := make([]Condition, 0, len(c.object.GetConditions()))
	for _, dep := range c.object.GetConditions() {
		if c.DependsOn(dep.Type) && (dep.IsFalse() || dep.IsUnknown()) {
			deps = append(deps, dep)
		}
	}

	sort.Slice(deps, func(i, j int) bool {
		return deps[i].LastTransitionTime.After(deps[j].LastTransitionTime.Time)
	})
	return deps
}
