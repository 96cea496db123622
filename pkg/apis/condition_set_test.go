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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObject struct {
	conditions []Condition
}

func (o *testObject) GetConditions() []Condition  { return o.conditions }
func (o *testObject) SetConditions(c []Condition) { o.conditions = c }

func TestForInitializesKnownConditions(t *testing.T) {
	obj := &testObject{}
	cs := NewReadyConditions("Deployed", "Healthy").For(obj)

	require.NotNil(t, cs.Root())
	assert.True(t, cs.Root().IsUnknown())
	assert.True(t, cs.Get("Deployed").IsUnknown())
	assert.True(t, cs.Get("Healthy").IsUnknown())
}

func TestRootTurnsTrueWhenDependentsAre(t *testing.T) {
	obj := &testObject{}
	cs := NewReadyConditions("Deployed", "Healthy").For(obj)

	cs.SetTrue("Deployed")
	assert.False(t, cs.Root().IsTrue())

	cs.SetTrue("Healthy")
	assert.True(t, cs.Root().IsTrue())
	assert.True(t, cs.IsTrue(ConditionReady, "Deployed", "Healthy"))
}

func TestRootMirrorsUnhealthyDependent(t *testing.T) {
	obj := &testObject{}
	cs := NewReadyConditions("Deployed").For(obj)

	cs.SetFalse("Deployed", "RolloutFailed", "image pull backoff")

	root := cs.Root()
	require.NotNil(t, root)
	assert.True(t, root.IsFalse())
	assert.Equal(t, "RolloutFailed", root.Reason)
}

func TestSetIsIdempotent(t *testing.T) {
	obj := &testObject{}
	cs := NewReadyConditions("Deployed").For(obj)

	assert.True(t, cs.SetTrue("Deployed"))
	assert.False(t, cs.SetTrue("Deployed"))
}

func TestRootConditionSortsLast(t *testing.T) {
	obj := &testObject{}
	cs := NewReadyConditions("Deployed", "Healthy").For(obj)

	cs.SetTrue("Deployed")
	cs.SetTrue("Healthy")

	conditions := cs.List()
	require.NotEmpty(t, conditions)
	assert.Equal(t, ConditionReady, conditions[len(conditions)-1].Type)
}

func TestDependsOnDeduplicates(t *testing.T) {
	ct := NewReadyConditions("Deployed", "Deployed", ConditionReady)
	assert.True(t, ct.DependsOn("Deployed"))
	assert.False(t, ct.DependsOn(ConditionReady))
}
