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

package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestOperatorLabelerApplies(t *testing.T) {
	obj := &metav1.ObjectMeta{}
	NewOperatorLabeler("Kerb", "v1").ApplyLabels(obj)

	assert.Equal(t, "freya", obj.Labels[ManagedByLabel])
	assert.Equal(t, "Kerb", obj.Labels[KindLabel])
	assert.Equal(t, "v1", obj.Labels[VersionLabel])
}

func TestLabelerMerge(t *testing.T) {
	merged, err := GenericLabeler{"a": "1"}.Merge(GenericLabeler{"b": "2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, merged.Labels())

	_, err = GenericLabeler{"a": "1"}.Merge(GenericLabeler{"a": "2"})
	assert.ErrorIs(t, err, ErrDuplicatedLabels)
}
