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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/scala-steward/freya/pkg/resource"
)

func newDecoder() decoder[testSpec, testStatus] {
	return decoder[testSpec, testStatus]{codec: resource.NewCustomResourceCodec[testSpec, testStatus]()}
}

func TestDecodeEvent(t *testing.T) {
	d := newDecoder()

	a := d.decodeEvent(RawEvent{Verb: VerbAdded, Object: newTestObject("default", "r1", "u1", "hello")})

	sa, ok := a.(*ServerAction[testSpec, testStatus])
	require.True(t, ok)
	assert.Equal(t, VerbAdded, sa.Verb)
	require.NotNil(t, sa.Resource)
	assert.Equal(t, "r1", sa.Resource.Name())
	assert.Equal(t, "hello", sa.Resource.Spec.Value)
}

func TestDecodeEventPreservesFailure(t *testing.T) {
	d := newDecoder()

	// No spec at all: the payload and verb must survive in the failure.
	broken := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "example.com/v1",
		"kind":       "Kerb",
		"metadata":   map[string]interface{}{"name": "r1", "namespace": "default"},
	}}

	a := d.decodeEvent(RawEvent{Verb: VerbModified, Object: broken})

	fa, ok := a.(*FailureAction[testSpec, testStatus])
	require.True(t, ok)
	parse, ok := fa.Failure.(*ParseResourceError)
	require.True(t, ok)
	assert.Equal(t, VerbModified, parse.Verb)
	assert.Same(t, broken, parse.Raw)
	assert.Equal(t, "default", namespaceOf[testSpec, testStatus](a))
}

func TestDecodeErrorVerb(t *testing.T) {
	d := newDecoder()

	a := d.decodeEvent(RawEvent{Verb: VerbError})

	sa, ok := a.(*ServerAction[testSpec, testStatus])
	require.True(t, ok)
	assert.Equal(t, VerbError, sa.Verb)
	assert.Nil(t, sa.Resource)
}

func TestDecodeListed(t *testing.T) {
	d := newDecoder()

	a := d.decodeListed(newTestObject("team-a", "r2", "u2", "v"))
	ra, ok := a.(*ReconcileAction[testSpec, testStatus])
	require.True(t, ok)
	assert.Equal(t, "team-a", ra.Resource.Namespace())

	broken := &unstructured.Unstructured{Object: map[string]interface{}{
		"metadata": map[string]interface{}{"name": "r3", "namespace": "team-b"},
	}}
	fa, ok := d.decodeListed(broken).(*FailureAction[testSpec, testStatus])
	require.True(t, ok)
	_, ok = fa.Failure.(*ParseReconcileError)
	assert.True(t, ok)
}

func TestNamespaceOfClusterScoped(t *testing.T) {
	a := &ServerAction[testSpec, testStatus]{
		Verb:     VerbAdded,
		Resource: newTestResource("", "global", "u9", ""),
	}
	assert.Equal(t, "", namespaceOf[testSpec, testStatus](a))
}
