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

// decoder turns raw transport payloads into typed actions. It never drops an
// event silently: a payload that fails to decode becomes a FailureAction
// carrying the offending payload and the original verb.
type decoder[T, U any] struct {
	codec resource.Codec[T, U]
}

// decodeEvent converts one watch event. VerbError events carry no decodable
// payload and pass through as a resource-less ServerAction.
func (d decoder[T, U]) decodeEvent(ev RawEvent) Action[T, U] {
	if ev.Verb == VerbError {
		return &ServerAction[T, U]{Verb: VerbError}
	}

	res, err := d.codec.Decode(ev.Object)
	if err != nil {
		return &FailureAction[T, U]{Failure: NewParseResource(ev.Verb, err, ev.Object)}
	}
	return &ServerAction[T, U]{Verb: ev.Verb, Resource: res}
}

// decodeListed converts one resource returned by a reconcile list pass.
func (d decoder[T, U]) decodeListed(obj *unstructured.Unstructured) Action[T, U] {
	res, err := d.codec.Decode(obj)
	if err != nil {
		return &FailureAction[T, U]{Failure: NewParseReconcile(err, obj)}
	}
	return &ReconcileAction[T, U]{Resource: res}
}
