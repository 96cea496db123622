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
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// NewClosedStream returns a ClosedStreamError carrying the terminating
// cause of the watch stream. A nil cause marks a clean close.
func NewClosedStream(cause error) *ClosedStreamError {
	return &ClosedStreamError{cause: cause}
}

// NewParseResource returns a ParseResourceError for a watch event whose
// payload could not be decoded. The offending payload and the original verb
// are preserved so nothing is dropped silently.
func NewParseResource(verb WatchVerb, cause error, raw *unstructured.Unstructured) *ParseResourceError {
	return &ParseResourceError{Verb: verb, Raw: raw, cause: cause}
}

// NewParseReconcile returns a ParseReconcileError for a listed resource that
// could not be decoded during a reconcile pass.
func NewParseReconcile(cause error, raw *unstructured.Unstructured) *ParseReconcileError {
	return &ParseReconcileError{Raw: raw, cause: cause}
}

// ClosedStreamError reports that the cluster closed the watch stream. It is
// fatal to the pipeline run; the supervisor decides whether it leads to a
// restart.
type ClosedStreamError struct {
	cause error
}

func (e *ClosedStreamError) Error() string {
	if e == nil || e.cause == nil {
		return "watch stream closed"
	}
	return fmt.Sprintf("watch stream closed: %v", e.cause)
}

func (e *ClosedStreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

var _ error = &ClosedStreamError{}

// ParseResourceError reports a single watch event that could not be decoded.
// The pipeline logs it and continues.
type ParseResourceError struct {
	Verb  WatchVerb
	Raw   *unstructured.Unstructured
	cause error
}

func (e *ParseResourceError) Error() string {
	return fmt.Sprintf("parsing %s event: %v", e.Verb, e.cause)
}

func (e *ParseResourceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

var _ error = &ParseResourceError{}

// ParseReconcileError reports a listed resource that could not be decoded
// while building reconcile actions. The pipeline logs it and continues.
type ParseReconcileError struct {
	Raw   *unstructured.Unstructured
	cause error
}

func (e *ParseReconcileError) Error() string {
	return fmt.Sprintf("parsing listed resource: %v", e.cause)
}

func (e *ParseReconcileError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

var _ error = &ParseReconcileError{}
