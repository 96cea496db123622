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
	"errors"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// LabelFreyaPrefix is the label key prefix used to mark framework-owned
	// resources.
	LabelFreyaPrefix = "freya.sh/"

	ManagedByLabel = "app.kubernetes.io/managed-by"
	KindLabel      = LabelFreyaPrefix + "kind"
	VersionLabel   = LabelFreyaPrefix + "version"
)

var ErrDuplicatedLabels = errors.New("duplicate labels")

// Labeler is a set of labels that can be applied to a resource.
type Labeler interface {
	Labels() map[string]string
	ApplyLabels(metav1.Object)
	Merge(Labeler) (Labeler, error)
}

var _ Labeler = GenericLabeler{}

// GenericLabeler is a map of labels implementing the Labeler interface.
type GenericLabeler map[string]string

// Labels returns the labels.
func (gl GenericLabeler) Labels() map[string]string {
	return gl
}

// ApplyLabels applies the labels to the resource.
func (gl GenericLabeler) ApplyLabels(meta metav1.Object) {
	for k, v := range gl {
		setLabel(meta, k, v)
	}
}

// Merge combines both label sets. Duplicate keys are an error.
func (gl GenericLabeler) Merge(other Labeler) (Labeler, error) {
	merged := gl.Copy()
	for k, v := range other.Labels() {
		if _, ok := merged[k]; ok {
			return nil, fmt.Errorf("%w: found key %q in both maps", ErrDuplicatedLabels, k)
		}
		merged[k] = v
	}
	return GenericLabeler(merged), nil
}

// Copy returns a copy of the labels.
func (gl GenericLabeler) Copy() map[string]string {
	c := map[string]string{}
	for k, v := range gl {
		c[k] = v
	}
	return c
}

// NewOperatorLabeler returns the labels stamped onto resources the
// framework deploys for an operator kind.
func NewOperatorLabeler(kind, version string) GenericLabeler {
	return map[string]string{
		ManagedByLabel: "freya",
		KindLabel:      kind,
		VersionLabel:   version,
	}
}

func setLabel(meta metav1.Object, key, value string) {
	labels := meta.GetLabels()
	if labels == nil {
		labels = map[string]string{}
	}
	labels[key] = value
	meta.SetLabels(labels)
}
