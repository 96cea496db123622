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
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"
)

// DefaultConfigMapDataKey is the data key a ConfigMap codec reads the spec
// document from when no key is configured.
const DefaultConfigMapDataKey = "config"

// Codec converts raw cluster payloads into typed resources and encodes
// controller-produced status documents for the status subresource.
type Codec[T, U any] interface {
	// Decode builds a typed CustomResource from the raw payload. The spec
	// must be present; an absent status yields a nil Status.
	Decode(obj *unstructured.Unstructured) (*CustomResource[T, U], error)

	// EncodeStatus converts a status document into the unstructured form the
	// cluster accepts on the status subresource.
	EncodeStatus(status *U) (map[string]interface{}, error)
}

// NewCustomResourceCodec returns a Codec for CRD-backed resources whose spec
// and status live under the conventional "spec" and "status" fields.
func NewCustomResourceCodec[T, U any]() Codec[T, U] {
	return customResourceCodec[T, U]{}
}

type customResourceCodec[T, U any] struct{}

func (customResourceCodec[T, U]) Decode(obj *unstructured.Unstructured) (*CustomResource[T, U], error) {
	specRaw, found, err := unstructured.NestedMap(obj.Object, "spec")
	if err != nil {
		return nil, fmt.Errorf("reading spec of %s/%s: %w", obj.GetNamespace(), obj.GetName(), err)
	}
	if !found {
		return nil, fmt.Errorf("resource %s/%s has no spec", obj.GetNamespace(), obj.GetName())
	}

	var spec T
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(specRaw, &spec); err != nil {
		return nil, fmt.Errorf("decoding spec of %s/%s: %w", obj.GetNamespace(), obj.GetName(), err)
	}

	var status *U
	statusRaw, found, err := unstructured.NestedMap(obj.Object, "status")
	if err != nil {
		return nil, fmt.Errorf("reading status of %s/%s: %w", obj.GetNamespace(), obj.GetName(), err)
	}
	if found {
		var s U
		if err := runtime.DefaultUnstructuredConverter.FromUnstructured(statusRaw, &s); err != nil {
			return nil, fmt.Errorf("decoding status of %s/%s: %w", obj.GetNamespace(), obj.GetName(), err)
		}
		status = &s
	}

	return &CustomResource[T, U]{
		Metadata: objectMetaFrom(obj),
		Spec:     spec,
		Status:   status,
	}, nil
}

func (customResourceCodec[T, U]) EncodeStatus(status *U) (map[string]interface{}, error) {
	if status == nil {
		return nil, nil
	}
	return runtime.DefaultUnstructuredConverter.ToUnstructured(status)
}

// NewConfigMapCodec returns a Codec for ConfigMap-backed operators. The spec
// is unmarshalled (YAML or JSON) from the value stored under dataKey; an
// empty dataKey falls back to DefaultConfigMapDataKey. ConfigMaps carry no
// status subresource, so decoded resources always have a nil Status and
// EncodeStatus yields no payload: the write becomes a no-op the transport
// drops with a V(1) log.
func NewConfigMapCodec[T, U any](dataKey string) Codec[T, U] {
	if dataKey == "" {
		dataKey = DefaultConfigMapDataKey
	}
	return configMapCodec[T, U]{dataKey: dataKey}
}

type configMapCodec[T, U any] struct {
	dataKey string
}

func (c configMapCodec[T, U]) Decode(obj *unstructured.Unstructured) (*CustomResource[T, U], error) {
	var cm corev1.ConfigMap
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(obj.Object, &cm); err != nil {
		return nil, fmt.Errorf("decoding config map %s/%s: %w", obj.GetNamespace(), obj.GetName(), err)
	}

	raw, ok := cm.Data[c.dataKey]
	if !ok {
		return nil, fmt.Errorf("config map %s/%s has no %q data key", cm.Namespace, cm.Name, c.dataKey)
	}

	var spec T
	if err := yaml.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, fmt.Errorf("unmarshalling %q of config map %s/%s: %w", c.dataKey, cm.Namespace, cm.Name, err)
	}

	return &CustomResource[T, U]{
		Metadata: cm.ObjectMeta,
		Spec:     spec,
	}, nil
}

func (configMapCodec[T, U]) EncodeStatus(*U) (map[string]interface{}, error) {
	return nil, nil
}

func objectMetaFrom(obj *unstructured.Unstructured) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:            obj.GetName(),
		Namespace:       obj.GetNamespace(),
		UID:             obj.GetUID(),
		ResourceVersion: obj.GetResourceVersion(),
		Generation:      obj.GetGeneration(),
		Labels:          obj.GetLabels(),
		Annotations:     obj.GetAnnotations(),
	}
}
