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
	"fmt"
	"strings"

	"github.com/gobuffalo/flect"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GVKFor builds the GroupVersionKind for an operator kind under the given
// API group prefix.
func GVKFor(prefix, version, kind string) schema.GroupVersionKind {
	return schema.GroupVersionKind{
		Group:   prefix,
		Version: version,
		Kind:    kind,
	}
}

// GVRFor builds the GroupVersionResource for an operator kind: the resource
// name is the lowercased plural of the kind.
func GVRFor(prefix, version, kind string) schema.GroupVersionResource {
	return schema.GroupVersionResource{
		Group:    prefix,
		Version:  version,
		Resource: Plural(kind),
	}
}

// GVKtoGVR derives the resource form of a GroupVersionKind.
func GVKtoGVR(gvk schema.GroupVersionKind) schema.GroupVersionResource {
	return schema.GroupVersionResource{
		Group:    gvk.Group,
		Version:  gvk.Version,
		Resource: Plural(gvk.Kind),
	}
}

// GVRtoGVK derives the kind form of a GroupVersionResource.
func GVRtoGVK(gvr schema.GroupVersionResource) schema.GroupVersionKind {
	return schema.GroupVersionKind{
		Group:   gvr.Group,
		Version: gvr.Version,
		Kind:    flect.Capitalize(flect.Singularize(gvr.Resource)),
	}
}

// Plural returns the lowercased plural resource name of a kind.
func Plural(kind string) string {
	return flect.Pluralize(strings.ToLower(kind))
}

// CRDNameFor returns the metadata name a CustomResourceDefinition must carry
// for the kind: "<plural>.<group>".
func CRDNameFor(prefix, kind string) string {
	return fmt.Sprintf("%s.%s", Plural(kind), prefix)
}
