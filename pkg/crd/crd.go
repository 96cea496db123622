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

package crd

import (
	"strings"

	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/scala-steward/freya/pkg/metadata"
)

// Synthesize generates the CustomResourceDefinition for an operator kind
// under the given API group prefix. The framework does not know the user's
// spec and status schemas, so both are open object schemas; the status
// subresource is enabled so status writes go through the status endpoint.
func Synthesize(prefix, version, kind string) *extv1.CustomResourceDefinition {
	plural := metadata.Plural(kind)

	crd := &extv1.CustomResourceDefinition{
		ObjectMeta: metav1.ObjectMeta{
			Name: metadata.CRDNameFor(prefix, kind),
		},
		Spec: extv1.CustomResourceDefinitionSpec{
			Group: prefix,
			Names: extv1.CustomResourceDefinitionNames{
				Kind:     kind,
				ListKind: kind + "List",
				Plural:   plural,
				Singular: strings.ToLower(kind),
			},
			Scope: extv1.NamespaceScoped,
			Versions: []extv1.CustomResourceDefinitionVersion{
				{
					Name:    version,
					Served:  true,
					Storage: true,
					Schema: &extv1.CustomResourceValidation{
						OpenAPIV3Schema: openSchema(),
					},
					Subresources: &extv1.CustomResourceSubresources{
						Status: &extv1.CustomResourceSubresourceStatus{},
					},
				},
			},
		},
	}

	metadata.NewOperatorLabeler(kind, version).ApplyLabels(&crd.ObjectMeta)
	return crd
}

func openSchema() *extv1.JSONSchemaProps {
	preserve := true
	return &extv1.JSONSchemaProps{
		Type: "object",
		Properties: map[string]extv1.JSONSchemaProps{
			"spec": {
				Type:                   "object",
				XPreserveUnknownFields: &preserve,
			},
			"status": {
				Type:                   "object",
				XPreserveUnknownFields: &preserve,
			},
		},
		Required: []string{"spec"},
	}
}
