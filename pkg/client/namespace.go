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

package client

import (
	"fmt"
	"os"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/scala-steward/freya/pkg/operator"
)

const serviceAccountNamespaceFile = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"

// ResolveNamespace turns a NamespaceScope into the namespace argument the
// client APIs expect. The current-namespace scope is resolved from the
// POD_NAMESPACE environment variable, falling back to the mounted service
// account namespace file.
func ResolveNamespace(scope operator.NamespaceScope) (string, error) {
	switch {
	case scope.IsAll():
		return metav1.NamespaceAll, nil
	case scope.IsCurrent():
		return currentNamespace()
	default:
		return scope.Name(), nil
	}
}

func currentNamespace() (string, error) {
	if ns := os.Getenv("POD_NAMESPACE"); ns != "" {
		return ns, nil
	}
	data, err := os.ReadFile(serviceAccountNamespaceFile)
	if err != nil {
		return "", fmt.Errorf("resolving current namespace: %w", err)
	}
	ns := strings.TrimSpace(string(data))
	if ns == "" {
		return "", fmt.Errorf("resolving current namespace: %s is empty", serviceAccountNamespaceFile)
	}
	return ns, nil
}
