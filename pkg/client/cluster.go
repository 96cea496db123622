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

	"github.com/go-logr/logr"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset/typed/apiextensions/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	ctrlrtconfig "sigs.k8s.io/controller-runtime/pkg/client/config"

	"github.com/scala-steward/freya/pkg/operator"
)

const defaultUserAgent = "freya/0.1.0"

// Cluster is the wiring entry point against a live cluster. It loads the
// REST configuration once and hands out transports bound to a namespace
// scope, the startup probe, and the raw clients the CRD manager needs.
type Cluster struct {
	config        *rest.Config
	kubernetes    *kubernetes.Clientset
	dynamic       *dynamic.DynamicClient
	apiExtensions *apiextensionsv1.ApiextensionsV1Client
}

// Options tunes the connection. The zero value loads the ambient kubeconfig
// or in-cluster configuration with default rate limits.
type Options struct {
	// RestConfig overrides configuration loading when non-nil.
	RestConfig *rest.Config
	QPS        float32
	Burst      int
	UserAgent  string
}

// Connect builds a Cluster from the given options.
func Connect(opts Options) (*Cluster, error) {
	config := opts.RestConfig
	if config == nil {
		var err error
		config, err = ctrlrtconfig.GetConfig()
		if err != nil {
			return nil, fmt.Errorf("loading cluster configuration: %w", err)
		}
	}

	config = rest.CopyConfig(config)
	if opts.QPS != 0 {
		config.QPS = opts.QPS
	}
	if opts.Burst != 0 {
		config.Burst = opts.Burst
	}
	config.UserAgent = opts.UserAgent
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}

	kube, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("creating clientset: %w", err)
	}
	dyn, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("creating dynamic client: %w", err)
	}
	apiExt, err := apiextensionsv1.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("creating apiextensions client: %w", err)
	}

	return &Cluster{
		config:        config,
		kubernetes:    kube,
		dynamic:       dyn,
		apiExtensions: apiExt,
	}, nil
}

// CustomResources returns the transport for a CRD-backed kind, resolving the
// namespace scope at wiring time.
func (c *Cluster) CustomResources(gvr schema.GroupVersionResource, scope operator.NamespaceScope) (operator.Transport, error) {
	namespace, err := ResolveNamespace(scope)
	if err != nil {
		return nil, err
	}
	return NewCustomResourceTransport(c.dynamic, gvr, namespace), nil
}

// ConfigMaps returns the transport for a ConfigMap-backed operator,
// resolving the namespace scope at wiring time. labelSelector scopes which
// config maps the operator owns; empty means no filtering.
func (c *Cluster) ConfigMaps(scope operator.NamespaceScope, labelSelector string, log logr.Logger) (operator.Transport, error) {
	namespace, err := ResolveNamespace(scope)
	if err != nil {
		return nil, err
	}
	return NewConfigMapTransport(c.kubernetes, namespace, labelSelector, log), nil
}

// VersionProbe returns the startup probe consulted when the operator checks
// the cluster before running.
func (c *Cluster) VersionProbe(log logr.Logger) operator.ClusterProbe {
	return NewVersionProbe(c.kubernetes.Discovery(), log)
}

// Kubernetes returns the standard clientset.
func (c *Cluster) Kubernetes() *kubernetes.Clientset {
	return c.kubernetes
}

// Dynamic returns the dynamic client.
func (c *Cluster) Dynamic() *dynamic.DynamicClient {
	return c.dynamic
}

// APIExtensionsV1 returns the apiextensions client the CRD manager is built
// on.
func (c *Cluster) APIExtensionsV1() *apiextensionsv1.ApiextensionsV1Client {
	return c.apiExtensions
}

// RESTConfig returns a copy of the underlying REST config.
func (c *Cluster) RESTConfig() *rest.Config {
	return rest.CopyConfig(c.config)
}
