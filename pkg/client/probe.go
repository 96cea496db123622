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
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"k8s.io/client-go/discovery"

	"github.com/scala-steward/freya/pkg/operator"
)

// versionProbe verifies that a live API server answers before the pipeline
// starts, and logs what it is running on.
type versionProbe struct {
	discovery discovery.DiscoveryInterface
	log       logr.Logger
}

var _ operator.ClusterProbe = &versionProbe{}

// NewVersionProbe returns a startup probe backed by the discovery client.
func NewVersionProbe(d discovery.DiscoveryInterface, log logr.Logger) operator.ClusterProbe {
	return &versionProbe{discovery: d, log: log.WithName("version-probe")}
}

func (p *versionProbe) Check(ctx context.Context) error {
	info, err := p.discovery.ServerVersion()
	if err != nil {
		return fmt.Errorf("querying server version: %w", err)
	}
	p.log.Info("Connected to Kubernetes", "version", info.GitVersion, "platform", info.Platform)
	return nil
}
