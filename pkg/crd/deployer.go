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
	"context"

	"github.com/scala-steward/freya/pkg/operator"
)

// Deployer binds a Manager to one operator kind, implementing the
// supervisor's schema deployment step.
type Deployer struct {
	manager Manager
	prefix  string
	version string
	kind    string
}

var _ operator.SchemaDeployer = &Deployer{}

// NewDeployer returns a SchemaDeployer ensuring the CRD for (prefix,
// version, kind) exists before the pipeline starts.
func NewDeployer(manager Manager, prefix, version, kind string) *Deployer {
	return &Deployer{manager: manager, prefix: prefix, version: version, kind: kind}
}

func (d *Deployer) Ensure(ctx context.Context) error {
	return d.manager.Ensure(ctx, Synthesize(d.prefix, d.version, d.kind))
}
