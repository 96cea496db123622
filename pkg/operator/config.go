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
	"time"
)

const (
	// DefaultReconcilePeriod is how often the reconciler re-scans the live
	// resource set when no period is configured.
	DefaultReconcilePeriod = 60 * time.Second

	// DefaultQueueCapacity bounds each per-namespace action queue when no
	// capacity is configured.
	DefaultQueueCapacity = 10

	// DefaultVersion is the API version used when none is configured.
	DefaultVersion = "v1"
)

type scopeKind int

const (
	scopeUnset scopeKind = iota
	scopeAll
	scopeCurrent
	scopeNamed
)

// NamespaceScope selects which namespaces the operator observes. Construct
// it with AllNamespaces, CurrentNamespace or InNamespace; the zero value is
// not a recognized variant and fails validation.
type NamespaceScope struct {
	kind scopeKind
	name string
}

// AllNamespaces watches the whole cluster.
func AllNamespaces() NamespaceScope {
	return NamespaceScope{kind: scopeAll}
}

// CurrentNamespace watches the namespace the operator itself runs in, as
// resolved by the transport at wiring time.
func CurrentNamespace() NamespaceScope {
	return NamespaceScope{kind: scopeCurrent}
}

// InNamespace watches a single named namespace.
func InNamespace(name string) NamespaceScope {
	return NamespaceScope{kind: scopeNamed, name: name}
}

// IsAll reports whether the scope spans every namespace.
func (s NamespaceScope) IsAll() bool { return s.kind == scopeAll }

// IsCurrent reports whether the scope is the operator's own namespace.
func (s NamespaceScope) IsCurrent() bool { return s.kind == scopeCurrent }

// Name returns the namespace name for a named scope, otherwise "".
func (s NamespaceScope) Name() string { return s.name }

func (s NamespaceScope) String() string {
	switch s.kind {
	case scopeAll:
		return "all-namespaces"
	case scopeCurrent:
		return "current-namespace"
	case scopeNamed:
		return fmt.Sprintf("namespace %q", s.name)
	default:
		return "unset"
	}
}

// Config carries the operator configuration. Zero values for the optional
// knobs are replaced by defaults; required fields are checked by Validate.
type Config struct {
	// Kind identifies the resource kind the operator is responsible for.
	// Required.
	Kind string

	// Prefix is the API group prefix for custom resources. Required,
	// non-empty.
	Prefix string

	// Version is the API version of the kind. Defaults to DefaultVersion.
	Version string

	// Scope selects the observed namespaces. Required.
	Scope NamespaceScope

	// ReconcilePeriod is the reconciler tick interval. Defaults to
	// DefaultReconcilePeriod; must be positive.
	ReconcilePeriod time.Duration

	// QueueCapacity bounds each per-namespace action queue. Defaults to
	// DefaultQueueCapacity; must be positive.
	QueueCapacity int

	// StatusQPS paces status writes per namespace. Zero means unlimited.
	StatusQPS float64

	// CheckKubernetesOnStartup probes the API server version before the
	// pipeline starts. Set by DefaultConfig.
	CheckKubernetesOnStartup bool

	// DeployCRD deploys the CustomResourceDefinition for the kind before
	// the pipeline starts, when a schema deployer is wired.
	DeployCRD bool

	// Retry is the restart policy consulted by RunWithRestart. Nil means a
	// single attempt.
	Retry RetryPolicy
}

// DefaultConfig returns a Config for the given kind, prefix and scope with
// every optional knob at its default.
func DefaultConfig(kind, prefix string, scope NamespaceScope) Config {
	return Config{
		Kind:                     kind,
		Prefix:                   prefix,
		Version:                  DefaultVersion,
		Scope:                    scope,
		ReconcilePeriod:          DefaultReconcilePeriod,
		QueueCapacity:            DefaultQueueCapacity,
		CheckKubernetesOnStartup: true,
	}
}

// Validate checks the required fields and value ranges, returning a
// descriptive error for the first violation found.
func (c Config) Validate() error {
	if c.Kind == "" {
		return fmt.Errorf("config: kind must not be empty")
	}
	if c.Prefix == "" {
		return fmt.Errorf("config: prefix must not be empty")
	}
	if c.Scope.kind == scopeUnset {
		return fmt.Errorf("config: namespace scope must be one of AllNamespaces, CurrentNamespace or InNamespace")
	}
	if c.Scope.kind == scopeNamed && c.Scope.name == "" {
		return fmt.Errorf("config: named namespace scope must carry a namespace name")
	}
	if c.ReconcilePeriod < 0 {
		return fmt.Errorf("config: reconcile period must be positive, got %v", c.ReconcilePeriod)
	}
	if c.QueueCapacity < 0 {
		return fmt.Errorf("config: queue capacity must be positive, got %d", c.QueueCapacity)
	}
	return nil
}

// withDefaults fills unset optional knobs.
func (c Config) withDefaults() Config {
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.ReconcilePeriod == 0 {
		c.ReconcilePeriod = DefaultReconcilePeriod
	}
	if c.QueueCapacity == 0 {
		c.QueueCapacity = DefaultQueueCapacity
	}
	return c
}
