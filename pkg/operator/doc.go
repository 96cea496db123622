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

// Package operator implements the core of the framework: a reliable,
// ordered, fault-tolerant event pipeline that drives user controllers over
// cluster-resident resources.
//
// The pipeline is a chain of single-writer stages. A watcher subscribes to
// the cluster watch stream, decodes every event into a typed action and
// hands it over a single-slot conduit to the dispatcher. The dispatcher
// partitions actions by namespace, lazily creating one consumer per
// namespace, each with its own bounded FIFO queue. A consumer serializes all
// controller callbacks for its namespace and hands any produced status
// document to a dedicated feedback writer, which writes updates back to the
// cluster one at a time in submission order.
//
// A periodic reconciler lists the live resource set and injects synthetic
// reconcile actions into the same conduit the watcher feeds, so within a
// namespace a reconcile never overtakes a preceding live event.
//
// Ordering guarantees: per namespace, strict FIFO from arrival through
// controller dispatch, and every status update produced by action k is
// handed to the feedback writer before action k+1 is dispatched. Across
// namespaces there is no ordering; controllers holding cross-namespace
// state must treat it as shared.
//
// Failure policy: local recovery is the default. Undecodable events and
// failing controller callbacks are logged and skipped. Only a closed watch
// stream terminates a run, at which point the supervisor consults the retry
// policy to decide between restart, sleep and exit.
