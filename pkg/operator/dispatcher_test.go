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
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startDispatcher(ctrl *fakeController) (chan Action[testSpec, testStatus], chan ExitCode) {
	actions := make(chan Action[testSpec, testStatus], 1)
	d := newDispatcher[testSpec, testStatus](actions, func(namespace string) *actionConsumer[testSpec, testStatus] {
		return newActionConsumer[testSpec, testStatus](namespace, 8, ctrl, nil, noopLogger())
	}, noopLogger())

	exit := make(chan ExitCode, 1)
	go func() { exit <- d.run(context.Background()) }()
	return actions, exit
}

func TestDispatcherRoutesAcrossNamespaces(t *testing.T) {
	ctrl := &fakeController{}
	actions, exit := startDispatcher(ctrl)

	actions <- added(newTestResource("n1", "a", "ua", ""))
	actions <- added(newTestResource("n2", "b", "ub", ""))
	actions <- modified(newTestResource("n1", "a", "ua", ""))
	actions <- &FailureAction[testSpec, testStatus]{Failure: NewClosedStream(nil)}

	assert.Equal(t, ExitConsumerClosed, <-exit)

	calls := ctrl.recorded()
	// Cross-namespace order is unspecified; per-namespace FIFO must hold.
	var n1 []string
	for _, c := range calls {
		if strings.HasSuffix(c, "n1/a") {
			n1 = append(n1, c)
		}
	}
	assert.Equal(t, []string{"add:n1/a", "modify:n1/a"}, n1)

	sorted := append([]string(nil), calls...)
	sort.Strings(sorted)
	assert.Equal(t, []string{"add:n1/a", "add:n2/b", "modify:n1/a"}, sorted)
}

func TestDispatcherClusterScopedKey(t *testing.T) {
	ctrl := &fakeController{}
	actions, exit := startDispatcher(ctrl)

	actions <- added(newTestResource("", "global", "ug", ""))
	actions <- &FailureAction[testSpec, testStatus]{Failure: NewClosedStream(nil)}

	assert.Equal(t, ExitConsumerClosed, <-exit)
	assert.Equal(t, []string{"add:/global"}, ctrl.recorded())
}

func TestDispatcherClosureWithNoConsumers(t *testing.T) {
	ctrl := &fakeController{}
	actions, exit := startDispatcher(ctrl)

	actions <- &FailureAction[testSpec, testStatus]{Failure: NewClosedStream(nil)}

	assert.Equal(t, ExitConsumerClosed, <-exit)
	assert.Empty(t, ctrl.recorded())
}

func TestDispatcherCancellation(t *testing.T) {
	ctrl := &fakeController{}
	actions := make(chan Action[testSpec, testStatus], 1)
	d := newDispatcher[testSpec, testStatus](actions, func(namespace string) *actionConsumer[testSpec, testStatus] {
		return newActionConsumer[testSpec, testStatus](namespace, 8, ctrl, nil, noopLogger())
	}, noopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	exit := make(chan ExitCode, 1)
	go func() { exit <- d.run(ctx) }()

	actions <- added(newTestResource("default", "r1", "u1", ""))
	cancel()

	assert.Equal(t, ExitSuccess, <-exit)
}

func TestDispatcherSingleConsumerPerNamespace(t *testing.T) {
	ctrl := &fakeController{}
	actions := make(chan Action[testSpec, testStatus], 1)

	created := 0
	d := newDispatcher[testSpec, testStatus](actions, func(namespace string) *actionConsumer[testSpec, testStatus] {
		created++
		return newActionConsumer[testSpec, testStatus](namespace, 8, ctrl, nil, noopLogger())
	}, noopLogger())

	exit := make(chan ExitCode, 1)
	go func() { exit <- d.run(context.Background()) }()

	for i := 0; i < 5; i++ {
		actions <- added(newTestResource("default", "r1", "u1", ""))
	}
	actions <- &FailureAction[testSpec, testStatus]{Failure: NewClosedStream(nil)}

	require.Equal(t, ExitConsumerClosed, <-exit)
	assert.Equal(t, 1, created)
	assert.Len(t, ctrl.recorded(), 5)
}
