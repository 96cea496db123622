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
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/time/rate"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// StatusUpdate carries a controller-produced status document back to the
// cluster. Metadata identifies the target resource.
type StatusUpdate[U any] struct {
	Metadata metav1.ObjectMeta
	Status   *U
}

// statusFeedback is the serialized status writer owned by one
// actionConsumer. Updates are written to the cluster one at a time, in
// submission order; transient write errors are logged and the next update is
// attempted. A rate limiter paces the writes so a chatty controller cannot
// hammer the API server.
type statusFeedback[U any] struct {
	transport Transport
	encode    func(*U) (map[string]interface{}, error)
	updates   chan StatusUpdate[U]
	limiter   *rate.Limiter
	log       logr.Logger

	stopOnce sync.Once
	done     chan struct{}
}

func newStatusFeedback[U any](
	transport Transport,
	encode func(*U) (map[string]interface{}, error),
	qps float64,
	log logr.Logger,
) *statusFeedback[U] {
	limit := rate.Inf
	if qps > 0 {
		limit = rate.Limit(qps)
	}
	return &statusFeedback[U]{
		transport: transport,
		encode:    encode,
		updates:   make(chan StatusUpdate[U]),
		limiter:   rate.NewLimiter(limit, 1),
		log:       log.WithName("status-feedback"),
		done:      make(chan struct{}),
	}
}

// put hands an update to the writer. The caller does not wait for cluster
// confirmation, only for the writer to accept the update, which keeps status
// writes serialized with their triggering actions.
func (f *statusFeedback[U]) put(ctx context.Context, u StatusUpdate[U]) error {
	select {
	case f.updates <- u:
		return nil
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stop signals termination. Updates already accepted are still written.
func (f *statusFeedback[U]) stop() {
	f.stopOnce.Do(func() { close(f.updates) })
}

// run drains the update channel until the termination marker. It is the
// single writer to the cluster for its namespace.
func (f *statusFeedback[U]) run(ctx context.Context) {
	defer close(f.done)

	for u := range f.updates {
		if err := f.limiter.Wait(ctx); err != nil {
			return
		}
		f.write(ctx, u)
	}
}

func (f *statusFeedback[U]) write(ctx context.Context, u StatusUpdate[U]) {
	payload, err := f.encode(u.Status)
	if err != nil {
		statusUpdateFailuresTotal.WithLabelValues(u.Metadata.Namespace).Inc()
		f.log.Error(err, "Failed to encode status",
			"namespace", u.Metadata.Namespace, "name", u.Metadata.Name)
		return
	}

	if err := f.transport.UpdateStatus(ctx, u.Metadata, payload); err != nil {
		statusUpdateFailuresTotal.WithLabelValues(u.Metadata.Namespace).Inc()
		f.log.Error(err, "Failed to update status",
			"namespace", u.Metadata.Namespace, "name", u.Metadata.Name)
		return
	}

	statusUpdatesTotal.WithLabelValues(u.Metadata.Namespace).Inc()
	f.log.V(4).Info("Status updated",
		"namespace", u.Metadata.Namespace, "name", u.Metadata.Name)
}
