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
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

func init() {
	// Register metrics with the global prometheus registry
	metrics.Registry.MustRegister(
		eventsTotal,
		dispatchDuration,
		controllerErrorsTotal,
		statusUpdatesTotal,
		statusUpdateFailuresTotal,
		reconcileTotal,
		reconcileListFailuresTotal,
		queueLength,
		consumersGauge,
		restartsTotal,
	)
}

var (
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freya_operator_events_total",
			Help: "Total number of watch events received per verb",
		},
		[]string{"verb"},
	)
	dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "freya_operator_dispatch_duration_seconds",
			Help:    "Duration of controller callback dispatches per namespace and verb",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"namespace", "verb"},
	)
	controllerErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freya_operator_controller_errors_total",
			Help: "Total number of controller callback failures per namespace and verb",
		},
		[]string{"namespace", "verb"},
	)
	statusUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freya_operator_status_updates_total",
			Help: "Total number of status updates written per namespace",
		},
		[]string{"namespace"},
	)
	statusUpdateFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freya_operator_status_update_failures_total",
			Help: "Total number of failed status updates per namespace",
		},
		[]string{"namespace"},
	)
	reconcileTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "freya_operator_reconcile_total",
			Help: "Total number of reconcile actions injected",
		},
	)
	reconcileListFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "freya_operator_reconcile_list_failures_total",
			Help: "Total number of skipped reconcile passes due to list failures",
		},
	)
	queueLength = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "freya_operator_queue_length",
			Help: "Current length of the per-namespace action queue",
		},
		[]string{"namespace"},
	)
	consumersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "freya_operator_consumers",
			Help: "Number of per-namespace consumers in the current pipeline run",
		},
	)
	restartsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "freya_operator_restarts_total",
			Help: "Total number of pipeline restarts decided by the retry policy",
		},
	)
)
