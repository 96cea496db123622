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

package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/scala-steward/freya/pkg/client"
	"github.com/scala-steward/freya/pkg/crd"
	"github.com/scala-steward/freya/pkg/metadata"
	"github.com/scala-steward/freya/pkg/operator"
	"github.com/scala-steward/freya/pkg/resource"
)

type customLevelEnabler struct {
	level int
}

func (c customLevelEnabler) Enabled(lvl zapcore.Level) bool {
	return -int(lvl) <= c.level
}

// echoSpec and echoStatus are the demo types the run command operates on.
// The controller does nothing but acknowledge events, which is enough to
// exercise the whole pipeline against a live cluster.
type echoSpec struct {
	Message string `json:"message,omitempty"`
}

type echoStatus struct {
	Phase string `json:"phase,omitempty"`
}

type echoController struct {
	operator.ControllerDefaults[echoSpec, echoStatus]
	log logr.Logger
}

func (c *echoController) OnAdd(_ context.Context, res *resource.CustomResource[echoSpec, echoStatus]) (*echoStatus, error) {
	c.log.Info("Added", "name", res.Name(), "namespace", res.Namespace(), "message", res.Spec.Message)
	return &echoStatus{Phase: "Ready"}, nil
}

func (c *echoController) OnModify(_ context.Context, res *resource.CustomResource[echoSpec, echoStatus]) (*echoStatus, error) {
	c.log.Info("Modified", "name", res.Name(), "namespace", res.Namespace())
	return &echoStatus{Phase: "Ready"}, nil
}

func (c *echoController) OnDelete(_ context.Context, res *resource.CustomResource[echoSpec, echoStatus]) error {
	c.log.Info("Deleted", "name", res.Name(), "namespace", res.Namespace())
	return nil
}

func (c *echoController) Reconcile(_ context.Context, res *resource.CustomResource[echoSpec, echoStatus]) (*echoStatus, error) {
	c.log.V(1).Info("Reconciled", "name", res.Name(), "namespace", res.Namespace())
	return nil, nil
}

// AddRunCommand registers the run subcommand, which drives the demo echo
// controller for a configurable kind.
func AddRunCommand(rootCmd *cobra.Command) {
	var kind string
	var prefix string
	var version string
	var namespace string
	var allNamespaces bool
	var deployCRD bool
	var fromConfigMaps bool
	var labelSelector string
	var dataKey string
	var reconcilePeriod time.Duration
	var queueCapacity int
	var metricsAddr string
	var logLevel int
	var maxRestarts int
	var restartDelay time.Duration

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the demo echo operator for a resource kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := zap.Options{
				Development: true,
				Level:       customLevelEnabler{level: logLevel},
				TimeEncoder: zapcore.ISO8601TimeEncoder,
			}
			rootLogger := zap.New(zap.UseFlagOptions(&opts))
			ctrl.SetLogger(rootLogger)

			scope := operator.InNamespace(namespace)
			if allNamespaces {
				scope = operator.AllNamespaces()
			}

			cfg := operator.DefaultConfig(kind, prefix, scope)
			cfg.Version = version
			cfg.ReconcilePeriod = reconcilePeriod
			cfg.QueueCapacity = queueCapacity
			cfg.DeployCRD = deployCRD && !fromConfigMaps
			cfg.Retry = operator.Times(maxRestarts, restartDelay, 2.0)

			cluster, err := client.Connect(client.Options{})
			if err != nil {
				return fmt.Errorf("connecting to cluster: %w", err)
			}

			// The resource flavor selects the transport and codec pair at
			// wiring time: CRD-backed kinds over the dynamic client, or
			// labelled config maps over the typed client.
			var transport operator.Transport
			var codec resource.Codec[echoSpec, echoStatus]
			if fromConfigMaps {
				transport, err = cluster.ConfigMaps(scope, labelSelector, rootLogger)
				codec = resource.NewConfigMapCodec[echoSpec, echoStatus](dataKey)
			} else {
				transport, err = cluster.CustomResources(metadata.GVRFor(prefix, version, kind), scope)
				codec = resource.NewCustomResourceCodec[echoSpec, echoStatus]()
			}
			if err != nil {
				return err
			}

			op, err := operator.New[echoSpec, echoStatus](
				cfg,
				&echoController{log: rootLogger.WithName("echo")},
				codec,
				transport,
				operator.WithLogger[echoSpec, echoStatus](rootLogger),
				operator.WithClusterProbe[echoSpec, echoStatus](cluster.VersionProbe(rootLogger)),
				operator.WithSchemaDeployer[echoSpec, echoStatus](
					crd.NewDeployer(crd.NewClient(cluster.APIExtensionsV1(), rootLogger), prefix, version, kind),
				),
			)
			if err != nil {
				return err
			}

			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(ctrlmetrics.Registry, promhttp.HandlerOpts{}))
				if err := http.ListenAndServe(metricsAddr, mux); err != nil {
					rootLogger.Error(err, "Metrics server stopped")
				}
			}()

			ctx := ctrl.SetupSignalHandler()
			code, err := op.RunWithRestart(ctx)
			if err != nil {
				return err
			}
			rootLogger.Info("Operator stopped", "code", int(code))
			return nil
		},
	}

	runCmd.Flags().StringVar(&kind, "kind", "", "The resource kind to operate on.")
	runCmd.Flags().StringVar(&prefix, "prefix", "", "The API group prefix of the kind.")
	runCmd.Flags().StringVar(&version, "version", operator.DefaultVersion, "The API version of the kind.")
	runCmd.Flags().StringVar(&namespace, "namespace", "default", "The namespace to watch.")
	runCmd.Flags().BoolVar(&allNamespaces, "all-namespaces", false, "Watch every namespace.")
	runCmd.Flags().BoolVar(&deployCRD, "deploy-crd", false, "Deploy the CRD for the kind on startup.")
	runCmd.Flags().BoolVar(&fromConfigMaps, "configmaps", false, "Operate on labelled config maps instead of a CRD-backed kind.")
	runCmd.Flags().StringVar(&labelSelector, "selector", "", "Label selector scoping the watched config maps.")
	runCmd.Flags().StringVar(&dataKey, "data-key", resource.DefaultConfigMapDataKey, "The config map data key holding the spec document.")
	runCmd.Flags().DurationVar(&reconcilePeriod, "reconcile-period", operator.DefaultReconcilePeriod, "The reconciler tick interval.")
	runCmd.Flags().IntVar(&queueCapacity, "queue-capacity", operator.DefaultQueueCapacity, "The per-namespace action queue capacity.")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-bind-address", ":8078", "The address the metric endpoint binds to.")
	runCmd.Flags().IntVar(&logLevel, "log-level", 1, "The log level verbosity.")
	runCmd.Flags().IntVar(&maxRestarts, "max-restarts", 5, "How many times to restart the pipeline after the watch closes.")
	runCmd.Flags().DurationVar(&restartDelay, "restart-delay", time.Second, "The initial delay between restarts.")

	_ = runCmd.MarkFlagRequired("kind")
	_ = runCmd.MarkFlagRequired("prefix")

	rootCmd.AddCommand(runCmd)
}
