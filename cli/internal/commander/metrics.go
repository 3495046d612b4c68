/*
Copyright 2021 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package commander

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/thestormforge/optimize-bridge/internal/config"
	"github.com/thestormforge/optimize-bridge/internal/metrics"
)

// MetricsFlags adds the metrics exposition overrides to the supplied command
func MetricsFlags(cfg *config.BridgeConfig, cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Overrides.MetricsAddress, "metrics-addr", "", "listen `address` of the Prometheus metrics endpoint")
	cmd.Flags().StringVar(&cfg.Overrides.MetricsFile, "metrics-file", "", "write the metrics to this text `file` on exit")
	_ = cmd.MarkFlagFilename("metrics-file", "prom")
}

// RunWithMetrics runs the supplied function while the metrics registry is exposed as configured. The text file is
// written even if the function fails.
func RunWithMetrics(ctx context.Context, cfg config.Metrics, log logr.Logger, run func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Address != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Address); err != nil {
				log.Error(err, "Metrics endpoint failed", "address", cfg.Address)
			}
		}()
	}

	err := run(ctx)

	if cfg.File != "" {
		if werr := metrics.WriteTextfile(cfg.File); werr != nil {
			log.Error(werr, "Failed to write metrics", "file", cfg.File)
			if err == nil {
				err = werr
			}
		}
	}

	return err
}
