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

package solve

import (
	"context"
	"io"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/cli/internal/commander"
	"github.com/thestormforge/optimize-bridge/internal/channel"
	"github.com/thestormforge/optimize-bridge/internal/config"
	"github.com/thestormforge/optimize-bridge/internal/sampler"
	"github.com/thestormforge/optimize-bridge/internal/solver"
	"github.com/thestormforge/optimize-bridge/internal/version"
)

// Options are the options for running the built-in solver
type Options struct {
	// Config is the bridge configuration
	Config *config.BridgeConfig
	// IOStreams are used to access the standard process streams, the protocol runs over in and out
	commander.IOStreams
	// Log is the diagnostic logger
	Log logr.Logger

	// MaxTrials stops the study after a number of trials, zero runs until the harness closes the channel
	MaxTrials int
	// Capabilities overrides the capabilities declared in the solver specification
	Capabilities v1alpha1.Capabilities

	capabilities commander.CapabilitiesValue
}

// NewCommand creates a new command for running the built-in solver
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Run the built-in solver over stdin and stdout",
		Long: "Run the built-in random sampler behind the ask/tell solver protocol.\n\n" +
			"Protocol messages are exchanged over the standard input and output streams, diagnostic logs are written to standard error.",

		PreRunE: func(cmd *cobra.Command, args []string) error {
			commander.SetStreams(&o.IOStreams, cmd)
			return commander.SetLogger(&o.Log, o.Config, cmd)
		},
		RunE: commander.WithContextE(o.solve),
	}

	o.capabilities.Capabilities = &o.Capabilities

	cmd.Flags().StringVar(&o.Config.Overrides.Sampler, "sampler", "", "`name` of the parameter sampler")
	cmd.Flags().StringVar(&o.Config.Overrides.Pruner, "pruner", "", "`name` of the pruning policy")
	cmd.Flags().Int64Var(&o.Config.Overrides.Seed, "seed", 0, "sampler `seed`, zero picks one from the clock")
	cmd.Flags().IntVar(&o.MaxTrials, "max-trials", o.MaxTrials, "stop after this `number` of trials")
	cmd.Flags().Var(&o.capabilities, "capabilities", "override the declared solver `capabilities`")
	commander.MetricsFlags(o.Config, cmd)

	commander.SetFlagValues(cmd, "sampler", "random", "continuous")
	commander.SetFlagValues(cmd, "pruner", "nop", "median", "asha")

	return cmd
}

func (o *Options) solve(ctx context.Context) error {
	cfg := o.Config.Solver()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s, err := sampler.New(cfg.Sampler, seed)
	if err != nil {
		return err
	}

	p, err := sampler.NewPruner(cfg.Pruner, sampler.PrunerOptions{
		MedianStartupTrials:  cfg.Median.StartupTrials,
		MedianWarmupSteps:    cfg.Median.WarmupSteps,
		ASHAMinResource:      cfg.ASHA.MinResource,
		ASHAReductionFactor:  cfg.ASHA.ReductionFactor,
		ASHAMinEarlyStopping: cfg.ASHA.MinEarlyStoppingRate,
	})
	if err != nil {
		return err
	}

	spec := v1alpha1.SolverSpec{
		Name:         cfg.Name,
		Version:      version.GetInfo().String(),
		Capabilities: s.Capabilities(),
	}
	if o.capabilities.Changed() {
		spec.Capabilities = o.Capabilities
	}

	o.Log.Info("Starting solver", "sampler", s.Name(), "pruner", cfg.Pruner, "seed", seed, "capabilities", spec.Capabilities.String())

	conn := channel.New(o.In, o.Out, o.Log.WithName("channel"))
	return commander.RunWithMetrics(ctx, o.Config.Metrics(), o.Log, func(ctx context.Context) error {
		a := solver.NewAdapter(conn, spec, sampler.IsStepwise(p), o.Log.WithName("adapter"))
		if err := a.Start(ctx); err == io.EOF {
			o.Log.Info("Channel closed before a problem was received")
			return nil
		} else if err != nil {
			return err
		}

		study := sampler.NewStudy(s, p, sampler.Direction(cfg.Direction), o.Log.WithName("study"))
		study.MaxTrials = o.MaxTrials
		return study.Optimize(ctx, a)
	})
}
