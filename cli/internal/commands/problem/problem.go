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

package problem

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/thestormforge/optimize-bridge/cli/internal/commander"
	"github.com/thestormforge/optimize-bridge/internal/channel"
	"github.com/thestormforge/optimize-bridge/internal/config"
	"github.com/thestormforge/optimize-bridge/internal/evaluator"
	"github.com/thestormforge/optimize-bridge/internal/problem"
)

// Options are the options for serving a built-in problem
type Options struct {
	// Config is the bridge configuration
	Config *config.BridgeConfig
	// IOStreams are used to access the standard process streams, the protocol runs over in and out
	commander.IOStreams
	// Log is the diagnostic logger
	Log logr.Logger
}

// NewCommand creates a new command for serving a built-in problem
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "problem",
		Short: "Serve a built-in problem over stdin and stdout",
		Long: "Serve a built-in problem behind the evaluator protocol.\n\n" +
			"Evaluators are created, evaluated and dropped by the harness; the state of a partially evaluated trial is kept between evaluations.",

		PreRunE: func(cmd *cobra.Command, args []string) error {
			commander.SetStreams(&o.IOStreams, cmd)
			return commander.SetLogger(&o.Log, o.Config, cmd)
		},
		RunE: commander.WithContextE(o.serve),
	}

	cmd.Flags().StringVar(&o.Config.Overrides.Problem, "problem", "", "`name` of the built-in problem")
	cmd.Flags().IntVar(&o.Config.Overrides.Dimension, "dimension", 0, "`number` of parameters of the synthetic functions")
	cmd.Flags().Int64Var(&o.Config.Overrides.EvaluationExpense, "evaluation-expense", 0, "`steps` of a full evaluation of the curve problem")
	cmd.Flags().Int64Var(&o.Config.Overrides.MinIterations, "min-iterations", 0, "minimum `steps` executed by a single evaluation")
	commander.MetricsFlags(o.Config, cmd)

	commander.SetFlagValues(cmd, "problem", evaluator.Names()...)

	return cmd
}

func (o *Options) serve(ctx context.Context) error {
	cfg := o.Config.Problem()

	p, err := evaluator.New(cfg.Name, evaluator.Options{
		Dimension:         cfg.Dimension,
		EvaluationExpense: cfg.EvaluationExpense,
		Seed:              cfg.Seed,
	})
	if err != nil {
		return err
	}

	table := problem.NewSessionTable(p, cfg.MinIterations, o.Log.WithName("sessions"))
	runner := problem.NewRunner(channel.New(o.In, o.Out, o.Log.WithName("channel")), table, o.Log)
	return commander.RunWithMetrics(ctx, o.Config.Metrics(), o.Log, runner.Run)
}
