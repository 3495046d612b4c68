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

package bench

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/thestormforge/optimize-bridge/cli/internal/commander"
	"github.com/thestormforge/optimize-bridge/internal/config"
	"github.com/thestormforge/optimize-bridge/internal/evaluator"
	"github.com/thestormforge/optimize-bridge/internal/harness"
)

// Options are the options for running a local benchmark
type Options struct {
	// Config is the bridge configuration
	Config *config.BridgeConfig
	// Printer is the resource printer used to render the report
	Printer commander.ResourcePrinter
	// IOStreams are used to access the standard process streams
	commander.IOStreams
	// Log is the diagnostic logger
	Log logr.Logger

	// MaxTrials is the number of trials to run
	MaxTrials int
	// SolverCommand is an external solver command, the built-in solver is used when empty
	SolverCommand string
	// ProblemCommand is an external problem command, the built-in problem is used when empty
	ProblemCommand string
}

// NewCommand creates a new command for running a local benchmark
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a solver against a problem",
		Long: "Run a solver against a problem using a local harness.\n\n" +
			"The built-in solver and problem run in-process unless external commands are supplied; " +
			"external commands exchange protocol messages over their standard input and output streams.",

		PreRunE: func(cmd *cobra.Command, args []string) error {
			commander.SetStreams(&o.IOStreams, cmd)
			return commander.SetLogger(&o.Log, o.Config, cmd)
		},
		RunE: commander.WithContextE(o.bench),
	}

	cmd.Flags().IntVar(&o.MaxTrials, "trials", o.MaxTrials, "`number` of trials to run")
	cmd.Flags().StringVar(&o.SolverCommand, "solver-command", "", "external solver `command` line")
	cmd.Flags().StringVar(&o.ProblemCommand, "problem-command", "", "external problem `command` line")
	cmd.Flags().StringVar(&o.Config.Overrides.Sampler, "sampler", "", "`name` of the built-in parameter sampler")
	cmd.Flags().StringVar(&o.Config.Overrides.Pruner, "pruner", "", "`name` of the built-in pruning policy")
	cmd.Flags().Int64Var(&o.Config.Overrides.Seed, "seed", 0, "built-in sampler `seed`, zero picks one from the clock")
	cmd.Flags().StringVar(&o.Config.Overrides.Problem, "problem", "", "`name` of the built-in problem")
	cmd.Flags().IntVar(&o.Config.Overrides.Dimension, "dimension", 0, "`number` of parameters of the synthetic functions")
	cmd.Flags().Int64Var(&o.Config.Overrides.EvaluationExpense, "evaluation-expense", 0, "`steps` of a full evaluation of the curve problem")
	cmd.Flags().Int64Var(&o.Config.Overrides.MinIterations, "min-iterations", 0, "minimum `steps` executed by a single evaluation")
	commander.MetricsFlags(o.Config, cmd)

	commander.SetFlagValues(cmd, "sampler", "random", "continuous")
	commander.SetFlagValues(cmd, "pruner", "nop", "median", "asha")
	commander.SetFlagValues(cmd, "problem", evaluator.Names()...)
	commander.SetPrinter(&reportTableMeta{}, &o.Printer, cmd)

	return cmd
}

func (o *Options) bench(ctx context.Context) error {
	if o.MaxTrials < 1 {
		return fmt.Errorf("invalid number of trials: %d", o.MaxTrials)
	}

	solve, err := o.solverSession()
	if err != nil {
		return err
	}

	serve, err := o.problemSession()
	if err != nil {
		return err
	}

	h := &harness.Harness{Log: o.Log.WithName("harness"), MaxTrials: o.MaxTrials}

	var report *harness.Report
	err = commander.RunWithMetrics(ctx, o.Config.Metrics(), o.Log, func(ctx context.Context) error {
		var err error
		report, err = harness.RunLocal(ctx, h, solve, serve)
		return err
	})
	if err != nil {
		return err
	}

	if err := o.Printer.PrintObj(report, o.Out); err != nil {
		return err
	}

	o.summarize(report)
	return nil
}

// summarize writes a short description of the benchmark results to the error stream
func (o *Options) summarize(r *harness.Report) {
	p := termenv.ColorProfile()
	good := termenv.Style{}.Foreground(p.Color("2")).Bold()
	warn := termenv.Style{}.Foreground(p.Color("3"))

	var counts []string
	for _, state := range []harness.TrialState{harness.StateCompleted, harness.StatePruned, harness.StateAbandoned} {
		if n := r.Count(state); n > 0 {
			counts = append(counts, fmt.Sprintf("%d %s", n, state))
		}
	}

	summary := fmt.Sprintf("%s on %s: %s, %d steps", r.Solver, r.Problem, strings.Join(counts, ", "), r.TotalSteps())
	if best := r.Best(); best != nil {
		_, _ = fmt.Fprintf(o.ErrOut, "%s\nBest trial %d: %s (%s)\n", summary, best.ID, good.Styled(fmt.Sprintf("%g", best.Value)), best.Params)
		return
	}
	_, _ = fmt.Fprintf(o.ErrOut, "%s\n%s\n", summary, warn.Styled("No trial completed"))
}

func seedOrNow(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}
