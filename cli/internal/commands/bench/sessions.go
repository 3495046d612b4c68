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
	"io"
	"os/exec"
	"strings"

	"github.com/go-logr/logr"
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/internal/channel"
	"github.com/thestormforge/optimize-bridge/internal/evaluator"
	"github.com/thestormforge/optimize-bridge/internal/harness"
	"github.com/thestormforge/optimize-bridge/internal/problem"
	"github.com/thestormforge/optimize-bridge/internal/sampler"
	"github.com/thestormforge/optimize-bridge/internal/solver"
	"github.com/thestormforge/optimize-bridge/internal/version"
)

// solverSession returns the solver side of the benchmark
func (o *Options) solverSession() (harness.Session, error) {
	if o.SolverCommand != "" {
		return o.external(o.SolverCommand, o.Log.WithName("solver")), nil
	}

	cfg := o.Config.Solver()
	s, err := sampler.New(cfg.Sampler, seedOrNow(cfg.Seed))
	if err != nil {
		return nil, err
	}

	p, err := sampler.NewPruner(cfg.Pruner, sampler.PrunerOptions{
		MedianStartupTrials:  cfg.Median.StartupTrials,
		MedianWarmupSteps:    cfg.Median.WarmupSteps,
		ASHAMinResource:      cfg.ASHA.MinResource,
		ASHAReductionFactor:  cfg.ASHA.ReductionFactor,
		ASHAMinEarlyStopping: cfg.ASHA.MinEarlyStoppingRate,
	})
	if err != nil {
		return nil, err
	}

	spec := v1alpha1.SolverSpec{Name: cfg.Name, Version: version.GetInfo().String(), Capabilities: s.Capabilities()}
	log := o.Log.WithName("solver")
	return func(ctx context.Context, conn channel.Conn) error {
		a := solver.NewAdapter(conn, spec, sampler.IsStepwise(p), log)
		if err := a.Start(ctx); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		return sampler.NewStudy(s, p, sampler.Direction(cfg.Direction), log).Optimize(ctx, a)
	}, nil
}

// problemSession returns the problem side of the benchmark
func (o *Options) problemSession() (harness.Session, error) {
	if o.ProblemCommand != "" {
		return o.external(o.ProblemCommand, o.Log.WithName("problem")), nil
	}

	cfg := o.Config.Problem()
	p, err := evaluator.New(cfg.Name, evaluator.Options{
		Dimension:         cfg.Dimension,
		EvaluationExpense: cfg.EvaluationExpense,
		Seed:              cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	log := o.Log.WithName("problem")
	return func(ctx context.Context, conn channel.Conn) error {
		return problem.NewRunner(conn, problem.NewSessionTable(p, cfg.MinIterations, log), log).Run(ctx)
	}, nil
}

// external returns a session that forwards messages to and from a child process
func (o *Options) external(commandLine string, log logr.Logger) harness.Session {
	return func(ctx context.Context, conn channel.Conn) error {
		args := strings.Fields(commandLine)
		if len(args) == 0 {
			return fmt.Errorf("empty command")
		}

		cmd := exec.CommandContext(ctx, args[0], args[1:]...)
		cmd.Stderr = o.ErrOut
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return err
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return err
		}

		log.Info("Starting command", "command", commandLine)
		if err := cmd.Start(); err != nil {
			return err
		}

		proc := channel.New(stdout, stdin, log.WithName("process"))
		go func() {
			// Closing the input asks the process to exit once the harness is done with it
			defer func() { _ = stdin.Close() }()
			if err := forward(conn, proc); err != nil {
				log.Error(err, "Failed to forward message to command")
			}
		}()

		err = forward(proc, conn)
		if werr := cmd.Wait(); err == nil {
			err = werr
		}
		if err == nil {
			// The harness never waits for a process to exit on its own
			err = fmt.Errorf("command exited: %s", commandLine)
		}
		return err
	}
}

// forward copies messages until the source is closed
func forward(from, to channel.Conn) error {
	for {
		m, err := from.Receive()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		if err := to.Send(m); err != nil {
			return err
		}
	}
}
