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

package harness

import (
	"context"
	"io"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/internal/channel"
	"github.com/thestormforge/optimize-bridge/internal/evaluator"
	"github.com/thestormforge/optimize-bridge/internal/problem"
	"github.com/thestormforge/optimize-bridge/internal/sampler"
	"github.com/thestormforge/optimize-bridge/internal/solver"
	"go.uber.org/zap"
)

func solve(s sampler.Sampler, p sampler.Pruner, log logr.Logger) Session {
	return func(ctx context.Context, conn channel.Conn) error {
		spec := v1alpha1.SolverSpec{Name: s.Name(), Capabilities: s.Capabilities()}
		a := solver.NewAdapter(conn, spec, sampler.IsStepwise(p), log)
		if err := a.Start(ctx); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		return sampler.NewStudy(s, p, sampler.Minimize, log).Optimize(ctx, a)
	}
}

func serve(p problem.Problem, minIterations int64, log logr.Logger) Session {
	return func(ctx context.Context, conn channel.Conn) error {
		return problem.NewRunner(conn, problem.NewSessionTable(p, minIterations, log), log).Run(ctx)
	}
}

func TestRunLocal(t *testing.T) {
	log := zapr.NewLogger(zap.NewNop())
	cases := []struct {
		desc          string
		problem       string
		sampler       string
		pruner        sampler.Pruner
		minIterations int64
		trials        int
		expense       int64
	}{
		{
			desc:    "single step problem",
			problem: "sphere",
			pruner:  sampler.NopPruner{},
			trials:  5,
			expense: 1,
		},
		{
			desc:    "multi step problem without pruning",
			problem: "curve",
			pruner:  sampler.NopPruner{},
			trials:  3,
			expense: 10,
		},
		{
			desc:    "median pruning",
			problem: "curve",
			pruner:  &sampler.MedianPruner{StartupTrials: 2},
			trials:  8,
			expense: 10,
		},
		{
			desc:          "successive halving with minimum iterations",
			problem:       "curve",
			pruner:        &sampler.SuccessiveHalvingPruner{MinResource: 1, ReductionFactor: 2},
			minIterations: 3,
			trials:        8,
			expense:       10,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			p, err := evaluator.New(c.problem, evaluator.Options{Dimension: 2, EvaluationExpense: c.expense, Seed: 3})
			require.NoError(t, err)
			s, err := sampler.New(c.sampler, 11)
			require.NoError(t, err)

			h := &Harness{Log: log, MaxTrials: c.trials}
			report, err := RunLocal(context.Background(), h, solve(s, c.pruner, log), serve(p, c.minIterations, log))
			require.NoError(t, err)

			require.Len(t, report.Trials, c.trials)
			for i, tr := range report.Trials {
				assert.Equal(t, int64(i), tr.ID)
				switch tr.State {
				case StateCompleted:
					assert.Equal(t, c.expense, tr.Steps)
				case StatePruned:
					assert.Less(t, tr.Steps, c.expense)
					assert.GreaterOrEqual(t, tr.Steps, c.minIterations)
				default:
					assert.Fail(t, "unexpected trial state", "trial %d is %s", tr.ID, tr.State)
				}
			}
			assert.NotNil(t, report.Best())
			if _, nop := c.pruner.(sampler.NopPruner); nop {
				assert.Equal(t, c.trials, report.Count(StateCompleted))
				assert.Equal(t, int64(c.trials)*c.expense, report.TotalSteps())
			}
		})
	}
}

func TestRunLocal_Incapable(t *testing.T) {
	log := zapr.NewLogger(zap.NewNop())
	p, err := evaluator.New("curve", evaluator.Options{EvaluationExpense: 5})
	require.NoError(t, err)

	h := &Harness{Log: log, MaxTrials: 1}
	_, err = RunLocal(context.Background(), h, solve(sampler.NewContinuousSampler(1), sampler.NopPruner{}, log), serve(p, 0, log))
	assert.True(t, v1alpha1.IsUnsupportedParameter(err), "expected incapable error, got %v", err)
}
