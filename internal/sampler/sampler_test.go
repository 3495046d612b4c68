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

package sampler

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"testing"

	"github.com/go-logr/zapr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/internal/parameter"
	"github.com/thestormforge/optimize-bridge/internal/solver"
	"go.uber.org/zap"
)

func TestRandomSampler(t *testing.T) {
	s := NewRandomSampler(42)
	for i := 0; i < 1000; i++ {
		x, err := s.SuggestFloat("x", 0.001, 10, true)
		require.NoError(t, err)
		assert.True(t, x >= 0.001 && x <= 10, "log-uniform value %g out of range", x)

		y, err := s.SuggestFloat("y", -1, 1, false)
		require.NoError(t, err)
		assert.True(t, y >= -1 && y <= 1, "uniform value %g out of range", y)

		n, err := s.SuggestInt("n", 3, 5)
		require.NoError(t, err)
		assert.True(t, n >= 3 && n <= 5, "discrete value %d out of range", n)

		c, err := s.SuggestCategorical("c", []string{"a", "b"})
		require.NoError(t, err)
		assert.True(t, c == 0 || c == 1)
	}
}

func TestRandomSampler_WideRanges(t *testing.T) {
	cases := []struct {
		desc   string
		domain v1alpha1.ParamDomain
	}{
		{
			desc:   "full width discrete",
			domain: v1alpha1.Discrete("n", math.MinInt64, math.MaxInt64),
		},
		{
			desc:   "non-negative discrete",
			domain: v1alpha1.Discrete("n", 0, math.MaxInt64),
		},
		{
			desc:   "discrete wider than int63",
			domain: v1alpha1.Discrete("n", -1, math.MaxInt64),
		},
		{
			desc:   "single valued discrete at the limit",
			domain: v1alpha1.Discrete("n", math.MaxInt64, math.MaxInt64),
		},
		{
			desc:   "uniform span overflows",
			domain: v1alpha1.Uniform("x", -math.MaxFloat64, math.MaxFloat64),
		},
		{
			desc:   "log uniform to the limit",
			domain: v1alpha1.LogUniform("x", math.SmallestNonzeroFloat64, math.MaxFloat64),
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			require.NoError(t, c.domain.Validate())
			s := NewRandomSampler(1)
			for i := 0; i < 100; i++ {
				values, _, err := parameter.Sample([]v1alpha1.ParamDomain{c.domain}, s)
				require.NoError(t, err)
				require.Len(t, values, 1)

				v := values[0]
				switch v.Kind() {
				case v1alpha1.ParamKindDiscrete:
					r := c.domain.Discrete.Range
					assert.True(t, v.Discrete() >= r.Low && v.Discrete() <= r.High, "discrete value %d out of range", v.Discrete())
				case v1alpha1.ParamKindContinuous:
					r := c.domain.Continuous.Range
					assert.True(t, v.Continuous() >= r.Low && v.Continuous() <= r.High, "continuous value %g out of range", v.Continuous())
				}
				_, err = v.MarshalJSON()
				assert.NoError(t, err)
			}
		})
	}
}

func TestContinuousSampler(t *testing.T) {
	s := NewContinuousSampler(1)
	_, err := s.SuggestInt("n", 0, 1)
	assert.True(t, v1alpha1.IsUnsupportedParameter(err))
	_, err = s.SuggestFloat("x", 1, 2, true)
	assert.True(t, v1alpha1.IsUnsupportedParameter(err))
	_, err = s.SuggestFloat("x", 1, 2, false)
	assert.NoError(t, err)
	assert.NotEmpty(t, NewRandomSampler(1).Capabilities().Incapables(v1alpha1.AllCapabilities()))

	spec, err := json.Marshal(v1alpha1.SolverSpec{Name: s.Name(), Capabilities: s.Capabilities()})
	require.NoError(t, err)
	assert.Contains(t, string(spec), `"capabilities":[]`)
}

func completed(number int, intermediate map[int64]float64) *TrialRecord {
	return &TrialRecord{Number: number, State: TrialCompleted, Intermediate: intermediate}
}

func TestMedianPruner(t *testing.T) {
	h := &History{Direction: Minimize, Trials: []*TrialRecord{
		completed(0, map[int64]float64{1: 1.0, 2: 0.5}),
		completed(1, map[int64]float64{1: 2.0, 2: 1.5}),
		completed(2, map[int64]float64{1: 3.0, 2: 2.5}),
	}}

	cases := []struct {
		desc   string
		pruner MedianPruner
		value  float64
		step   int64
		pruned bool
	}{
		{
			desc:   "worse than median",
			value:  2.5,
			step:   1,
			pruned: true,
		},
		{
			desc:  "better than median",
			value: 1.5,
			step:  1,
		},
		{
			desc:   "not enough completed trials",
			pruner: MedianPruner{StartupTrials: 5},
			value:  100,
			step:   1,
		},
		{
			desc:   "warming up",
			pruner: MedianPruner{WarmupSteps: 2},
			value:  100,
			step:   1,
		},
		{
			desc:   "warmup over",
			pruner: MedianPruner{WarmupSteps: 2},
			value:  100,
			step:   2,
			pruned: true,
		},
		{
			desc:  "no values at step",
			value: 100,
			step:  3,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			r := &TrialRecord{Number: 3, State: TrialRunning, Intermediate: map[int64]float64{c.step: c.value}}
			assert.Equal(t, c.pruned, c.pruner.Prune(h, r, c.step))
		})
	}
}

func TestSuccessiveHalvingPruner(t *testing.T) {
	p := &SuccessiveHalvingPruner{MinResource: 1, ReductionFactor: 2}
	h := &History{Direction: Minimize}

	first := &TrialRecord{Number: 0, Intermediate: map[int64]float64{1: 0.5}}
	h.Trials = append(h.Trials, first)
	assert.False(t, p.Prune(h, first, 1), "the only trial at a rung is promoted")

	second := &TrialRecord{Number: 1, Intermediate: map[int64]float64{1: 0.9}}
	h.Trials = append(h.Trials, second)
	assert.True(t, p.Prune(h, second, 1), "worse half is stopped")

	third := &TrialRecord{Number: 2, Intermediate: map[int64]float64{1: 0.1}}
	h.Trials = append(h.Trials, third)
	assert.False(t, p.Prune(h, third, 1))

	third.Intermediate[2] = 0.05
	assert.False(t, p.Prune(h, third, 2), "first trial at rung 1")
	assert.Equal(t, map[int]float64{0: 0.1, 1: 0.05}, third.Rungs)

	third.Intermediate[3] = 0.04
	assert.False(t, p.Prune(h, third, 3), "between rungs")
}

func TestNewPruner(t *testing.T) {
	p, err := NewPruner("none", PrunerOptions{})
	require.NoError(t, err)
	assert.False(t, IsStepwise(p))

	p, err = NewPruner("median", PrunerOptions{MedianStartupTrials: 5})
	require.NoError(t, err)
	assert.True(t, IsStepwise(p))

	_, err = NewPruner("asha", PrunerOptions{ASHAMinResource: 1, ASHAReductionFactor: 1})
	assert.Error(t, err)

	_, err = NewPruner("hyperband", PrunerOptions{})
	assert.Error(t, err)
}

// stepEvaluator reports the sampled value at each step and stops at the expense unless pruned.
type stepEvaluator struct {
	expense int64
	trials  int
}

func (e *stepEvaluator) Done() bool { return e.trials >= 4 }

func (e *stepEvaluator) Evaluate(_ context.Context, t solver.Trial) (solver.Outcome, error) {
	e.trials++
	x, err := t.SuggestFloat("x", 0, 1, false)
	if err != nil {
		return solver.Outcome{}, err
	}
	for step := int64(1); step < e.expense; step++ {
		t.Report(x, step)
		if t.ShouldPrune(x, step) {
			return solver.Pruned(step), nil
		}
	}
	return solver.Completed(x, e.expense), nil
}

func TestStudy_Optimize(t *testing.T) {
	s := NewStudy(NewRandomSampler(7), NopPruner{}, "", zapr.NewLogger(zap.NewNop()))
	require.NoError(t, s.Optimize(context.Background(), &stepEvaluator{expense: 3}))

	require.Len(t, s.History.Trials, 4)
	assert.Equal(t, 4, s.History.Completed())
	best := s.History.Best()
	require.NotNil(t, best)
	for _, r := range s.History.Trials {
		assert.True(t, best.Value <= r.Value)
	}
}

func TestStudy_MaxTrials(t *testing.T) {
	s := NewStudy(NewRandomSampler(7), &MedianPruner{}, Minimize, zapr.NewLogger(zap.NewNop()))
	s.MaxTrials = 2
	require.NoError(t, s.Optimize(context.Background(), &stepEvaluator{expense: 3}))
	assert.Len(t, s.History.Trials, 2)
}

type closedEvaluator struct{}

func (closedEvaluator) Done() bool { return false }

func (closedEvaluator) Evaluate(context.Context, solver.Trial) (solver.Outcome, error) {
	return solver.Outcome{}, io.EOF
}

func TestStudy_Closed(t *testing.T) {
	s := NewStudy(NewRandomSampler(7), NopPruner{}, Minimize, zapr.NewLogger(zap.NewNop()))
	require.NoError(t, s.Optimize(context.Background(), closedEvaluator{}))
	assert.Empty(t, s.History.Trials)
}
