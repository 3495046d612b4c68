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
	"io"

	"github.com/go-logr/logr"
	"github.com/thestormforge/optimize-bridge/internal/parameter"
	"github.com/thestormforge/optimize-bridge/internal/solver"
)

// Evaluator runs single shot trial evaluations, usually a solver adapter.
type Evaluator interface {
	Evaluate(ctx context.Context, trial solver.Trial) (solver.Outcome, error)
	Done() bool
}

// Study drives trials through an evaluator until the evaluator is done or the trial limit is reached.
type Study struct {
	Log       logr.Logger
	Sampler   Sampler
	Pruner    Pruner
	History   History
	MaxTrials int
}

// NewStudy returns a new study.
func NewStudy(s Sampler, p Pruner, d Direction, log logr.Logger) *Study {
	if d == "" {
		d = Minimize
	}
	return &Study{Log: log, Sampler: s, Pruner: p, History: History{Direction: d}}
}

// Optimize evaluates trials until the evaluator is done, the channel closes or the context is cancelled.
func (s *Study) Optimize(ctx context.Context, e Evaluator) error {
	for number := 0; s.MaxTrials <= 0 || number < s.MaxTrials; number++ {
		if e.Done() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		t := &trial{
			Suggester: s.Sampler.NewTrial(number),
			history:   &s.History,
			pruner:    s.Pruner,
			record:    &TrialRecord{Number: number, State: TrialRunning, Intermediate: make(map[int64]float64)},
		}
		s.History.Trials = append(s.History.Trials, t.record)

		outcome, err := e.Evaluate(ctx, t)
		if err == io.EOF {
			s.History.Trials = s.History.Trials[:len(s.History.Trials)-1]
			break
		} else if err != nil {
			return err
		}

		if outcome.Pruned {
			t.record.State = TrialPruned
		} else {
			t.record.State = TrialCompleted
			t.record.Value = outcome.Value
			t.record.Intermediate[outcome.Step] = outcome.Value
		}
		s.Log.V(1).Info("Trial finished", "number", number, "outcome", outcome.Label(), "value", outcome.Value)
	}

	if best := s.History.Best(); best != nil {
		s.Log.Info("Study finished", "trials", len(s.History.Trials), "best", best.Value, "bestTrial", best.Number)
	} else {
		s.Log.Info("Study finished", "trials", len(s.History.Trials))
	}
	return nil
}

// trial connects a sampler suggestion source and a pruner to one record of the history.
type trial struct {
	parameter.Suggester
	history *History
	pruner  Pruner
	record  *TrialRecord
}

func (t *trial) Report(value float64, step int64) {
	t.record.Intermediate[step] = value
}

func (t *trial) ShouldPrune(value float64, step int64) bool {
	if _, ok := t.record.Intermediate[step]; !ok {
		t.record.Intermediate[step] = value
	}
	return t.pruner.Prune(t.history, t.record, step)
}
