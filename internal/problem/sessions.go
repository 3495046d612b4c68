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
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/internal/metrics"
	"github.com/thestormforge/optimize-bridge/internal/parameter"
)

type session struct {
	evaluator Evaluator
	progress  int64
}

// SessionTable holds the evaluator state of every trial the harness has created and not yet dropped.
type SessionTable struct {
	// Log is the session table logger.
	Log logr.Logger
	// MinIterations is the minimum number of steps executed by a single evaluation.
	MinIterations int64

	problem  Problem
	spec     v1alpha1.ProblemSpec
	sessions map[int64]*session
}

// NewSessionTable returns an empty session table for the problem.
func NewSessionTable(p Problem, minIterations int64, log logr.Logger) *SessionTable {
	return &SessionTable{
		Log:           log,
		MinIterations: minIterations,
		problem:       p,
		spec:          p.Spec(),
		sessions:      make(map[int64]*session),
	}
}

// Spec returns the specification of the problem backing this table.
func (t *SessionTable) Spec() v1alpha1.ProblemSpec {
	return t.spec
}

// Len returns the number of live sessions.
func (t *SessionTable) Len() int {
	return len(t.sessions)
}

// Create stores a placeholder for the trial, the evaluator is constructed on the first evaluation.
func (t *SessionTable) Create(id int64) error {
	if _, ok := t.sessions[id]; ok {
		return v1alpha1.NewError(v1alpha1.ErrDuplicateSession, "evaluator %d already exists", id)
	}
	t.sessions[id] = &session{}
	metrics.Sessions.Inc()
	t.Log.V(1).Info("Created evaluator", "id", id)
	return nil
}

// Drop releases the trial's session.
func (t *SessionTable) Drop(id int64) error {
	s, ok := t.sessions[id]
	if !ok {
		return v1alpha1.NewError(v1alpha1.ErrUnknownSession, "evaluator %d does not exist", id)
	}
	delete(t.sessions, id)
	metrics.Sessions.Dec()
	t.Log.V(1).Info("Dropped evaluator", "id", id, "consumption", s.progress)

	if c, ok := s.evaluator.(Closer); ok {
		return c.Close()
	}
	return nil
}

// Evaluate runs the trial's evaluator for the remaining granted steps (at least the minimum
// iterations, at most the remaining evaluation expense) and returns the latest values along
// with the updated budget.
func (t *SessionTable) Evaluate(ctx context.Context, id int64, params []v1alpha1.ParamValue, b v1alpha1.Budget) ([]float64, v1alpha1.Budget, error) {
	s, ok := t.sessions[id]
	if !ok {
		return nil, b, v1alpha1.NewError(v1alpha1.ErrUnknownSession, "evaluator %d does not exist", id)
	}
	if err := b.Validate(); err != nil {
		return nil, b, err
	}
	if b.Consumption > t.spec.EvaluationExpense {
		return nil, b, v1alpha1.NewError(v1alpha1.ErrBudgetViolation, "consumption %d exceeds evaluation expense %d", b.Consumption, t.spec.EvaluationExpense)
	}
	if b.Consumption != s.progress {
		return nil, b, v1alpha1.NewError(v1alpha1.ErrStepMismatch, "evaluator %d is at step %d, budget consumption is %d", id, s.progress, b.Consumption)
	}

	if s.evaluator == nil {
		p, err := parameter.Decode(t.spec.ParamsDomain, params)
		if err != nil {
			return nil, b, err
		}
		ev, err := t.problem.NewEvaluator(id, p)
		if err != nil {
			return nil, b, err
		}
		s.evaluator = ev
		t.Log.V(1).Info("Constructed evaluator", "id", id, "params", p.String())
	}

	work := b.Remaining()
	if work < t.MinIterations {
		work = t.MinIterations
	}
	if remaining := t.spec.EvaluationExpense - b.Consumption; work > remaining {
		work = remaining
	}

	before := s.progress
	values, progress, err := s.evaluator.Evaluate(ctx, work)
	if err != nil {
		return nil, b, err
	}
	if progress != before+work {
		return nil, b, v1alpha1.NewError(v1alpha1.ErrStepMismatch, "evaluator %d executed %d steps, expected %d", id, progress-before, work)
	}
	s.progress = progress
	metrics.StepsEvaluated.Add(float64(work))

	b.Consumption = progress
	if b.Amount < b.Consumption {
		b.Amount = b.Consumption
	}

	t.Log.Info("Evaluated", "id", id, "steps", work, "consumption", b.Consumption, "values", values)
	return values, b, nil
}
