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

	"github.com/go-logr/logr"
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/internal/channel"
	"github.com/thestormforge/optimize-bridge/internal/parameter"
)

// Harness relays trials between a solver and a problem, creating and dropping evaluators as
// trials start and finish.
type Harness struct {
	// Log is the harness logger.
	Log logr.Logger
	// Solver is the connection to the solver.
	Solver channel.Conn
	// Problem is the connection to the problem.
	Problem channel.Conn
	// MaxTrials is the number of trials to finish before stopping.
	MaxTrials int

	spec    v1alpha1.ProblemSpec
	nextID  int64
	current *TrialReport
	report  Report
}

// Run exchanges the specifications and relays trials until enough trials have finished. The caller
// is responsible for closing both channels afterwards, which ends the solver and problem sessions.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	if err := h.exchangeSpecs(); err != nil {
		return nil, err
	}

	for h.finished() < h.MaxTrials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := h.relay(ctx); err != nil {
			return nil, err
		}
	}

	// Trials that are still running are abandoned
	if h.current != nil {
		h.current.State = StateAbandoned
		if err := h.finish(); err != nil {
			return nil, err
		}
	}

	return &h.report, nil
}

func (h *Harness) exchangeSpecs() error {
	m, err := h.Solver.Receive()
	if err != nil {
		return err
	}
	solverSpec, ok := m.(*v1alpha1.SolverSpecCast)
	if !ok {
		return unexpected(m, v1alpha1.SolverSpecCastType)
	}

	m, err = h.Problem.Receive()
	if err != nil {
		return err
	}
	problemSpec, ok := m.(*v1alpha1.ProblemSpecCast)
	if !ok {
		return unexpected(m, v1alpha1.ProblemSpecCastType)
	}

	h.spec = problemSpec.ProblemSpec
	h.report.Solver = solverSpec.Name
	h.report.Problem = h.spec.Name
	h.Log.Info("Starting benchmark", "solver", solverSpec.Name, "problem", h.spec.Name, "trials", h.MaxTrials)

	if err := h.Solver.Send(problemSpec); err != nil {
		return err
	}
	return h.Solver.Send(&v1alpha1.AskCall{IDHint: h.nextID})
}

// relay handles a single ASK/EVALUATE/TELL round trip.
func (h *Harness) relay(ctx context.Context) error {
	m, err := h.Solver.Receive()
	if err != nil {
		return err
	}
	ask, ok := m.(*v1alpha1.AskReply)
	if !ok {
		return unexpected(m, v1alpha1.AskReplyType)
	}

	if h.current == nil || h.current.ID != ask.ID {
		if h.current != nil {
			h.current.State = StatePruned
			if err := h.finish(); err != nil {
				return err
			}
			if h.finished() >= h.MaxTrials {
				return nil
			}
		}
		if ask.ID != h.nextID {
			return v1alpha1.NewError(v1alpha1.ErrUnexpectedMessage, "solver asked for trial %d, expected %d", ask.ID, h.nextID)
		}
		if err := h.start(ask); err != nil {
			return err
		}
	}

	if err := h.Problem.Send(&v1alpha1.EvaluateCall{ID: ask.ID, Params: ask.Params, Budget: ask.Budget}); err != nil {
		return err
	}
	m, err = h.Problem.Receive()
	if err != nil {
		return err
	}
	reply, ok := m.(*v1alpha1.EvaluateOkReply)
	if !ok {
		return unexpected(m, v1alpha1.EvaluateOkReplyType)
	}
	if len(reply.Values) > 0 {
		h.current.Value = reply.Values[0]
	}
	h.current.Steps = reply.Budget.Consumption
	h.current.Evaluations++

	if err := h.Solver.Send(&v1alpha1.TellCall{ID: ask.ID, Values: reply.Values, Budget: reply.Budget}); err != nil {
		return err
	}
	if m, err = h.Solver.Receive(); err != nil {
		return err
	}
	if _, ok := m.(*v1alpha1.TellReply); !ok {
		return unexpected(m, v1alpha1.TellReplyType)
	}

	if reply.Budget.Consumption >= h.spec.EvaluationExpense {
		h.current.State = StateCompleted
		if err := h.finish(); err != nil {
			return err
		}
	}

	if h.finished() >= h.MaxTrials {
		return nil
	}
	return h.Solver.Send(&v1alpha1.AskCall{IDHint: h.nextID})
}

func (h *Harness) start(ask *v1alpha1.AskReply) error {
	p, err := parameter.Decode(h.spec.ParamsDomain, ask.Params)
	if err != nil {
		return err
	}
	if err := h.Problem.Send(&v1alpha1.CreateEvaluatorCast{ID: ask.ID}); err != nil {
		return err
	}

	h.current = &TrialReport{ID: ask.ID, State: StateRunning, Params: p.String()}
	h.nextID++
	h.Log.V(1).Info("Started trial", "id", ask.ID, "params", h.current.Params)
	return nil
}

func (h *Harness) finish() error {
	t := h.current
	h.current = nil
	h.report.Trials = append(h.report.Trials, *t)
	h.Log.Info("Finished trial", "id", t.ID, "state", t.State, "steps", t.Steps, "value", t.Value)
	return h.Problem.Send(&v1alpha1.DropEvaluatorCast{ID: t.ID})
}

func (h *Harness) finished() int {
	return len(h.report.Trials)
}

func unexpected(m v1alpha1.Message, expected v1alpha1.MessageType) error {
	return v1alpha1.NewError(v1alpha1.ErrUnexpectedMessage, "expected %s, got %s", expected, m.MessageType())
}
