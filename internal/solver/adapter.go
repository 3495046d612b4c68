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

package solver

import (
	"context"
	"io"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/internal/budget"
	"github.com/thestormforge/optimize-bridge/internal/channel"
	"github.com/thestormforge/optimize-bridge/internal/metrics"
	"github.com/thestormforge/optimize-bridge/internal/parameter"
)

// Trial is the optimizer facing view of a single trial.
type Trial interface {
	parameter.Suggester

	// Report records an intermediate value for the supplied step.
	Report(value float64, step int64)
	// ShouldPrune returns true if the trial should stop at the supplied step.
	ShouldPrune(value float64, step int64) bool
}

// Adapter translates single shot trial evaluations into ASK/TELL exchanges with a harness.
type Adapter struct {
	// Log is the adapter logger.
	Log logr.Logger
	// Spec is sent to the harness when the adapter starts.
	Spec v1alpha1.SolverSpec
	// Stepwise requests one step at a time so the pruning policy is consulted between steps.
	Stepwise bool

	conn    channel.Conn
	problem *v1alpha1.ProblemSpec
	nextID  int64
	closed  bool
}

// NewAdapter returns a new adapter for the connection.
func NewAdapter(conn channel.Conn, spec v1alpha1.SolverSpec, stepwise bool, log logr.Logger) *Adapter {
	return &Adapter{
		Log:      log,
		Spec:     spec,
		Stepwise: stepwise,
		conn:     conn,
	}
}

// Start performs the specification exchange, it must be called exactly once.
func (a *Adapter) Start(ctx context.Context) error {
	if a.problem != nil {
		return errors.New("solver adapter already started")
	}

	if err := a.conn.Send(&v1alpha1.SolverSpecCast{SolverSpec: a.Spec}); err != nil {
		return err
	}

	m, err := a.conn.Receive()
	if err != nil {
		return err
	}
	cast, ok := m.(*v1alpha1.ProblemSpecCast)
	if !ok {
		return unexpected(m, v1alpha1.ProblemSpecCastType)
	}
	if err := cast.ProblemSpec.Validate(); err != nil {
		return err
	}
	if err := cast.ProblemSpec.CheckCapabilities(a.Spec.Capabilities); err != nil {
		return err
	}
	a.problem = &cast.ProblemSpec
	a.Log.Info("Received problem", "problem", a.problem.Name, "version", a.problem.Version, "evaluationExpense", a.problem.EvaluationExpense)

	if err := ctx.Err(); err != nil {
		return err
	}
	return a.receiveAsk()
}

// Problem returns the problem received during the specification exchange.
func (a *Adapter) Problem() *v1alpha1.ProblemSpec {
	return a.problem
}

// Done returns true once the harness has closed the channel.
func (a *Adapter) Done() bool {
	return a.closed
}

// Evaluate runs one trial to completion, pruning or preemption. If the harness closes the channel
// while the trial is running, the returned error is io.EOF.
func (a *Adapter) Evaluate(ctx context.Context, trial Trial) (Outcome, error) {
	if a.problem == nil {
		return Outcome{}, errors.New("solver adapter not started")
	}
	if a.closed {
		return Outcome{}, io.EOF
	}

	params, assigned, err := parameter.Sample(a.problem.ParamsDomain, trial)
	if err != nil {
		return Outcome{}, err
	}

	id := a.nextID
	log := a.Log.WithValues("trial", id)
	tracker := budget.NewTracker(a.problem.EvaluationExpense, a.Stepwise)
	log.Info("Asking trial", "params", assigned.String(), "amount", tracker.Budget().Amount)

	for {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}

		if err := a.conn.Send(&v1alpha1.AskReply{ID: id, Params: params, Budget: tracker.Budget()}); err != nil {
			return Outcome{}, err
		}

		m, err := a.conn.Receive()
		if err == io.EOF {
			a.closed = true
			log.Info("Channel closed during trial")
			return Outcome{}, io.EOF
		} else if err != nil {
			return Outcome{}, err
		}

		var tell *v1alpha1.TellCall
		switch m := m.(type) {
		case *v1alpha1.AskCall:
			a.nextID = m.IDHint
			return a.finish(log, Preempted(tracker.Step())), nil
		case *v1alpha1.TellCall:
			tell = m
		default:
			return Outcome{}, unexpected(m, v1alpha1.TellCallType)
		}

		if tell.ID != id {
			return Outcome{}, v1alpha1.NewError(v1alpha1.ErrUnexpectedMessage, "told trial %d while evaluating trial %d", tell.ID, id)
		}
		if len(tell.Values) == 0 {
			return Outcome{}, v1alpha1.NewError(v1alpha1.ErrUnexpectedMessage, "told trial %d without values", id)
		}
		previous := tracker.Step()
		if err := tracker.Observe(tell.Budget); err != nil {
			return Outcome{}, err
		}
		metrics.StepsTold.Add(float64(tracker.Step() - previous))

		value, step := tell.Values[0], tracker.Step()
		log.V(1).Info("Told step", "step", step, "value", value)

		var outcome *Outcome
		if tracker.State() == budget.StateComplete {
			o := Completed(value, step)
			outcome = &o
		} else {
			trial.Report(value, step)
			if trial.ShouldPrune(value, step) {
				tracker.Prune()
				o := Pruned(step)
				outcome = &o
			}
		}

		if err := a.conn.Send(&v1alpha1.TellReply{}); err != nil {
			return Outcome{}, err
		}

		if outcome != nil {
			if err := a.receiveAsk(); err != nil {
				return Outcome{}, err
			}
			return a.finish(log, *outcome), nil
		}

		// The id hint is only consumed by the next new trial
		if err := a.receiveNextAsk(); err == io.EOF {
			a.closed = true
			log.Info("Channel closed during trial")
			return Outcome{}, io.EOF
		} else if err != nil {
			return Outcome{}, err
		}
		if err := tracker.Extend(); err != nil {
			return Outcome{}, err
		}
	}
}

func (a *Adapter) finish(log logr.Logger, o Outcome) Outcome {
	metrics.Trials.WithLabelValues(o.Label()).Inc()
	log.Info("Finished trial", "outcome", o.Label(), "step", o.Step, "value", o.Value)
	return o
}

// receiveAsk waits for the id hint of the next trial, the end of the stream closes the adapter.
func (a *Adapter) receiveAsk() error {
	m, err := a.conn.Receive()
	if err == io.EOF {
		a.closed = true
		return nil
	} else if err != nil {
		return err
	}

	ask, ok := m.(*v1alpha1.AskCall)
	if !ok {
		return unexpected(m, v1alpha1.AskCallType)
	}
	a.nextID = ask.IDHint
	return nil
}

// receiveNextAsk waits for an ASK_CALL whose hint is not used.
func (a *Adapter) receiveNextAsk() error {
	m, err := a.conn.Receive()
	if err != nil {
		return err
	}
	if _, ok := m.(*v1alpha1.AskCall); !ok {
		return unexpected(m, v1alpha1.AskCallType)
	}
	return nil
}

func unexpected(m v1alpha1.Message, expected v1alpha1.MessageType) error {
	return v1alpha1.NewError(v1alpha1.ErrUnexpectedMessage, "expected %s, got %s", expected, m.MessageType())
}
