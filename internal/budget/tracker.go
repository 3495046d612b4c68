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

package budget

import (
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
)

// Quantum is the number of additional steps granted when a running trial is extended.
const Quantum = 1

// State is the lifecycle state of a trial budget.
type State string

const (
	StateRunning  State = "running"
	StatePruned   State = "pruned"
	StateComplete State = "complete"
)

// Tracker holds the budget of a single trial from the solver's point of view.
type Tracker struct {
	expense  int64
	stepwise bool
	state    State
	budget   v1alpha1.Budget
}

// NewTracker returns a running tracker. A stepwise tracker requests a single step at a
// time, otherwise the whole evaluation expense is requested at once.
func NewTracker(expense int64, stepwise bool) *Tracker {
	t := &Tracker{expense: expense, stepwise: stepwise, state: StateRunning}
	t.budget.Amount = expense
	if stepwise && expense > Quantum {
		t.budget.Amount = Quantum
	}
	return t
}

// State returns the current state.
func (t *Tracker) State() State { return t.state }

// Budget returns the budget to request from the harness.
func (t *Tracker) Budget() v1alpha1.Budget { return t.budget }

// Step returns the number of steps known to be consumed.
func (t *Tracker) Step() int64 { return t.budget.Consumption }

// Observe records the budget reported by the harness, transitioning to complete once the whole
// evaluation expense has been consumed.
func (t *Tracker) Observe(reported v1alpha1.Budget) error {
	if t.state != StateRunning {
		return v1alpha1.NewError(v1alpha1.ErrUnexpectedMessage, "trial is already %s", t.state)
	}
	if err := reported.Validate(); err != nil {
		return err
	}
	if reported.Consumption < t.budget.Consumption {
		return v1alpha1.NewError(v1alpha1.ErrBudgetViolation, "consumption decreased from %d to %d", t.budget.Consumption, reported.Consumption)
	}
	if reported.Amount < t.budget.Amount {
		return v1alpha1.NewError(v1alpha1.ErrBudgetViolation, "amount decreased from %d to %d", t.budget.Amount, reported.Amount)
	}
	if reported.Consumption > t.expense {
		return v1alpha1.NewError(v1alpha1.ErrBudgetViolation, "consumption %d exceeds evaluation expense %d", reported.Consumption, t.expense)
	}
	if reported.Consumption < t.expense && !t.stepwise {
		return v1alpha1.NewError(v1alpha1.ErrBudgetViolation, "consumption %d is less than the requested evaluation expense %d", reported.Consumption, t.expense)
	}

	t.budget = reported
	if t.budget.Consumption == t.expense {
		t.state = StateComplete
	}
	return nil
}

// Extend grants one more quantum of steps to a running trial.
func (t *Tracker) Extend() error {
	if t.state != StateRunning {
		return v1alpha1.NewError(v1alpha1.ErrUnexpectedMessage, "cannot extend %s trial", t.state)
	}
	t.budget.Amount += Quantum
	if t.budget.Amount > t.expense {
		t.budget.Amount = t.expense
	}
	return nil
}

// Prune stops the trial before its evaluation expense is consumed.
func (t *Tracker) Prune() {
	if t.state == StateRunning {
		t.state = StatePruned
	}
}
