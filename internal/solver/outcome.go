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
	"fmt"
)

// Outcome is the result of a trial as seen by the optimizer: either a terminal value or an early stop.
type Outcome struct {
	// Pruned is true if the trial was stopped before its evaluation expense was consumed.
	Pruned bool
	// Preempted is true if the harness abandoned the trial, preempted trials are also pruned.
	Preempted bool
	// Value is the terminal objective value of a completed trial.
	Value float64
	// Step is the last step observed for the trial.
	Step int64
}

// Completed returns the outcome of a trial that consumed its whole evaluation expense.
func Completed(value float64, step int64) Outcome {
	return Outcome{Value: value, Step: step}
}

// Pruned returns the outcome of a trial stopped early by the pruning policy.
func Pruned(step int64) Outcome {
	return Outcome{Pruned: true, Step: step}
}

// Preempted returns the outcome of a trial abandoned by the harness.
func Preempted(step int64) Outcome {
	return Outcome{Pruned: true, Preempted: true, Step: step}
}

// Label returns a short name for the outcome.
func (o Outcome) Label() string {
	switch {
	case o.Preempted:
		return "preempted"
	case o.Pruned:
		return "pruned"
	}
	return "completed"
}

func (o Outcome) String() string {
	if o.Pruned {
		return fmt.Sprintf("%s at step %d", o.Label(), o.Step)
	}
	return fmt.Sprintf("completed with %g", o.Value)
}
