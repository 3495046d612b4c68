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
	"sort"
)

// Direction is the optimization direction of the objective.
type Direction string

const (
	Minimize Direction = "minimize"
	Maximize Direction = "maximize"
)

// Better returns true if a is strictly better than b.
func (d Direction) Better(a, b float64) bool {
	if d == Maximize {
		return a > b
	}
	return a < b
}

// TrialState is the state of a trial in the study history.
type TrialState string

const (
	TrialRunning   TrialState = "running"
	TrialCompleted TrialState = "completed"
	TrialPruned    TrialState = "pruned"
)

// TrialRecord is the history of a single trial.
type TrialRecord struct {
	Number       int
	State        TrialState
	Value        float64
	Intermediate map[int64]float64
	// Rungs holds the values recorded at successive halving rungs.
	Rungs map[int]float64
}

// History holds every trial of a study.
type History struct {
	Direction Direction
	Trials    []*TrialRecord
}

// Completed returns the number of completed trials.
func (h *History) Completed() int {
	var n int
	for _, t := range h.Trials {
		if t.State == TrialCompleted {
			n++
		}
	}
	return n
}

// Best returns the best completed trial, or nil if no trial completed.
func (h *History) Best() *TrialRecord {
	var best *TrialRecord
	for _, t := range h.Trials {
		if t.State != TrialCompleted {
			continue
		}
		if best == nil || h.Direction.Better(t.Value, best.Value) {
			best = t
		}
	}
	return best
}

// valuesAt returns the sorted intermediate values other completed trials reported at the step.
func (h *History) valuesAt(step int64, exclude int) []float64 {
	var values []float64
	for _, t := range h.Trials {
		if t.Number == exclude || t.State != TrialCompleted {
			continue
		}
		if v, ok := t.Intermediate[step]; ok {
			values = append(values, v)
		}
	}
	sort.Float64s(values)
	return values
}
