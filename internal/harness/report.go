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

// TrialState is the final state of a relayed trial.
type TrialState string

const (
	StateRunning   TrialState = "running"
	StateCompleted TrialState = "completed"
	StatePruned    TrialState = "pruned"
	StateAbandoned TrialState = "abandoned"
)

// TrialReport summarizes one trial.
type TrialReport struct {
	ID          int64      `json:"id"`
	State       TrialState `json:"state"`
	Steps       int64      `json:"steps"`
	Evaluations int        `json:"evaluations"`
	Value       float64    `json:"value"`
	Params      string     `json:"params"`
}

// Report summarizes a benchmark run.
type Report struct {
	Solver  string        `json:"solver"`
	Problem string        `json:"problem"`
	Trials  []TrialReport `json:"trials"`
}

// Best returns the completed trial with the lowest value, or nil if no trial completed.
func (r *Report) Best() *TrialReport {
	var best *TrialReport
	for i := range r.Trials {
		t := &r.Trials[i]
		if t.State != StateCompleted {
			continue
		}
		if best == nil || t.Value < best.Value {
			best = t
		}
	}
	return best
}

// Count returns the number of trials in the supplied state.
func (r *Report) Count(state TrialState) int {
	var n int
	for _, t := range r.Trials {
		if t.State == state {
			n++
		}
	}
	return n
}

// TotalSteps returns the number of steps consumed by all trials.
func (r *Report) TotalSteps() int64 {
	var n int64
	for _, t := range r.Trials {
		n += t.Steps
	}
	return n
}
