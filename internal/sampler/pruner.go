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
	"fmt"
	"math"
	"sort"
)

// Pruner decides if a running trial should stop early based on its intermediate values.
type Pruner interface {
	// Prune is consulted after the value for the step has been recorded on the trial.
	Prune(h *History, t *TrialRecord, step int64) bool
}

// NopPruner never prunes.
type NopPruner struct{}

func (NopPruner) Prune(*History, *TrialRecord, int64) bool { return false }

// MedianPruner prunes a trial whose best intermediate value is worse than the median of the
// values other trials reported at the same step.
type MedianPruner struct {
	// StartupTrials is the number of completed trials required before pruning.
	StartupTrials int
	// WarmupSteps is the number of steps of a trial that are never pruned.
	WarmupSteps int64
}

func (p *MedianPruner) Prune(h *History, t *TrialRecord, step int64) bool {
	if h.Completed() < p.StartupTrials || step < p.WarmupSteps {
		return false
	}

	others := h.valuesAt(step, t.Number)
	if len(others) == 0 {
		return false
	}

	var best float64
	first := true
	for s, v := range t.Intermediate {
		if s > step || math.IsNaN(v) {
			continue
		}
		if first || h.Direction.Better(v, best) {
			best, first = v, false
		}
	}
	if first {
		return true
	}

	return h.Direction.Better(median(others), best)
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// SuccessiveHalvingPruner is an asynchronous successive halving pruner: at each rung only the
// top 1/ReductionFactor of the trials that reached the rung are promoted.
type SuccessiveHalvingPruner struct {
	// MinResource is the number of steps of the first rung.
	MinResource int64
	// ReductionFactor is the rung growth rate and the inverse of the promotion ratio.
	ReductionFactor int64
	// MinEarlyStoppingRate skips the first rungs.
	MinEarlyStoppingRate int
}

func (p *SuccessiveHalvingPruner) Prune(h *History, t *TrialRecord, step int64) bool {
	value, ok := t.Intermediate[step]
	if !ok || math.IsNaN(value) {
		return true
	}
	if t.Rungs == nil {
		t.Rungs = make(map[int]float64)
	}

	for rung := 0; ; rung++ {
		if step < p.rungResource(rung) {
			return false
		}
		if _, ok := t.Rungs[rung]; ok {
			continue
		}
		t.Rungs[rung] = value

		competing := []float64{value}
		for _, other := range h.Trials {
			if other.Number == t.Number {
				continue
			}
			if v, ok := other.Rungs[rung]; ok {
				competing = append(competing, v)
			}
		}
		if !p.promotable(h.Direction, value, competing) {
			return true
		}
	}
}

func (p *SuccessiveHalvingPruner) rungResource(rung int) int64 {
	r := p.MinResource
	for i := 0; i < rung+p.MinEarlyStoppingRate; i++ {
		r *= p.ReductionFactor
	}
	return r
}

func (p *SuccessiveHalvingPruner) promotable(d Direction, value float64, competing []float64) bool {
	sort.Float64s(competing)
	idx := len(competing)/int(p.ReductionFactor) - 1
	if idx < 0 {
		idx = 0
	}
	if d == Maximize {
		return value >= competing[len(competing)-1-idx]
	}
	return value <= competing[idx]
}

// PrunerOptions holds the tuning knobs of every pruner.
type PrunerOptions struct {
	MedianStartupTrials  int
	MedianWarmupSteps    int64
	ASHAMinResource      int64
	ASHAReductionFactor  int64
	ASHAMinEarlyStopping int
}

// NewPruner returns the named pruner; the "nop" pruner (or "none") disables pruning.
func NewPruner(name string, opts PrunerOptions) (Pruner, error) {
	switch name {
	case "", "nop", "none":
		return NopPruner{}, nil
	case "median":
		return &MedianPruner{StartupTrials: opts.MedianStartupTrials, WarmupSteps: opts.MedianWarmupSteps}, nil
	case "asha":
		if opts.ASHAMinResource < 1 || opts.ASHAReductionFactor < 2 {
			return nil, fmt.Errorf("invalid successive halving configuration: min resource %d, reduction factor %d", opts.ASHAMinResource, opts.ASHAReductionFactor)
		}
		return &SuccessiveHalvingPruner{
			MinResource:          opts.ASHAMinResource,
			ReductionFactor:      opts.ASHAReductionFactor,
			MinEarlyStoppingRate: opts.ASHAMinEarlyStopping,
		}, nil
	}
	return nil, fmt.Errorf("unknown pruner %q", name)
}

// IsStepwise returns true if the pruner needs to observe intermediate values.
func IsStepwise(p Pruner) bool {
	_, nop := p.(NopPruner)
	return !nop
}
