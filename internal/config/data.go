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

package config

// Config is the top level configuration structure for the bridge
type Config struct {
	// Log configures the diagnostic logger
	Log Log `json:"log,omitempty"`
	// Solver configures the solver side of the bridge
	Solver Solver `json:"solver,omitempty"`
	// Problem configures the problem side of the bridge
	Problem Problem `json:"problem,omitempty"`
	// Metrics configures the Prometheus metrics exposition
	Metrics Metrics `json:"metrics,omitempty"`
}

// Log configures the diagnostic logger, which always writes to standard error
type Log struct {
	// Level is the minimum level to log: debug, info, warn or error
	Level string `json:"level,omitempty"`
	// Format is the log encoding: console or json
	Format string `json:"format,omitempty"`
}

// Solver configures the built-in optimizer
type Solver struct {
	// Name is reported to the harness in the solver specification
	Name string `json:"name,omitempty"`
	// Sampler is the name of the parameter sampler
	Sampler string `json:"sampler,omitempty"`
	// Seed initializes the sampler, zero picks a seed from the clock
	Seed int64 `json:"seed,omitempty"`
	// Pruner is the name of the pruning policy: nop, median or asha
	Pruner string `json:"pruner,omitempty"`
	// Direction is the optimization direction: minimize or maximize
	Direction string `json:"direction,omitempty"`
	// Median configures the median pruner
	Median MedianPruner `json:"median,omitempty"`
	// ASHA configures the successive halving pruner
	ASHA SuccessiveHalvingPruner `json:"asha,omitempty"`
}

// MedianPruner configures the median pruner
type MedianPruner struct {
	// StartupTrials is the number of trials that must complete before pruning starts
	StartupTrials int `json:"startupTrials,omitempty"`
	// WarmupSteps is the number of steps of each trial that are never pruned
	WarmupSteps int64 `json:"warmupSteps,omitempty"`
}

// SuccessiveHalvingPruner configures the asynchronous successive halving pruner
type SuccessiveHalvingPruner struct {
	// MinResource is the number of steps of the first rung
	MinResource int64 `json:"minResource,omitempty"`
	// ReductionFactor is the rung growth rate
	ReductionFactor int64 `json:"reductionFactor,omitempty"`
	// MinEarlyStoppingRate skips the first rungs
	MinEarlyStoppingRate int `json:"minEarlyStoppingRate,omitempty"`
}

// Problem configures the built-in problems
type Problem struct {
	// Name is the name of the built-in problem
	Name string `json:"name,omitempty"`
	// Dimension is the number of parameters of the synthetic function problems
	Dimension int `json:"dimension,omitempty"`
	// EvaluationExpense is the number of steps of a full evaluation of the multi-step problems
	EvaluationExpense int64 `json:"evaluationExpense,omitempty"`
	// MinIterations is the minimum number of steps a single evaluation executes
	MinIterations int64 `json:"minIterations,omitempty"`
	// Seed initializes the evaluation noise
	Seed int64 `json:"seed,omitempty"`
}

// Metrics configures the Prometheus metrics exposition
type Metrics struct {
	// Address is the listen address of the metrics endpoint, empty disables it
	Address string `json:"address,omitempty"`
	// File is the path of a text file the metrics are written to on exit, empty disables it
	File string `json:"file,omitempty"`
}

// mergeString overwrites s1 with a non-empty value of s2
func mergeString(s1 *string, s2 string) {
	if s2 != "" {
		*s1 = s2
	}
}

// mergeInt overwrites i1 with a non-zero value of i2
func mergeInt(i1 *int, i2 int) {
	if i2 != 0 {
		*i1 = i2
	}
}

// mergeInt64 overwrites i1 with a non-zero value of i2
func mergeInt64(i1 *int64, i2 int64) {
	if i2 != 0 {
		*i1 = i2
	}
}

func mergeLog(l1, l2 *Log) {
	mergeString(&l1.Level, l2.Level)
	mergeString(&l1.Format, l2.Format)
}

func mergeSolver(s1, s2 *Solver) {
	mergeString(&s1.Name, s2.Name)
	mergeString(&s1.Sampler, s2.Sampler)
	mergeInt64(&s1.Seed, s2.Seed)
	mergeString(&s1.Pruner, s2.Pruner)
	mergeString(&s1.Direction, s2.Direction)
	mergeInt(&s1.Median.StartupTrials, s2.Median.StartupTrials)
	mergeInt64(&s1.Median.WarmupSteps, s2.Median.WarmupSteps)
	mergeInt64(&s1.ASHA.MinResource, s2.ASHA.MinResource)
	mergeInt64(&s1.ASHA.ReductionFactor, s2.ASHA.ReductionFactor)
	mergeInt(&s1.ASHA.MinEarlyStoppingRate, s2.ASHA.MinEarlyStoppingRate)
}

func mergeProblem(p1, p2 *Problem) {
	mergeString(&p1.Name, p2.Name)
	mergeInt(&p1.Dimension, p2.Dimension)
	mergeInt64(&p1.EvaluationExpense, p2.EvaluationExpense)
	mergeInt64(&p1.MinIterations, p2.MinIterations)
	mergeInt64(&p1.Seed, p2.Seed)
}

func mergeMetrics(m1, m2 *Metrics) {
	mergeString(&m1.Address, m2.Address)
	mergeString(&m1.File, m2.File)
}
