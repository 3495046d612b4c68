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

// Overrides represent information which can be overridden from the command line
type Overrides struct {
	// LogLevel overrides the minimum log level
	LogLevel string
	// Sampler overrides the sampler name
	Sampler string
	// Pruner overrides the pruning policy name
	Pruner string
	// Seed overrides the sampler seed
	Seed int64
	// Problem overrides the built-in problem name
	Problem string
	// Dimension overrides the synthetic problem dimension
	Dimension int
	// EvaluationExpense overrides the number of steps of multi-step problems
	EvaluationExpense int64
	// MinIterations overrides the minimum number of steps per evaluation
	MinIterations int64
	// MetricsAddress overrides the metrics listen address
	MetricsAddress string
	// MetricsFile overrides the metrics text file
	MetricsFile string
}

// overridesLoader applies the overrides to the configuration data
func overridesLoader(cfg *BridgeConfig) error {
	o := &cfg.Overrides
	mergeString(&cfg.data.Log.Level, o.LogLevel)
	mergeString(&cfg.data.Solver.Sampler, o.Sampler)
	mergeString(&cfg.data.Solver.Pruner, o.Pruner)
	mergeInt64(&cfg.data.Solver.Seed, o.Seed)
	mergeString(&cfg.data.Problem.Name, o.Problem)
	mergeInt(&cfg.data.Problem.Dimension, o.Dimension)
	mergeInt64(&cfg.data.Problem.EvaluationExpense, o.EvaluationExpense)
	mergeInt64(&cfg.data.Problem.MinIterations, o.MinIterations)
	mergeString(&cfg.data.Metrics.Address, o.MetricsAddress)
	mergeString(&cfg.data.Metrics.File, o.MetricsFile)
	return nil
}
