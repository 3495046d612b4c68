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

import (
	"fmt"
)

// The default loader must NEVER make changes via BridgeConfig.Update or BridgeConfig.unpersisted

func defaultLoader(cfg *BridgeConfig) error {
	// NOTE: Any errors reported here are effectively fatal errors for a program that needs configuration since they will
	// not be able to load the configuration. Errors should be limited to unusable configurations.

	d := &cfg.data

	defaultString(&d.Log.Level, "info")
	defaultString(&d.Log.Format, "console")

	defaultString(&d.Solver.Name, "optimize-bridge")
	defaultString(&d.Solver.Sampler, "random")
	defaultString(&d.Solver.Pruner, "median")
	defaultString(&d.Solver.Direction, "minimize")
	defaultInt(&d.Solver.Median.StartupTrials, 5)
	defaultInt64(&d.Solver.ASHA.MinResource, 1)
	defaultInt64(&d.Solver.ASHA.ReductionFactor, 4)

	defaultString(&d.Problem.Name, "sphere")
	defaultInt(&d.Problem.Dimension, 2)
	defaultInt64(&d.Problem.EvaluationExpense, 100)

	switch d.Solver.Direction {
	case "minimize", "maximize":
	default:
		return fmt.Errorf("unknown optimization direction: '%s'", d.Solver.Direction)
	}
	if d.Problem.MinIterations < 0 {
		return fmt.Errorf("invalid minimum iterations: %d", d.Problem.MinIterations)
	}

	return nil
}

// defaultString overwrites an empty s1 with the value of s2
func defaultString(s1 *string, s2 string) {
	if *s1 == "" {
		*s1 = s2
	}
}

// defaultInt overwrites a zero i1 with the value of i2
func defaultInt(i1 *int, i2 int) {
	if *i1 == 0 {
		*i1 = i2
	}
}

// defaultInt64 overwrites a zero i1 with the value of i2
func defaultInt64(i1 *int64, i2 int64) {
	if *i1 == 0 {
		*i1 = i2
	}
}
