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
	"strconv"
	"strings"
)

// SetProperty is a configuration change that updates a single property using a dotted name notation.
func SetProperty(name, value string) Change {
	return func(cfg *Config) error {
		s, i, i64, err := property(cfg, name)
		if err != nil {
			return err
		}

		switch {
		case s != nil:
			*s = value
		case i != nil:
			v, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*i = v
		case i64 != nil:
			v, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*i64 = v
		}
		return nil
	}
}

// property returns a pointer to the field of the named property, exactly one result is non-nil on success
func property(cfg *Config, name string) (*string, *int, *int64, error) {
	switch strings.ToLower(name) {
	case "log.level":
		return &cfg.Log.Level, nil, nil, nil
	case "log.format":
		return &cfg.Log.Format, nil, nil, nil
	case "solver.name":
		return &cfg.Solver.Name, nil, nil, nil
	case "solver.sampler":
		return &cfg.Solver.Sampler, nil, nil, nil
	case "solver.seed":
		return nil, nil, &cfg.Solver.Seed, nil
	case "solver.pruner":
		return &cfg.Solver.Pruner, nil, nil, nil
	case "solver.direction":
		return &cfg.Solver.Direction, nil, nil, nil
	case "solver.median.startuptrials":
		return nil, &cfg.Solver.Median.StartupTrials, nil, nil
	case "solver.median.warmupsteps":
		return nil, nil, &cfg.Solver.Median.WarmupSteps, nil
	case "solver.asha.minresource":
		return nil, nil, &cfg.Solver.ASHA.MinResource, nil
	case "solver.asha.reductionfactor":
		return nil, nil, &cfg.Solver.ASHA.ReductionFactor, nil
	case "solver.asha.minearlystoppingrate":
		return nil, &cfg.Solver.ASHA.MinEarlyStoppingRate, nil, nil
	case "problem.name":
		return &cfg.Problem.Name, nil, nil, nil
	case "problem.dimension":
		return nil, &cfg.Problem.Dimension, nil, nil
	case "problem.evaluationexpense":
		return nil, nil, &cfg.Problem.EvaluationExpense, nil
	case "problem.miniterations":
		return nil, nil, &cfg.Problem.MinIterations, nil
	case "problem.seed":
		return nil, nil, &cfg.Problem.Seed, nil
	case "metrics.address":
		return &cfg.Metrics.Address, nil, nil, nil
	case "metrics.file":
		return &cfg.Metrics.File, nil, nil, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown config property: %s", name)
}
