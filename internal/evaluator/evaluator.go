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

package evaluator

import (
	"fmt"

	"github.com/thestormforge/optimize-bridge/internal/problem"
	"github.com/thestormforge/optimize-bridge/internal/version"
)

// Options configures a built-in problem.
type Options struct {
	// Dimension is the number of parameters of the synthetic functions.
	Dimension int
	// EvaluationExpense is the number of steps of a full curve evaluation.
	EvaluationExpense int64
	// Seed is used for evaluation noise.
	Seed int64
}

// Names returns the names of the built-in problems.
func Names() []string {
	return []string{"sphere", "rosenbrock", "ackley", "curve"}
}

// New returns the named built-in problem.
func New(name string, opts Options) (problem.Problem, error) {
	v := version.GetInfo().String()
	if name == "curve" {
		if opts.EvaluationExpense < 1 {
			return nil, fmt.Errorf("invalid evaluation expense %d", opts.EvaluationExpense)
		}
		return &curve{version: v, expense: opts.EvaluationExpense, seed: opts.Seed}, nil
	}

	if opts.Dimension < 1 {
		return nil, fmt.Errorf("invalid dimension %d", opts.Dimension)
	}
	switch name {
	case "sphere":
		return &function{name: name, version: v, dimension: opts.Dimension, low: -5.12, high: 5.12, max: 5.12 * 5.12 * float64(opts.Dimension), f: sphere}, nil
	case "rosenbrock":
		return &function{name: name, version: v, dimension: opts.Dimension, low: -5, high: 10, max: 1e6 * float64(opts.Dimension), f: rosenbrock}, nil
	case "ackley":
		return &function{name: name, version: v, dimension: opts.Dimension, low: -32.768, high: 32.768, max: 23, f: ackley}, nil
	}
	return nil, fmt.Errorf("unknown problem %q", name)
}
