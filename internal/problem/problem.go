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

package problem

import (
	"context"

	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/internal/parameter"
)

// Evaluator is the resumable evaluation state of a single trial.
type Evaluator interface {
	// Evaluate executes the supplied number of additional steps, returning the latest objective
	// values and the cumulative number of steps executed so far.
	Evaluate(ctx context.Context, steps int64) (values []float64, progress int64, err error)
}

// Problem describes an evaluation target and constructs evaluators for it.
type Problem interface {
	// Spec returns the static problem specification.
	Spec() v1alpha1.ProblemSpec
	// NewEvaluator constructs the evaluator of a trial from its parameters.
	NewEvaluator(id int64, params *parameter.Params) (Evaluator, error)
}

// Closer may be implemented by evaluators that own resources released when the session is dropped.
type Closer interface {
	Close() error
}
