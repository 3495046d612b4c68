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
	"context"
	"math"
	"math/rand"

	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/internal/parameter"
	"github.com/thestormforge/optimize-bridge/internal/problem"
)

// curve simulates a training run: every step lowers the loss along a curve shaped by the
// hyper-parameters, and the loss after the last step is the objective.
type curve struct {
	version string
	expense int64
	seed    int64
}

func (p *curve) Spec() v1alpha1.ProblemSpec {
	return v1alpha1.ProblemSpec{
		Name:    "curve",
		Version: p.version,
		ParamsDomain: []v1alpha1.ParamDomain{
			v1alpha1.LogUniform("learning_rate", 1e-4, 1),
			v1alpha1.Discrete("depth", 1, 8),
			v1alpha1.Categorical("optimizer", "adam", "sgd", "rmsprop"),
			v1alpha1.Conditional("optimizer", []string{"sgd"}, v1alpha1.Uniform("momentum", 0, 0.99)),
		},
		ValuesDomain:      []v1alpha1.ValueRange{{Min: 0, Max: 1}},
		EvaluationExpense: p.expense,
	}
}

func (p *curve) NewEvaluator(id int64, params *parameter.Params) (problem.Evaluator, error) {
	lr, _ := params.Float("learning_rate")
	depth, _ := params.Int("depth")
	optimizer, _ := params.Choice("optimizer")
	momentum, _ := params.Float("momentum")

	// Fastest convergence around a learning rate of 0.01, sgd needs momentum to keep up
	rate := 0.25 * math.Exp(-math.Pow(math.Log10(lr)+2, 2)/2)
	switch optimizer {
	case "sgd":
		rate *= 0.4 + 0.6*momentum
	case "rmsprop":
		rate *= 0.85
	}

	// Deeper models reach a lower loss, up to a point
	floor := 0.05 + 0.02*math.Abs(float64(depth)-5)

	return &curveEvaluator{
		rate:  rate,
		floor: floor,
		loss:  1,
		rng:   rand.New(rand.NewSource(p.seed + id)),
	}, nil
}

type curveEvaluator struct {
	rate     float64
	floor    float64
	loss     float64
	progress int64
	rng      *rand.Rand
}

func (e *curveEvaluator) Evaluate(ctx context.Context, steps int64) ([]float64, int64, error) {
	for i := int64(0); i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, e.progress, err
		}
		e.loss = e.floor + (e.loss-e.floor)*(1-e.rate)
		e.progress++
	}
	noise := 0.01 * e.rng.NormFloat64() * (e.loss - e.floor)
	value := math.Min(1, math.Max(0, e.loss+noise))
	return []float64{value}, e.progress, nil
}
