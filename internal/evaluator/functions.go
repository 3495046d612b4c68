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
	"fmt"
	"math"

	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
	"github.com/thestormforge/optimize-bridge/internal/parameter"
	"github.com/thestormforge/optimize-bridge/internal/problem"
)

// function is a single step synthetic test function over a box of continuous parameters.
type function struct {
	name      string
	version   string
	dimension int
	low, high float64
	min, max  float64
	f         func(x []float64) float64
}

func (p *function) Spec() v1alpha1.ProblemSpec {
	domains := make([]v1alpha1.ParamDomain, p.dimension)
	for i := range domains {
		domains[i] = v1alpha1.Uniform(fmt.Sprintf("x%d", i), p.low, p.high)
	}
	return v1alpha1.ProblemSpec{
		Name:              fmt.Sprintf("%s/%d", p.name, p.dimension),
		Version:           p.version,
		ParamsDomain:      domains,
		ValuesDomain:      []v1alpha1.ValueRange{{Min: p.min, Max: p.max}},
		EvaluationExpense: 1,
	}
}

func (p *function) NewEvaluator(_ int64, params *parameter.Params) (problem.Evaluator, error) {
	x := make([]float64, p.dimension)
	for i := range x {
		v, ok := params.Float(fmt.Sprintf("x%d", i))
		if !ok {
			return nil, fmt.Errorf("missing parameter x%d", i)
		}
		x[i] = v
	}
	return &functionEvaluator{value: p.f(x)}, nil
}

type functionEvaluator struct {
	value    float64
	progress int64
}

func (e *functionEvaluator) Evaluate(_ context.Context, steps int64) ([]float64, int64, error) {
	e.progress += steps
	return []float64{e.value}, e.progress, nil
}

func sphere(x []float64) float64 {
	var sum float64
	for _, xi := range x {
		sum += xi * xi
	}
	return sum
}

func rosenbrock(x []float64) float64 {
	var sum float64
	for i := 0; i < len(x)-1; i++ {
		a, b := x[i+1]-x[i]*x[i], 1-x[i]
		sum += 100*a*a + b*b
	}
	return sum
}

func ackley(x []float64) float64 {
	n := float64(len(x))
	var squares, cosines float64
	for _, xi := range x {
		squares += xi * xi
		cosines += math.Cos(2 * math.Pi * xi)
	}
	return -20*math.Exp(-0.2*math.Sqrt(squares/n)) - math.Exp(cosines/n) + 20 + math.E
}
