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

package parameter

import (
	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
)

// Suggester draws individual parameter values, usually from an optimizer trial.
// Implementations return an unsupported parameter error for kinds they cannot sample.
type Suggester interface {
	// SuggestFloat returns a value in [low, high], sampled in log space when log is true.
	SuggestFloat(name string, low, high float64, log bool) (float64, error)
	// SuggestInt returns a value in the inclusive range [low, high].
	SuggestInt(name string, low, high int64) (int64, error)
	// SuggestCategorical returns the index of one of the choices.
	SuggestCategorical(name string, choices []string) (int, error)
}

// Sample draws one value for each domain, in order. Nested conditional domains are only
// sampled when their condition holds for a previously sampled parameter.
func Sample(domains []v1alpha1.ParamDomain, s Suggester) ([]v1alpha1.ParamValue, *Params, error) {
	p := &Params{}
	values := make([]v1alpha1.ParamValue, len(domains))
	for i := range domains {
		v, err := sample(&domains[i], s, p)
		if err != nil {
			return nil, nil, err
		}
		values[i] = v
	}
	return values, p, nil
}

func sample(d *v1alpha1.ParamDomain, s Suggester, p *Params) (v1alpha1.ParamValue, error) {
	var v v1alpha1.ParamValue
	switch d.Kind() {

	case v1alpha1.ParamKindContinuous:
		c := d.Continuous
		x, err := s.SuggestFloat(c.Name, c.Range.Low, c.Range.High, c.Distribution == v1alpha1.DistributionLogUniform)
		if err != nil {
			return v, err
		}
		v = v1alpha1.ContinuousValue(x)
		return v, p.set(c.Name, d, v)

	case v1alpha1.ParamKindDiscrete:
		x, err := s.SuggestInt(d.Discrete.Name, d.Discrete.Range.Low, d.Discrete.Range.High)
		if err != nil {
			return v, err
		}
		v = v1alpha1.DiscreteValue(x)
		return v, p.set(d.Discrete.Name, d, v)

	case v1alpha1.ParamKindCategorical:
		i, err := s.SuggestCategorical(d.Categorical.Name, d.Categorical.Choices)
		if err != nil {
			return v, err
		}
		if i < 0 || i >= len(d.Categorical.Choices) {
			return v, v1alpha1.NewError(v1alpha1.ErrInvalidDomain, "category index %d out of range for %q", i, d.Categorical.Name)
		}
		v = v1alpha1.CategoricalValue(i)
		return v, p.set(d.Categorical.Name, d, v)

	case v1alpha1.ParamKindConditional:
		if !p.Satisfies(d.Conditional.Condition) {
			return v1alpha1.ConditionalValue(nil), nil
		}
		inner, err := sample(&d.Conditional.Param, s, p)
		if err != nil {
			return v, err
		}
		return v1alpha1.ConditionalValue(&inner), nil
	}

	return v, v1alpha1.NewError(v1alpha1.ErrUnsupportedParameter, "unsupported parameter domain %q", d.ParamName())
}
