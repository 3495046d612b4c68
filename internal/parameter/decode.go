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

// Decode resolves positional wire values against the domains they were sampled from.
func Decode(domains []v1alpha1.ParamDomain, values []v1alpha1.ParamValue) (*Params, error) {
	if len(domains) != len(values) {
		return nil, v1alpha1.NewError(v1alpha1.ErrInvalidDomain, "expected %d parameter values, got %d", len(domains), len(values))
	}

	p := &Params{}
	for i := range domains {
		if err := decode(&domains[i], values[i], p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func decode(d *v1alpha1.ParamDomain, v v1alpha1.ParamValue, p *Params) error {
	kind := d.Kind()
	if kind != v.Kind() {
		return v1alpha1.NewError(v1alpha1.ErrInvalidDomain, "expected %s value for %q, got %q", kind, d.ParamName(), v.Kind())
	}

	switch kind {
	case v1alpha1.ParamKindContinuous:
		r := d.Continuous.Range
		if x := v.Continuous(); x < r.Low || x > r.High {
			return v1alpha1.NewError(v1alpha1.ErrInvalidDomain, "value %g of %q is outside [%g, %g]", x, d.Continuous.Name, r.Low, r.High)
		}
		return p.set(d.Continuous.Name, d, v)

	case v1alpha1.ParamKindDiscrete:
		r := d.Discrete.Range
		if x := v.Discrete(); x < r.Low || x > r.High {
			return v1alpha1.NewError(v1alpha1.ErrInvalidDomain, "value %d of %q is outside [%d, %d]", x, d.Discrete.Name, r.Low, r.High)
		}
		return p.set(d.Discrete.Name, d, v)

	case v1alpha1.ParamKindCategorical:
		if i := v.Categorical(); i < 0 || i >= len(d.Categorical.Choices) {
			return v1alpha1.NewError(v1alpha1.ErrInvalidDomain, "category index %d out of range for %q", i, d.Categorical.Name)
		}
		return p.set(d.Categorical.Name, d, v)

	case v1alpha1.ParamKindConditional:
		active := p.Satisfies(d.Conditional.Condition)
		inner := v.Conditional()
		switch {
		case active && inner == nil:
			return v1alpha1.NewError(v1alpha1.ErrInvalidDomain, "missing value for active parameter %q", d.ParamName())
		case !active && inner != nil:
			return v1alpha1.NewError(v1alpha1.ErrInvalidDomain, "unexpected value for inactive parameter %q", d.ParamName())
		case inner == nil:
			return nil
		}
		return decode(&d.Conditional.Param, *inner, p)
	}

	return v1alpha1.NewError(v1alpha1.ErrUnsupportedParameter, "unsupported parameter domain %q", d.ParamName())
}
