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

package v1alpha1

import (
	"math"
)

// ParamKind is the tag of a parameter domain or value variant.
type ParamKind string

const (
	ParamKindContinuous  ParamKind = "continuous"
	ParamKindDiscrete    ParamKind = "discrete"
	ParamKindCategorical ParamKind = "categorical"
	ParamKindConditional ParamKind = "conditional"
)

// Distribution is the prior of a continuous parameter.
type Distribution string

const (
	DistributionUniform    Distribution = "uniform"
	DistributionLogUniform Distribution = "log-uniform"
)

type ContinuousRange struct {
	// The inclusive lower bound.
	Low float64 `json:"low"`
	// The upper bound.
	High float64 `json:"high"`
}

type DiscreteRange struct {
	// The inclusive lower bound.
	Low int64 `json:"low"`
	// The inclusive upper bound.
	High int64 `json:"high"`
}

type ContinuousDomain struct {
	// The name of the parameter.
	Name string `json:"name"`
	// The distribution to sample from, empty means uniform.
	Distribution Distribution `json:"distribution,omitempty"`
	// The range of the parameter.
	Range ContinuousRange `json:"range"`
}

type DiscreteDomain struct {
	// The name of the parameter.
	Name string `json:"name"`
	// The range of the parameter.
	Range DiscreteRange `json:"range"`
}

type CategoricalDomain struct {
	// The name of the parameter.
	Name string `json:"name"`
	// The ordered list of choices, values travel as an index into this list.
	Choices []string `json:"choices"`
}

type MemberCondition struct {
	// The name of the parameter the condition depends on.
	Name string `json:"name"`
	// The values of the dependent parameter that activate the condition.
	Choices []string `json:"choices"`
}

type Condition struct {
	// Membership of a previously sampled parameter value in a set of choices.
	Member *MemberCondition `json:"member,omitempty"`
}

type ConditionalDomain struct {
	// Optional name of the conditional parameter, defaults to the nested parameter name.
	Name string `json:"name,omitempty"`
	// The condition that must hold for the nested parameter to be active.
	Condition Condition `json:"condition"`
	// The nested parameter domain.
	Param ParamDomain `json:"param"`
}

// ParamDomain is a tagged variant, exactly one field must be set.
type ParamDomain struct {
	Continuous  *ContinuousDomain  `json:"continuous,omitempty"`
	Discrete    *DiscreteDomain    `json:"discrete,omitempty"`
	Categorical *CategoricalDomain `json:"categorical,omitempty"`
	Conditional *ConditionalDomain `json:"conditional,omitempty"`
}

// Uniform returns a uniformly distributed continuous domain.
func Uniform(name string, low, high float64) ParamDomain {
	return ParamDomain{Continuous: &ContinuousDomain{Name: name, Distribution: DistributionUniform, Range: ContinuousRange{Low: low, High: high}}}
}

// LogUniform returns a log-uniformly distributed continuous domain.
func LogUniform(name string, low, high float64) ParamDomain {
	return ParamDomain{Continuous: &ContinuousDomain{Name: name, Distribution: DistributionLogUniform, Range: ContinuousRange{Low: low, High: high}}}
}

// Discrete returns an inclusive integer domain.
func Discrete(name string, low, high int64) ParamDomain {
	return ParamDomain{Discrete: &DiscreteDomain{Name: name, Range: DiscreteRange{Low: low, High: high}}}
}

// Categorical returns a categorical domain.
func Categorical(name string, choices ...string) ParamDomain {
	return ParamDomain{Categorical: &CategoricalDomain{Name: name, Choices: choices}}
}

// Conditional returns a domain that is only active when the dependent parameter has one of the supplied values.
func Conditional(dependent string, choices []string, param ParamDomain) ParamDomain {
	return ParamDomain{Conditional: &ConditionalDomain{
		Condition: Condition{Member: &MemberCondition{Name: dependent, Choices: choices}},
		Param:     param,
	}}
}

// Kind returns the variant tag, or an empty string if the domain is not exactly one variant.
func (d *ParamDomain) Kind() ParamKind {
	var kind ParamKind
	var n int
	if d.Continuous != nil {
		kind, n = ParamKindContinuous, n+1
	}
	if d.Discrete != nil {
		kind, n = ParamKindDiscrete, n+1
	}
	if d.Categorical != nil {
		kind, n = ParamKindCategorical, n+1
	}
	if d.Conditional != nil {
		kind, n = ParamKindConditional, n+1
	}
	if n != 1 {
		return ""
	}
	return kind
}

// ParamName returns the name of the parameter.
func (d *ParamDomain) ParamName() string {
	switch d.Kind() {
	case ParamKindContinuous:
		return d.Continuous.Name
	case ParamKindDiscrete:
		return d.Discrete.Name
	case ParamKindCategorical:
		return d.Categorical.Name
	case ParamKindConditional:
		if d.Conditional.Name != "" {
			return d.Conditional.Name
		}
		return d.Conditional.Param.ParamName()
	}
	return ""
}

// Validate checks the structure of the domain, including nested conditional domains.
func (d *ParamDomain) Validate() error {
	switch d.Kind() {
	case ParamKindContinuous:
		r := d.Continuous.Range
		if math.IsNaN(r.Low) || math.IsNaN(r.High) || math.IsInf(r.Low, 0) || math.IsInf(r.High, 0) || r.Low > r.High {
			return NewError(ErrInvalidDomain, "invalid range [%g, %g] for %q", r.Low, r.High, d.Continuous.Name)
		}
		switch d.Continuous.Distribution {
		case "", DistributionUniform:
		case DistributionLogUniform:
			if r.Low <= 0 {
				return NewError(ErrInvalidDomain, "log-uniform range of %q must be positive", d.Continuous.Name)
			}
		default:
			return NewError(ErrInvalidDomain, "unknown distribution %q for %q", d.Continuous.Distribution, d.Continuous.Name)
		}
	case ParamKindDiscrete:
		if d.Discrete.Range.Low > d.Discrete.Range.High {
			return NewError(ErrInvalidDomain, "invalid range [%d, %d] for %q", d.Discrete.Range.Low, d.Discrete.Range.High, d.Discrete.Name)
		}
	case ParamKindCategorical:
		if len(d.Categorical.Choices) == 0 {
			return NewError(ErrInvalidDomain, "categorical %q has no choices", d.Categorical.Name)
		}
	case ParamKindConditional:
		if d.Conditional.Condition.Member == nil || d.Conditional.Condition.Member.Name == "" {
			return NewError(ErrInvalidDomain, "conditional %q has no member condition", d.ParamName())
		}
		return d.Conditional.Param.Validate()
	default:
		return NewError(ErrInvalidDomain, "parameter domain must have exactly one variant")
	}
	return nil
}

// RequiredCapabilities returns the capabilities a solver needs to sample from the supplied domains.
func RequiredCapabilities(domains []ParamDomain) Capabilities {
	var required Capabilities
	for i := range domains {
		required = required.Add(requiredCapabilities(&domains[i])...)
	}
	return required
}

func requiredCapabilities(d *ParamDomain) Capabilities {
	switch d.Kind() {
	case ParamKindContinuous:
		if d.Continuous.Distribution == DistributionLogUniform {
			return Capabilities{CapabilityLogUniform}
		}
	case ParamKindDiscrete:
		return Capabilities{CapabilityDiscrete}
	case ParamKindCategorical:
		return Capabilities{CapabilityCategorical}
	case ParamKindConditional:
		return requiredCapabilities(&d.Conditional.Param).Add(CapabilityConditional)
	}
	return nil
}
