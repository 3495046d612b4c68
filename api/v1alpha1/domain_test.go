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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamDomain_Validate(t *testing.T) {
	cases := []struct {
		desc     string
		domain   ParamDomain
		hasError bool
	}{
		{
			desc:   "uniform",
			domain: Uniform("x", 0, 1),
		},
		{
			desc:     "reversed range",
			domain:   Uniform("x", 1, 0),
			hasError: true,
		},
		{
			desc:     "non-positive log uniform",
			domain:   LogUniform("x", 0, 1),
			hasError: true,
		},
		{
			desc:     "infinite bound",
			domain:   Uniform("x", 0, math.Inf(1)),
			hasError: true,
		},
		{
			desc:   "full width discrete",
			domain: Discrete("n", math.MinInt64, math.MaxInt64),
		},
		{
			desc:   "single valued discrete",
			domain: Discrete("n", 3, 3),
		},
		{
			desc:     "no choices",
			domain:   Categorical("c"),
			hasError: true,
		},
		{
			desc:   "conditional",
			domain: Conditional("c", []string{"a"}, Uniform("x", 0, 1)),
		},
		{
			desc:     "conditional with invalid nested domain",
			domain:   Conditional("c", []string{"a"}, Discrete("n", 2, 1)),
			hasError: true,
		},
		{
			desc:     "empty",
			hasError: true,
		},
		{
			desc: "two variants",
			domain: ParamDomain{
				Continuous: Uniform("x", 0, 1).Continuous,
				Discrete:   Discrete("n", 0, 1).Discrete,
			},
			hasError: true,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			err := c.domain.Validate()
			if c.hasError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequiredCapabilities(t *testing.T) {
	domains := []ParamDomain{
		Uniform("x", 0, 1),
		Conditional("x", []string{"0.5"}, LogUniform("y", 1, 10)),
	}
	assert.Equal(t, Capabilities{CapabilityConditional, CapabilityLogUniform}, RequiredCapabilities(domains))
	assert.Empty(t, RequiredCapabilities([]ParamDomain{Uniform("x", 0, 1)}))
}

func TestCapabilities_Incapables(t *testing.T) {
	solver := Capabilities{CapabilityCategorical, CapabilityDiscrete}
	assert.Empty(t, solver.Incapables(Capabilities{CapabilityDiscrete}))
	assert.Equal(t, Capabilities{CapabilityConditional}, solver.Incapables(Capabilities{CapabilityConditional, CapabilityDiscrete}))

	spec := ProblemSpec{Name: "p", ParamsDomain: []ParamDomain{LogUniform("x", 1, 2)}, Capabilities: Capabilities{CapabilityConcurrent}}
	err := spec.CheckCapabilities(solver)
	assert.True(t, IsUnsupportedParameter(err))
	assert.NoError(t, spec.CheckCapabilities(AllCapabilities()))
}

func TestBudget_Validate(t *testing.T) {
	assert.NoError(t, Budget{Amount: 2, Consumption: 2}.Validate())
	assert.True(t, IsProtocolViolation(Budget{Amount: 1, Consumption: 2}.Validate()))
	assert.True(t, IsProtocolViolation(Budget{Amount: -1}.Validate()))
	assert.Equal(t, int64(3), Budget{Amount: 5, Consumption: 2}.Remaining())
}
