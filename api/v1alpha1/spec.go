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
	"fmt"
)

// ValueRange is the expected range of one objective value.
type ValueRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SolverSpec describes a solver.
type SolverSpec struct {
	// The name of the solver.
	Name string `json:"name"`
	// The version of the solver.
	Version string `json:"version,omitempty"`
	// The capabilities of the solver.
	Capabilities Capabilities `json:"capabilities"`
}

// ProblemSpec describes a problem. It is immutable once received.
type ProblemSpec struct {
	// The name of the problem.
	Name string `json:"name"`
	// The version of the problem.
	Version string `json:"version,omitempty"`
	// The ordered parameter domains, parameter values in every message are positional.
	ParamsDomain []ParamDomain `json:"params-domain"`
	// The ranges of the objective values.
	ValuesDomain []ValueRange `json:"values-domain"`
	// The number of steps a fully evaluated trial consumes.
	EvaluationExpense int64 `json:"evaluation-expense"`
	// The capabilities a solver needs to handle this problem.
	Capabilities Capabilities `json:"capabilities,omitempty"`
}

// Validate checks the structure of the problem specification.
func (s *ProblemSpec) Validate() error {
	if s.EvaluationExpense < 1 {
		return NewError(ErrInvalidDomain, "evaluation expense must be positive, got %d", s.EvaluationExpense)
	}
	if len(s.ValuesDomain) == 0 {
		return NewError(ErrInvalidDomain, "problem %q has no values domain", s.Name)
	}
	names := make(map[string]bool, len(s.ParamsDomain))
	for i := range s.ParamsDomain {
		if err := s.ParamsDomain[i].Validate(); err != nil {
			return err
		}
		name := s.ParamsDomain[i].ParamName()
		if names[name] {
			return NewError(ErrInvalidDomain, "duplicate parameter name %q", name)
		}
		names[name] = true
	}
	return nil
}

// RequiredCapabilities returns the capabilities implied by the parameter domains and the declared capabilities.
// Concurrency is handled by the harness and is never required of a solver.
func (s *ProblemSpec) RequiredCapabilities() Capabilities {
	var declared Capabilities
	for _, c := range s.Capabilities {
		if c != CapabilityConcurrent {
			declared = append(declared, c)
		}
	}
	return RequiredCapabilities(s.ParamsDomain).Add(declared...)
}

// CheckCapabilities returns an error if the solver cannot handle this problem.
func (s *ProblemSpec) CheckCapabilities(solver Capabilities) error {
	if missing := solver.Incapables(s.RequiredCapabilities()); len(missing) > 0 {
		return NewError(ErrIncapable, "problem %q requires unsupported capabilities: %s", s.Name, missing)
	}
	return nil
}

// String returns a short description of the problem.
func (s *ProblemSpec) String() string {
	return fmt.Sprintf("%s (%d params, expense %d)", s.Name, len(s.ParamsDomain), s.EvaluationExpense)
}
