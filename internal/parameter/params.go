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
	"fmt"
	"strconv"
	"strings"

	"github.com/thestormforge/optimize-bridge/api/v1alpha1"
)

// Params is the ordered record of resolved parameter values of one trial, keyed by parameter name.
// Parameters of conditional domains whose condition does not hold are absent.
type Params struct {
	names  []string
	values map[string]leaf
}

type leaf struct {
	domain *v1alpha1.ParamDomain
	value  v1alpha1.ParamValue
}

func (p *Params) set(name string, d *v1alpha1.ParamDomain, v v1alpha1.ParamValue) error {
	if p.values == nil {
		p.values = make(map[string]leaf)
	}
	if _, ok := p.values[name]; ok {
		return v1alpha1.NewError(v1alpha1.ErrInvalidDomain, "parameter %q is assigned more than once", name)
	}
	p.names = append(p.names, name)
	p.values[name] = leaf{domain: d, value: v}
	return nil
}

// Names returns the names of the active parameters in assignment order.
func (p *Params) Names() []string {
	return append([]string(nil), p.names...)
}

// Has checks if the named parameter is active.
func (p *Params) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Float returns the value of a continuous parameter.
func (p *Params) Float(name string) (float64, bool) {
	l, ok := p.values[name]
	if !ok || l.value.Kind() != v1alpha1.ParamKindContinuous {
		return 0, false
	}
	return l.value.Continuous(), true
}

// Int returns the value of a discrete parameter.
func (p *Params) Int(name string) (int64, bool) {
	l, ok := p.values[name]
	if !ok || l.value.Kind() != v1alpha1.ParamKindDiscrete {
		return 0, false
	}
	return l.value.Discrete(), true
}

// Choice returns the chosen category of a categorical parameter.
func (p *Params) Choice(name string) (string, bool) {
	l, ok := p.values[name]
	if !ok || l.value.Kind() != v1alpha1.ParamKindCategorical {
		return "", false
	}
	return l.domain.Categorical.Choices[l.value.Categorical()], true
}

// Render returns the textual form of a parameter value used to evaluate member conditions.
func (p *Params) Render(name string) (string, bool) {
	l, ok := p.values[name]
	if !ok {
		return "", false
	}
	switch l.value.Kind() {
	case v1alpha1.ParamKindContinuous:
		return strconv.FormatFloat(l.value.Continuous(), 'g', -1, 64), true
	case v1alpha1.ParamKindDiscrete:
		return strconv.FormatInt(l.value.Discrete(), 10), true
	case v1alpha1.ParamKindCategorical:
		return l.domain.Categorical.Choices[l.value.Categorical()], true
	}
	return "", false
}

// Satisfies checks the condition against the parameters assigned so far.
func (p *Params) Satisfies(c v1alpha1.Condition) bool {
	if c.Member == nil {
		return false
	}
	v, ok := p.Render(c.Member.Name)
	if !ok {
		return false
	}
	for _, choice := range c.Member.Choices {
		if choice == v {
			return true
		}
	}
	return false
}

// String returns the space separated "name=value" pairs.
func (p *Params) String() string {
	pairs := make([]string, 0, len(p.names))
	for _, name := range p.names {
		v, _ := p.Render(name)
		pairs = append(pairs, fmt.Sprintf("%s=%s", name, v))
	}
	return strings.Join(pairs, " ")
}
